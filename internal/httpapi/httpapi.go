// Package httpapi exposes the HRC Orchestrator's submit/status/cancel/
// statistics surface over HTTP, routed with gorilla/mux the same way
// internal/server wires endpoints elsewhere in the corpus.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"hrc/internal/herrors"
	"hrc/internal/logging"
	"hrc/internal/orchestrator"
	"hrc/internal/types"
)

// Server wraps an Orchestrator with an HTTP surface.
type Server struct {
	orch   *orchestrator.Orchestrator
	router *mux.Router
}

// NewServer builds a Server routing requests to orch.
func NewServer(orch *orchestrator.Orchestrator) *Server {
	s := &Server{orch: orch, router: mux.NewRouter()}
	s.router.HandleFunc("/cycles", s.handleSubmit).Methods(http.MethodPost)
	s.router.HandleFunc("/cycles/{id}", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/cycles/{id}", s.handleCancel).Methods(http.MethodDelete)
	s.router.HandleFunc("/statistics", s.handleStatistics).Methods(http.MethodGet)
	s.router.Use(loggingMiddleware)
	return s
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := logging.StartTimer(logging.CategoryHTTP, r.Method+" "+r.URL.Path)
		defer t.Stop()
		next.ServeHTTP(w, r)
	})
}

type submitRequest struct {
	Kind          types.Classification `json:"kind"`
	Payload       map[string]any       `json:"payload"`
	OriginMessage string               `json:"origin_message"`
	Args          []string             `json:"args"`
	Context       types.Context        `json:"context"`
}

type submitResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, herrors.New(herrors.Invalid, "malformed request body"))
		return
	}
	q := types.Query{
		Kind:          req.Kind,
		Payload:       req.Payload,
		OriginMessage: req.OriginMessage,
		Args:          req.Args,
	}
	pending, err := s.orch.Submit(r.Context(), q, req.Context)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{ID: pending.ID})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := s.orch.Status(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.orch.Cancel(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.orch.Statistics())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if kind, ok := herrors.KindOf(err); ok {
		switch kind {
		case herrors.Invalid:
			status = http.StatusBadRequest
		case herrors.Cancelled:
			status = http.StatusRequestTimeout
		case herrors.Timeout:
			status = http.StatusGatewayTimeout
		}
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// ListenAndServe starts the HTTP surface on addr with sane timeouts,
// matching the server bring-up convention in internal/server.
func ListenAndServe(addr string, orch *orchestrator.Orchestrator) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      NewServer(orch),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return srv.ListenAndServe()
}
