package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hrc/internal/collab"
	"hrc/internal/config"
	"hrc/internal/orchestrator"
	"hrc/internal/types"
)

type stubMemory struct{}

func (stubMemory) Search(context.Context, types.Query) (collab.SearchResponse, error) {
	return collab.SearchResponse{Matches: []collab.Match{{ID: "1"}}}, nil
}
func (stubMemory) SearchAndRerank(context.Context, types.Query) (collab.SearchResponse, error) {
	return collab.SearchResponse{Matches: []collab.Match{{ID: "1"}}}, nil
}

func testOrchestrator() *orchestrator.Orchestrator {
	cfg := config.DefaultConfig()
	cfg.Cycle.Timeout = time.Second
	mem := stubMemory{}
	return orchestrator.New(*cfg, collab.Collaborators{Memory: mem, Graph: mem})
}

func TestSubmitStatusRoundTrip(t *testing.T) {
	srv := NewServer(testOrchestrator())

	body := strings.NewReader(`{"kind":"SemanticLookup","origin_message":"hello"}`)
	req := httptest.NewRequest(http.MethodPost, "/cycles", body)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("submit status = %d, want %d; body=%s", rec.Code, http.StatusAccepted, rec.Body.String())
	}
}

func TestStatusUnknownIDReturns400(t *testing.T) {
	srv := NewServer(testOrchestrator())

	req := httptest.NewRequest(http.MethodGet, "/cycles/nonexistent", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	srv := NewServer(testOrchestrator())

	req := httptest.NewRequest(http.MethodGet, "/statistics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
