// Package collab declares the external collaborator interfaces the
// Cognitive Cycle Engine delegates strategy execution to (spec §6): a
// memory substrate for semantic search, a graph disambiguator, an LLM
// transducer, a generative kernel, an object-system integration, and an
// optional persistence sink. This package holds only the interfaces —
// callers wire their own, or the in-process stand-ins in
// internal/collab/inmemory, the same way internal/campaign elsewhere in
// the corpus takes its model client and tool registry as injected
// interfaces rather than owning them.
package collab

import (
	"context"
	"time"

	"hrc/internal/types"
)

// Match is one candidate result from a substrate or graph search.
type Match struct {
	ID      string
	Score   float64
	Payload any
}

// SearchResponse is returned by both MemorySubstrate and
// GraphDisambiguator. Disambiguated is true only when a reranking step
// narrowed multiple hits down to a single confident best match — it is
// meaningless (always false) for a raw substrate search.
type SearchResponse struct {
	Matches       []Match
	Disambiguated bool
}

// MemorySubstrate performs semantic search over the host's memory store.
// Used by the vsa_native and global_search strategies.
type MemorySubstrate interface {
	Search(ctx context.Context, q types.Query) (SearchResponse, error)
}

// GraphDisambiguator performs search followed by a graph-based rerank.
// Used by the graph_disambiguation strategy.
type GraphDisambiguator interface {
	SearchAndRerank(ctx context.Context, q types.Query) (SearchResponse, error)
}

// TransductionResult is the outcome of asking an LLM to decompose a query
// into a structured tool call.
type TransductionResult struct {
	ToolCallParsed bool
	Payload        any
}

// LLMTransducer turns a query into a structured tool call or answer. Used
// by the llm_decomposition strategy.
type LLMTransducer interface {
	Decompose(ctx context.Context, q types.Query) (TransductionResult, error)
}

// GenerativeKernel synthesizes a novel answer when no strategy's
// confidence clears theta_disc. A nil result with a nil error means the
// kernel declined to generate.
type GenerativeKernel interface {
	Generate(ctx context.Context, q types.Query) (*types.SolutionCandidate, error)
}

// ObjectSystem resolves an opaque query Originator/reference against the
// host's object system (spec §6), e.g. binding a handle to a live entity
// before a strategy runs against it. Optional: a nil ObjectSystem on
// Collaborators means references are passed through unresolved.
type ObjectSystem interface {
	Resolve(ctx context.Context, ref any) (map[string]any, error)
}

// Event is one record offered to an optional PersistenceSink.
type Event struct {
	Kind    string
	Payload map[string]any
	At      time.Time
}

// PersistenceSink optionally durable-logs cycle and orchestrator events
// (strategy updates, template evolutions, adaptation triggers). Nil means
// no persistence; callers that want durability provide their own sink
// over whatever store they run (spec §6: "optional persistence sink").
type PersistenceSink interface {
	Record(ctx context.Context, event Event) error
}

// Collaborators bundles every external dependency the Cognitive Cycle
// Engine and HRC Orchestrator need. Memory, Graph, and LLM are required;
// Generator, Objects, and Sink may be nil to disable the corresponding
// optional behavior.
type Collaborators struct {
	Memory    MemorySubstrate
	Graph     GraphDisambiguator
	LLM       LLMTransducer
	Generator GenerativeKernel
	Objects   ObjectSystem
	Sink      PersistenceSink
}

// record is a no-op when c.Sink is nil, sparing every call site a nil
// check.
func (c Collaborators) record(ctx context.Context, kind string, payload map[string]any) {
	if c.Sink == nil {
		return
	}
	_ = c.Sink.Record(ctx, Event{Kind: kind, Payload: payload, At: types.TimeNow()})
}

// Record exposes the sink-or-noop behavior to other packages
// (orchestrator, monitor) that emit events through the same
// Collaborators value.
func (c Collaborators) Record(ctx context.Context, kind string, payload map[string]any) {
	c.record(ctx, kind, payload)
}
