// Package inmemory provides fast, deterministic in-process
// implementations of the collab interfaces for local runs, the CLI's
// default wiring, and tests that don't need a real memory substrate or
// LLM. It mirrors internal/testing/context_harness's MockContextEngine:
// simplified scoring standing in for the real subsystems, persisted only
// for the life of the process.
package inmemory

import (
	"context"
	"strings"
	"sync"

	"hrc/internal/collab"
	"hrc/internal/types"
)

// Memory is a trivial in-process substring-matching substrate. Entries
// are added via Put and searched via Search/SearchAndRerank, so it also
// doubles as the GraphDisambiguator — its "rerank" is just a stronger
// match requirement (content contains the whole query text) than its
// "search" (token overlap); when no hit meets it, every search hit is kept.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string // key -> content
}

var (
	_ collab.MemorySubstrate    = (*Memory)(nil)
	_ collab.GraphDisambiguator = (*Memory)(nil)
)

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{entries: map[string]string{}}
}

// Put registers a searchable entry.
func (m *Memory) Put(key, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = content
}

func (m *Memory) queryText(q types.Query) string {
	if q.OriginMessage != "" {
		return q.OriginMessage
	}
	if len(q.Args) > 0 {
		return strings.Join(q.Args, " ")
	}
	return ""
}

// Search returns every entry whose content shares a token with q.
func (m *Memory) Search(_ context.Context, q types.Query) (collab.SearchResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	terms := strings.Fields(strings.ToLower(m.queryText(q)))
	var hits []collab.Match
	for key, content := range m.entries {
		if overlaps(terms, content) {
			hits = append(hits, collab.Match{ID: key, Score: 1, Payload: content})
		}
	}
	return collab.SearchResponse{Matches: hits}, nil
}

// SearchAndRerank narrows Search's result set to entries containing the
// full query text verbatim, marking the response disambiguated whenever
// exactly one survives.
func (m *Memory) SearchAndRerank(ctx context.Context, q types.Query) (collab.SearchResponse, error) {
	resp, err := m.Search(ctx, q)
	if err != nil {
		return resp, err
	}
	text := strings.ToLower(m.queryText(q))
	var narrowed []collab.Match
	for _, h := range resp.Matches {
		if strings.Contains(strings.ToLower(h.Payload.(string)), text) {
			narrowed = append(narrowed, h)
		}
	}
	if len(narrowed) == 0 {
		narrowed = resp.Matches
	}
	return collab.SearchResponse{Matches: narrowed, Disambiguated: len(narrowed) == 1}, nil
}

func overlaps(terms []string, content string) bool {
	lower := strings.ToLower(content)
	for _, t := range terms {
		if t != "" && strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// EchoTransducer is a deterministic LLMTransducer stand-in: it "parses a
// tool call" whenever the query carries at least one arg, and otherwise
// reports an unparsed decomposition.
type EchoTransducer struct{}

var _ collab.LLMTransducer = EchoTransducer{}

// Decompose implements collab.LLMTransducer.
func (EchoTransducer) Decompose(_ context.Context, q types.Query) (collab.TransductionResult, error) {
	if len(q.Args) == 0 {
		return collab.TransductionResult{ToolCallParsed: false}, nil
	}
	return collab.TransductionResult{
		ToolCallParsed: true,
		Payload:        map[string]any{"tool": q.Args[0], "args": q.Args[1:]},
	}, nil
}

// NullGenerator always declines to generate, matching a host that has no
// generative kernel wired in.
type NullGenerator struct{}

var _ collab.GenerativeKernel = NullGenerator{}

// Generate implements collab.GenerativeKernel.
func (NullGenerator) Generate(context.Context, types.Query) (*types.SolutionCandidate, error) {
	return nil, nil
}

// Registry is a trivial in-process ObjectSystem: a fixed map from an
// opaque reference to the entity attributes it resolves to, registered
// ahead of time via Register. It stands in for a real object system the
// way Memory stands in for a real semantic substrate.
type Registry struct {
	mu      sync.RWMutex
	objects map[any]map[string]any
}

var _ collab.ObjectSystem = (*Registry)(nil)

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{objects: map[any]map[string]any{}}
}

// Register binds ref to the attributes a Resolve of ref should return.
func (r *Registry) Register(ref any, attrs map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[ref] = attrs
}

// Resolve implements collab.ObjectSystem. An unregistered ref is not an
// error — it resolves to an empty attribute set, matching the semantics
// of a reference that is valid but carries no further host-side state.
func (r *Registry) Resolve(_ context.Context, ref any) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attrs, ok := r.objects[ref]
	if !ok {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out, nil
}
