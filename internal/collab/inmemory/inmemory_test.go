package inmemory

import (
	"context"
	"testing"

	"hrc/internal/types"
)

func TestMemorySearchMatchesOnTokenOverlap(t *testing.T) {
	m := NewMemory()
	m.Put("doc-1", "the quick brown fox")
	m.Put("doc-2", "a lazy dog")

	resp, err := m.Search(context.Background(), types.Query{OriginMessage: "brown"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(resp.Matches) != 1 || resp.Matches[0].ID != "doc-1" {
		t.Fatalf("Search() = %+v, want a single match on doc-1", resp.Matches)
	}
}

func TestMemorySearchAndRerankDisambiguatesSingleSurvivor(t *testing.T) {
	m := NewMemory()
	m.Put("doc-1", "quick brown fox")
	m.Put("doc-2", "quick silver car")

	resp, err := m.SearchAndRerank(context.Background(), types.Query{OriginMessage: "quick brown fox"})
	if err != nil {
		t.Fatalf("SearchAndRerank() error: %v", err)
	}
	if !resp.Disambiguated || len(resp.Matches) != 1 {
		t.Fatalf("SearchAndRerank() = %+v, want one disambiguated match", resp)
	}
}

func TestEchoTransducerParsesToolCallWithArgs(t *testing.T) {
	tr := EchoTransducer{}
	result, err := tr.Decompose(context.Background(), types.Query{Args: []string{"search", "foo"}})
	if err != nil {
		t.Fatalf("Decompose() error: %v", err)
	}
	if !result.ToolCallParsed {
		t.Fatal("Decompose() with args did not report a parsed tool call")
	}
}

func TestEchoTransducerNoArgsUnparsed(t *testing.T) {
	tr := EchoTransducer{}
	result, err := tr.Decompose(context.Background(), types.Query{})
	if err != nil {
		t.Fatalf("Decompose() error: %v", err)
	}
	if result.ToolCallParsed {
		t.Fatal("Decompose() with no args reported a parsed tool call")
	}
}

func TestNullGeneratorDeclines(t *testing.T) {
	cand, err := (NullGenerator{}).Generate(context.Background(), types.Query{})
	if err != nil || cand != nil {
		t.Fatalf("Generate() = (%v, %v), want (nil, nil)", cand, err)
	}
}

func TestRegistryResolvesRegisteredRef(t *testing.T) {
	r := NewRegistry()
	r.Register("widget-1", map[string]any{"kind": "widget"})

	attrs, err := r.Resolve(context.Background(), "widget-1")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if attrs["kind"] != "widget" {
		t.Fatalf("Resolve() = %+v, want kind=widget", attrs)
	}
}

func TestRegistryResolvesUnregisteredRefToEmpty(t *testing.T) {
	r := NewRegistry()
	attrs, err := r.Resolve(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(attrs) != 0 {
		t.Fatalf("Resolve(missing) = %+v, want empty", attrs)
	}
}
