package orchestrator

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"

	"hrc/internal/collab"
	"hrc/internal/config"
	"hrc/internal/types"
)

// TestMain guards against the orchestrator leaking the per-cycle
// goroutines it spawns in Submit — every test here waits for its cycle
// to reach a terminal state before returning, so none should still be
// running once the package's tests finish.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubMemory struct {
	resp collab.SearchResponse
}

func (s stubMemory) Search(context.Context, types.Query) (collab.SearchResponse, error) {
	return s.resp, nil
}
func (s stubMemory) SearchAndRerank(context.Context, types.Query) (collab.SearchResponse, error) {
	return s.resp, nil
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Cycle.Timeout = time.Second
	cfg.Cycle.MaxIterations = 3
	cfg.Cycle.MaxConcurrentCycles = 4
	return *cfg
}

func TestSubmitAndWaitReturnsTerminalCycle(t *testing.T) {
	mem := stubMemory{resp: collab.SearchResponse{Matches: []collab.Match{{ID: "1"}}}}
	orch := New(testConfig(), collab.Collaborators{Memory: mem, Graph: mem})

	pending, err := orch.Submit(context.Background(), types.Query{Kind: types.ClassSemanticLookup}, nil)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	c, err := pending.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if !c.Status.IsTerminal() {
		t.Fatalf("Status = %v, want terminal", c.Status)
	}
}

func TestStatusReflectsCompletedCycle(t *testing.T) {
	mem := stubMemory{resp: collab.SearchResponse{Matches: []collab.Match{{ID: "1", Score: 0.9}}}}
	orch := New(testConfig(), collab.Collaborators{Memory: mem, Graph: mem})

	pending, _ := orch.Submit(context.Background(), types.Query{Kind: types.ClassSemanticLookup}, nil)
	if _, err := pending.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}

	c, err := orch.Status(pending.ID)
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if c.Status != types.CycleCompleted {
		t.Fatalf("Status() = %v, want Completed", c.Status)
	}
}

func TestStatusUnknownIDErrors(t *testing.T) {
	orch := New(testConfig(), collab.Collaborators{})
	if _, err := orch.Status("nonexistent"); err == nil {
		t.Fatal("Status() on unknown id returned nil error")
	}
}

func TestCancelStopsRunningCycle(t *testing.T) {
	block := make(chan struct{})
	mem := blockingMemory{unblock: block}
	orch := New(testConfig(), collab.Collaborators{Memory: mem, Graph: mem})

	pending, err := orch.Submit(context.Background(), types.Query{Kind: types.ClassGeneric}, nil)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if err := orch.Cancel(pending.ID); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}

	c, err := pending.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if c.Outcome.Error != "cancelled" {
		t.Fatalf("Outcome.Error = %q, want cancelled", c.Outcome.Error)
	}
}

type blockingMemory struct {
	unblock <-chan struct{}
}

func (b blockingMemory) Search(ctx context.Context, _ types.Query) (collab.SearchResponse, error) {
	select {
	case <-b.unblock:
		return collab.SearchResponse{}, nil
	case <-ctx.Done():
		return collab.SearchResponse{}, ctx.Err()
	}
}
func (b blockingMemory) SearchAndRerank(ctx context.Context, q types.Query) (collab.SearchResponse, error) {
	return b.Search(ctx, q)
}

func TestStatisticsAggregatesOutcomes(t *testing.T) {
	mem := stubMemory{resp: collab.SearchResponse{Matches: []collab.Match{{ID: "1", Score: 0.9}}}}
	orch := New(testConfig(), collab.Collaborators{Memory: mem, Graph: mem})

	pending, _ := orch.Submit(context.Background(), types.Query{Kind: types.ClassSemanticLookup}, nil)
	if _, err := pending.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}

	stats := orch.Statistics()
	if stats.Submitted != 1 || stats.Succeeded != 1 {
		t.Fatalf("Statistics() = %+v, want Submitted=1 Succeeded=1", stats)
	}
}

func TestDoesNotUnderstandInterceptionPinsLLMDecomposition(t *testing.T) {
	llm := stubLLM{}
	orch := New(testConfig(), collab.Collaborators{LLM: llm})

	pending, err := orch.Submit(context.Background(), types.Query{Kind: types.ClassDoesNotUnderstand}, nil)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	c, err := pending.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if c.ChosenStrategy != types.StrategyLLMDecomposition {
		t.Fatalf("ChosenStrategy = %v, want llm_decomposition", c.ChosenStrategy)
	}
}

type stubLLM struct{}

func (stubLLM) Decompose(context.Context, types.Query) (collab.TransductionResult, error) {
	return collab.TransductionResult{ToolCallParsed: true}, nil
}

type stubObjects struct {
	resolved map[any]map[string]any
}

func (s stubObjects) Resolve(_ context.Context, ref any) (map[string]any, error) {
	return s.resolved[ref], nil
}

func TestDispatchUnresolvedSynthesizesDoesNotUnderstandQuery(t *testing.T) {
	llm := stubLLM{}
	orch := New(testConfig(), collab.Collaborators{LLM: llm})

	pending, err := orch.DispatchUnresolved(context.Background(), "frobnicate", "widget-1", []string{"a", "b"}, "caller-1")
	if err != nil {
		t.Fatalf("DispatchUnresolved() error: %v", err)
	}
	c, err := pending.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if c.Query.Kind != types.ClassDoesNotUnderstand {
		t.Fatalf("Query.Kind = %v, want DoesNotUnderstand", c.Query.Kind)
	}
	if c.Query.OriginMessage != "frobnicate" {
		t.Fatalf("Query.OriginMessage = %q, want frobnicate", c.Query.OriginMessage)
	}
	if c.ChosenStrategy != types.StrategyLLMDecomposition {
		t.Fatalf("ChosenStrategy = %v, want llm_decomposition", c.ChosenStrategy)
	}
	if c.Query.Payload["receiver_descriptor"] != "widget-1" {
		t.Fatalf("Query.Payload[receiver_descriptor] = %v, want widget-1", c.Query.Payload["receiver_descriptor"])
	}
}

func TestDispatchUnresolvedResolvesReceiverThroughObjectSystem(t *testing.T) {
	llm := stubLLM{}
	objects := stubObjects{resolved: map[any]map[string]any{
		"widget-1": {"kind": "widget"},
		"caller-1": {"kind": "caller"},
	}}
	orch := New(testConfig(), collab.Collaborators{LLM: llm, Objects: objects})

	pending, err := orch.DispatchUnresolved(context.Background(), "frobnicate", "widget-1", nil, "caller-1")
	if err != nil {
		t.Fatalf("DispatchUnresolved() error: %v", err)
	}
	c, err := pending.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	receiver, ok := c.Query.Payload["receiver"].(map[string]any)
	if !ok || receiver["kind"] != "widget" {
		t.Fatalf("Query.Payload[receiver] = %v, want resolved widget attrs", c.Query.Payload["receiver"])
	}
	originator, ok := c.Query.Originator.(map[string]any)
	if !ok || originator["kind"] != "caller" {
		t.Fatalf("Query.Originator = %v, want resolved caller attrs", c.Query.Originator)
	}
}
