package types

// StrategyID names one of the registered reasoning strategies.
type StrategyID string

const (
	StrategyVSANative           StrategyID = "vsa_native"
	StrategyGraphDisambiguation StrategyID = "graph_disambiguation"
	StrategyLLMDecomposition    StrategyID = "llm_decomposition"
	StrategyGlobalSearch        StrategyID = "global_search"
)

// StrategyPrior is the immutable-at-init, mutable-at-runtime parameter set
// for one strategy: expected success P, expected cost C, and goal value G.
// All three stay in [0,1] as an invariant enforced by the Strategy Registry.
type StrategyPrior struct {
	ID          StrategyID
	DisplayName string
	P           float64 // expected success
	C           float64 // expected cost
	G           float64 // goal value
}
