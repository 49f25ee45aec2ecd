package strategy

import (
	"sort"

	"gopkg.in/yaml.v3"

	"hrc/internal/types"
)

// Snapshot is the YAML-serializable form of a Registry's current state,
// used for the round-trip testable property (spec §8).
type Snapshot struct {
	Priors []types.StrategyPrior `yaml:"priors"`
}

// Snapshot captures r's current state.
func (r *Registry) Snapshot() Snapshot {
	priors := r.List()
	sort.Slice(priors, func(i, j int) bool { return priors[i].ID < priors[j].ID })
	return Snapshot{Priors: priors}
}

// MarshalYAML serializes the registry's current state.
func (r *Registry) MarshalYAML() ([]byte, error) {
	return yaml.Marshal(r.Snapshot())
}

// Restore replaces r's priors with those in snap. Strategies not present
// in snap keep their current values.
func (r *Registry) Restore(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range snap.Priors {
		p := snap.Priors[i]
		r.priors[p.ID] = &p
	}
}

// RestoreYAML decodes data as a Snapshot and applies it via Restore.
func (r *Registry) RestoreYAML(data []byte) error {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return err
	}
	r.Restore(snap)
	return nil
}
