// Package template implements the Template Store (spec §4.G): an
// append-only, per-name version list with {variable} rendering and
// analysis-driven evolution.
//
// Grounded on internal/prompt/atoms.go (atom/version bookkeeping) and
// internal/prompt/manifest.go (rendering observability shape).
package template

import (
	"sort"
	"sync"

	"hrc/internal/herrors"
	"hrc/internal/logging"
	"hrc/internal/types"
)

// Store holds every version of every named template. The latest version
// per name is the active one (spec §3).
type Store struct {
	mu       sync.RWMutex
	versions map[string][]types.PromptTemplate // ordered oldest -> newest
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{versions: map[string][]types.PromptTemplate{}}
}

// Seed registers the first version (version 1) of a template by name.
// Intended for boot-time registration of baseline templates.
func (s *Store) Seed(name, text string, variables []string) types.PromptTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := types.PromptTemplate{
		Name:      name,
		Version:   1,
		Text:      text,
		Variables: append([]string(nil), variables...),
		CreatedAt: types.TimeNow(),
	}
	s.versions[name] = []types.PromptTemplate{t}
	return t
}

// latestLocked returns the active (highest-version) template for name.
// Caller must hold s.mu.
func (s *Store) latestLocked(name string) (types.PromptTemplate, bool) {
	vs := s.versions[name]
	if len(vs) == 0 {
		return types.PromptTemplate{}, false
	}
	return vs[len(vs)-1], true
}

// Get renders the active version of name with vars. Missing variables
// render empty (spec §4.G).
func (s *Store) Get(name string, vars map[string]string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.latestLocked(name)
	if !ok {
		return "", herrors.New(herrors.Integrity, "template name missing: "+name)
	}
	return t.Render(vars), nil
}

// Versions returns every version of name, oldest first.
func (s *Store) Versions(name string) []types.PromptTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.PromptTemplate(nil), s.versions[name]...)
}

// Names returns every registered template name, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.versions))
	for name := range s.versions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Append adds a new version to name, built from the active version's text
// transformed by mutate. It never mutates prior versions (spec §3
// invariant: monotonically increasing, no gaps). Returns the new version
// number.
func (s *Store) Append(name string, mutate func(current types.PromptTemplate) (text string, variables []string)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.latestLocked(name)
	if !ok {
		return 0, herrors.New(herrors.Integrity, "template name missing: "+name)
	}
	text, vars := mutate(cur)
	next := types.PromptTemplate{
		Name:          name,
		Version:       cur.Version + 1,
		Text:          text,
		Variables:     vars,
		CreatedAt:     types.TimeNow(),
		ParentVersion: cur.Version,
	}
	s.versions[name] = append(s.versions[name], next)
	logging.TemplateDebug("evolved template %s to v%d (parent v%d)", name, next.Version, cur.Version)
	return next.Version, nil
}
