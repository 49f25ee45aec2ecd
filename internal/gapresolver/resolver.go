// Package gapresolver implements the Progressive Gap Resolver (spec
// §4.I): a three-phase sweep — extract roadmap concepts into phase-
// tagged gaps, ingest context fractals from one or more configured
// sources, then resolve each open gap against the pooled corpus by
// keyword intersection, emitting provenance-tagged Concepts.
//
// Grounded on internal/campaign/orchestrator_phases.go's extract/
// transform/commit staging, the NorthstarPhase progression in
// internal/prompt/context.go (doc_ingestion -> problem -> vision ->
// requirements -> architecture -> roadmap -> validation) for a
// keyword-matched phase-tag vocabulary, and the errgroup+semaphore
// concurrency pattern used across the corpus for bounded parallel
// fan-out over configurable sources.
package gapresolver

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"hrc/internal/config"
	"hrc/internal/herrors"
	"hrc/internal/logging"
	"hrc/internal/types"
)

// RoadmapConcept is one raw concept pulled from a roadmap source before
// phase tagging (spec §4.I phase 1).
type RoadmapConcept struct {
	Key         string
	Description string
	Priority    int
}

// RoadmapSource extracts the roadmap concepts that seed the open-gap
// map for a sweep.
type RoadmapSource interface {
	Extract(ctx context.Context) ([]RoadmapConcept, error)
}

// ContextSource ingests a batch of context fractals for one sweep (spec
// §4.I phase 2). A sweep draws from every configured source
// concurrently; all returned fractals are pooled into one corpus before
// phase 3 runs.
type ContextSource interface {
	Ingest(ctx context.Context) ([]types.IngestedContext, error)
}

// phaseLexicon assigns a roadmap concept to a phase tag by keyword
// match. The first matching keyword wins, checked in NorthstarPhase
// order; an unmatched concept falls back to "roadmap", the catch-all
// planning phase.
var phaseLexicon = []struct {
	phase    string
	keywords []string
}{
	{"doc_ingestion", []string{"ingest", "document", "corpus"}},
	{"problem", []string{"problem", "pain point", "blocker"}},
	{"vision", []string{"vision", "purpose", "north star"}},
	{"requirements", []string{"requirement", "must", "shall"}},
	{"architecture", []string{"architecture", "design", "component"}},
	{"validation", []string{"validation", "verify", "acceptance"}},
}

func tagPhase(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range phaseLexicon {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.phase
			}
		}
	}
	return "roadmap"
}

// Resolver tracks knowledge Gaps and the Concepts resolved from them.
type Resolver struct {
	cfg config.GapResolverConfig

	mu       sync.Mutex
	gaps     map[string]*types.Gap
	concepts []types.Concept
}

// NewResolver returns an empty Resolver.
func NewResolver(cfg config.GapResolverConfig) *Resolver {
	return &Resolver{cfg: cfg, gaps: map[string]*types.Gap{}}
}

// Track registers or updates a Gap by key directly, bypassing roadmap
// extraction (e.g. a gap discovered mid-cycle rather than pulled from a
// roadmap source). Calling Track on an existing key refreshes LastSeen
// and bumps Priority if higher, without resetting Resolved or Attempts
// or overwriting an already-assigned PhaseTag.
func (r *Resolver) Track(key, description string, priority int) {
	r.track(key, description, priority, "")
}

func (r *Resolver) track(key, description string, priority int, phaseTag string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gaps[key]
	if !ok {
		r.gaps[key] = &types.Gap{
			Key: key, Description: description, Priority: priority,
			PhaseTag: phaseTag, LastSeen: types.TimeNow(),
		}
		return
	}
	g.LastSeen = types.TimeNow()
	if priority > g.Priority {
		g.Priority = priority
	}
	if g.PhaseTag == "" {
		g.PhaseTag = phaseTag
	}
}

// ExtractRoadmap runs phase 1 of a sweep: pull roadmap concepts from
// source, assign each a phase tag by keyword match, and seed the
// open-gap map. Returns the number of concepts extracted.
func (r *Resolver) ExtractRoadmap(ctx context.Context, source RoadmapSource) (int, error) {
	if source == nil {
		return 0, herrors.New(herrors.Invalid, "gap resolver extraction requires a RoadmapSource")
	}
	concepts, err := source.Extract(ctx)
	if err != nil {
		return 0, herrors.Wrap(herrors.Transient, "roadmap extraction", err)
	}
	for _, c := range concepts {
		tag := tagPhase(c.Key + " " + c.Description)
		r.track(c.Key, c.Description, c.Priority, tag)
	}
	logging.GapResolverDebug("extracted %d roadmap concepts", len(concepts))
	return len(concepts), nil
}

// Gaps returns a copy of every tracked Gap.
func (r *Resolver) Gaps() []types.Gap {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Gap, 0, len(r.gaps))
	for _, g := range r.gaps {
		out = append(out, *g)
	}
	return out
}

// Concepts returns a copy of every Concept resolved so far.
func (r *Resolver) Concepts() []types.Concept {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Concept(nil), r.concepts...)
}

// Sweep runs phases 2 and 3 of a sweep over every unresolved gap (phase
// 1 is assumed already seeded via Track/ExtractRoadmap). It ingests
// concurrently from every source in sources, bounded by
// MaxConcurrentIngests, pools their fractals into one corpus, then
// resolves each unresolved gap against that corpus by keyword
// intersection (spec §4.I phase 3): on the first context whose Content
// shares a token with the gap's key/description, a Concept is emitted
// and the gap marked resolved. It returns a SweepReport even on partial
// ingest failure; a per-source ingest error is logged and counted,
// never aborting the sweep (spec §4.I: a sweep always completes and
// reports).
func (r *Resolver) Sweep(ctx context.Context, sources ...ContextSource) (types.SweepReport, error) {
	if len(sources) == 0 {
		return types.SweepReport{}, herrors.New(herrors.Invalid, "gap resolver sweep requires at least one ContextSource")
	}

	r.mu.Lock()
	pending := make([]*types.Gap, 0, len(r.gaps))
	for _, g := range r.gaps {
		if !g.Resolved {
			pending = append(pending, g)
		}
	}
	r.mu.Unlock()

	limit := r.cfg.MaxConcurrentIngests
	if limit <= 0 {
		limit = 4
	}
	sem := semaphore.NewWeighted(int64(limit))
	group, gctx := errgroup.WithContext(ctx)

	batches := make([][]types.IngestedContext, len(sources))
	var ingestFailures herrors.Aggregator
	var failMu sync.Mutex

	// Phase 2: ingest concurrently, bounded.
	for i, src := range sources {
		i, src := i, src
		group.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			batch, err := src.Ingest(gctx)
			if err != nil {
				logging.GapResolverDebug("ingest failed for source %d: %v", i, err)
				failMu.Lock()
				ingestFailures.Add(herrors.Wrap(herrors.Transient, "ingest context source", err))
				failMu.Unlock()
				return nil // a failed source does not abort the sweep
			}
			batches[i] = batch
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return types.SweepReport{}, err
	}

	var corpus []types.IngestedContext
	for _, b := range batches {
		corpus = append(corpus, b...)
	}

	// Phase 3: resolve each unresolved gap against the pooled corpus by
	// keyword intersection, emitting a Concept on first match.
	report := types.SweepReport{GapsTotal: len(r.gaps)}
	r.mu.Lock()
	for _, g := range pending {
		g.Attempts++
		terms := tokenize(g.Key + " " + g.Description)
		for _, doc := range corpus {
			if !intersects(terms, tokenize(doc.Content)) {
				continue
			}
			concept := types.Concept{
				Name:          g.Key,
				Description:   g.Description,
				SourceGapKey:  g.Key,
				SourceContext: doc.SourcePath,
				Provenance:    doc.ProvenanceID,
				CreatedAt:     types.TimeNow(),
			}
			r.concepts = append(r.concepts, concept)
			g.Resolved = true
			report.ConceptsNew++
			break
		}
	}
	for _, g := range r.gaps {
		if g.Resolved {
			report.GapsResolved++
		}
	}
	r.mu.Unlock()
	report.GapsRemaining = report.GapsTotal - report.GapsResolved
	report.IngestErrors = ingestFailures.Count()

	logging.GapResolver("sweep complete: total=%d resolved=%d new_concepts=%d ingest_errors=%d", report.GapsTotal, report.GapsResolved, report.ConceptsNew, report.IngestErrors)
	return report, nil
}

// tokenize lowercases s and splits it into a set of alphanumeric terms
// of at least three characters, discarding short connective words as
// noise for keyword-intersection matching.
func tokenize(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, field := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	}) {
		if len(field) > 2 {
			out[field] = struct{}{}
		}
	}
	return out
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
