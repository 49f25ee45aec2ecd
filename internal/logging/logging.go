// Package logging provides config-driven categorized logging for the HRC
// orchestrator. Logs are grouped by Category (one per subsystem), the
// same shard/system grouping internal/logging uses elsewhere in the
// corpus, but the sink here is a zap.Logger instead of hand-rolled
// per-category files.
package logging

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Category identifies which subsystem emitted a log line.
type Category string

const (
	CategoryCycle        Category = "cycle"
	CategoryOrchestrator  Category = "orchestrator"
	CategoryStrategy      Category = "strategy"
	CategoryTemplate      Category = "template"
	CategoryFreeEnergy    Category = "free_energy"
	CategoryGapResolver   Category = "gap_resolver"
	CategoryMonitor       Category = "monitor"
	CategoryHTTP          Category = "http"
	CategoryCLI           Category = "cli"
)

var (
	mu     sync.RWMutex
	base   *zap.Logger
	loggers = map[Category]*Logger{}
)

// Logger wraps a category-scoped zap.SugaredLogger with the same terse
// Debug/Info/Warn/Error surface a category logger exposes elsewhere in
// the corpus.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

func (l *Logger) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Configure installs the logging backend. debug=true uses a development
// zap config (human-readable, debug level); debug=false uses production
// JSON logging. Safe to call once at boot; a nil call before Configure
// falls back to a no-op logger so packages never nil-panic in tests.
func Configure(debug bool) error {
	var z *zap.Logger
	var err error
	if debug {
		z, err = zap.NewDevelopment()
	} else {
		z, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	mu.Lock()
	base = z
	loggers = map[Category]*Logger{}
	mu.Unlock()
	return nil
}

func ensureBase() *zap.Logger {
	mu.RLock()
	b := base
	mu.RUnlock()
	if b != nil {
		return b
	}
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		base = zap.NewNop()
	}
	return base
}

// Get returns the Logger for category, creating it lazily and caching it.
func Get(category Category) *Logger {
	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if l, ok = loggers[category]; ok {
		return l
	}
	l = &Logger{
		category: category,
		sugar:    ensureBase().With(zap.String("category", string(category))).Sugar(),
	}
	loggers[category] = l
	return l
}

// Sync flushes the underlying zap core; call on shutdown.
func Sync() {
	mu.RLock()
	b := base
	mu.RUnlock()
	if b != nil {
		_ = b.Sync()
	}
}

// Timer measures and logs the duration of an operation on Stop(),
// mirroring the logging.StartTimer helper pattern used elsewhere in the
// corpus.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing op under category.
func StartTimer(category Category, op string) *Timer {
	return &Timer{category: category, op: op, start: time.Now()}
}

// Stop logs the elapsed duration at debug level.
func (t *Timer) Stop() {
	Get(t.category).Debug("%s took %s", t.op, time.Since(t.start))
}

// Convenience per-category helpers, following the same
// logging.Campaign(...)/logging.CampaignDebug(...) call-site shape used
// elsewhere in the corpus.

func Cycle(format string, args ...any)        { Get(CategoryCycle).Info(format, args...) }
func CycleDebug(format string, args ...any)   { Get(CategoryCycle).Debug(format, args...) }
func Orchestrator(format string, args ...any) { Get(CategoryOrchestrator).Info(format, args...) }
func OrchestratorDebug(format string, args ...any) {
	Get(CategoryOrchestrator).Debug(format, args...)
}
func Strategy(format string, args ...any)      { Get(CategoryStrategy).Info(format, args...) }
func StrategyDebug(format string, args ...any) { Get(CategoryStrategy).Debug(format, args...) }
func Template(format string, args ...any)      { Get(CategoryTemplate).Info(format, args...) }
func TemplateDebug(format string, args ...any) { Get(CategoryTemplate).Debug(format, args...) }
func FreeEnergy(format string, args ...any)    { Get(CategoryFreeEnergy).Info(format, args...) }
func GapResolver(format string, args ...any)   { Get(CategoryGapResolver).Info(format, args...) }
func GapResolverDebug(format string, args ...any) {
	Get(CategoryGapResolver).Debug(format, args...)
}
func Monitor(format string, args ...any) { Get(CategoryMonitor).Info(format, args...) }
