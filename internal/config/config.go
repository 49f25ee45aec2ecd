// Package config holds all HRC orchestrator configuration, laid out the
// way internal/config structures config across the corpus
// (struct-of-structs, YAML-tagged, a DefaultConfig constructor) but
// loaded through viper for layered defaults -> file -> environment
// resolution instead of a bespoke loader.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every resource budget and threshold named in the spec.
type Config struct {
	Cycle          CycleConfig        `yaml:"cycle"`
	Strategy       StrategyConfig     `yaml:"strategy"`
	FreeEnergy     FreeEnergyConfig   `yaml:"free_energy"`
	Monitor        MonitorConfig      `yaml:"monitor"`
	GapResolver    GapResolverConfig  `yaml:"gap_resolver"`
	Logging        LoggingConfig      `yaml:"logging"`
	Orchestrator   OrchestratorConfig `yaml:"orchestrator"`
	NonInteractive bool               `yaml:"non_interactive"`
}

// OrchestratorConfig tunes the HRC Orchestrator's cycle-archival and
// autopoiesis behavior (§4.F).
type OrchestratorConfig struct {
	// HistoryDepth bounds the completed-cycle archive consulted by
	// autopoiesis analysis (spec §3: cycles are "destroyed on completion
	// and archival" — archival here means retained in this bounded ring
	// buffer, not a literal external store).
	HistoryDepth int `yaml:"history_depth"`
}

// CycleConfig bounds a single Cognitive Cycle (§5 resource budgets).
type CycleConfig struct {
	MaxIterations       int           `yaml:"max_iterations"`
	Timeout             time.Duration `yaml:"timeout"`
	ThetaSuccess        float64       `yaml:"theta_success"`
	ThetaDisc           float64       `yaml:"theta_disc"`
	SubGoalQueueDepth   int           `yaml:"subgoal_queue_depth"`
	MaxConcurrentCycles int64         `yaml:"max_concurrent_cycles"`
}

// StrategyConfig tunes the Strategy Registry's learning behavior.
type StrategyConfig struct {
	LearningRate float64 `yaml:"learning_rate"`
}

// FreeEnergyConfig holds the Gibbs-style scoring weights (§4.H).
type FreeEnergyConfig struct {
	Alpha                  float64 `yaml:"alpha"`
	Beta                   float64 `yaml:"beta"`
	Gamma                  float64 `yaml:"gamma"`
	Delta                  float64 `yaml:"delta"`
	EvaluationHistoryDepth int     `yaml:"evaluation_history_depth"`
}

// MonitorConfig tunes the System State Monitor's adaptation trigger.
type MonitorConfig struct {
	FreeEnergyUpperBound   float64 `yaml:"free_energy_upper_bound"`
	AdaptationHistoryDepth int     `yaml:"adaptation_history_depth"`
}

// GapResolverConfig tunes sweep concurrency.
type GapResolverConfig struct {
	MaxConcurrentIngests int `yaml:"max_concurrent_ingests"`
}

// LoggingConfig toggles logging verbosity.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the spec's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Cycle: CycleConfig{
			MaxIterations:       10,
			Timeout:             30 * time.Second,
			ThetaSuccess:        0.8,
			ThetaDisc:           0.3,
			SubGoalQueueDepth:   16,
			MaxConcurrentCycles: 8,
		},
		Strategy: StrategyConfig{
			LearningRate: 0.1,
		},
		FreeEnergy: FreeEnergyConfig{
			Alpha:                  0.4,
			Beta:                   0.3,
			Gamma:                  0.2,
			Delta:                  0.1,
			EvaluationHistoryDepth: 10000,
		},
		Monitor: MonitorConfig{
			FreeEnergyUpperBound:   10,
			AdaptationHistoryDepth: 1000,
		},
		GapResolver: GapResolverConfig{
			MaxConcurrentIngests: 4,
		},
		Logging:      LoggingConfig{Debug: false},
		Orchestrator: OrchestratorConfig{HistoryDepth: 1000},
	}
}

// Load resolves configuration from defaults, an optional YAML file at
// path (ignored if empty or missing), and HRC_-prefixed environment
// variables (e.g. HRC_CYCLE_MAX_ITERATIONS=5), in that precedence order.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("HRC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		} else if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(v, cfg)
	return cfg, nil
}

// applyEnvOverrides pulls individual HRC_* env vars over the loaded
// config. viper.AutomaticEnv only binds keys it already knows about from
// a config file or explicit BindEnv, so we bind the ones the spec calls
// out as externally tunable.
func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	bind := func(key string, dst *int) {
		_ = v.BindEnv(key)
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	bindDur := func(key string, dst *time.Duration) {
		_ = v.BindEnv(key)
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}
	bindFloat := func(key string, dst *float64) {
		_ = v.BindEnv(key)
		if v.IsSet(key) {
			*dst = v.GetFloat64(key)
		}
	}
	bindBool := func(key string, dst *bool) {
		_ = v.BindEnv(key)
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	bind("cycle_max_iterations", &cfg.Cycle.MaxIterations)
	bindDur("cycle_timeout", &cfg.Cycle.Timeout)
	bindFloat("cycle_theta_success", &cfg.Cycle.ThetaSuccess)
	bindFloat("cycle_theta_disc", &cfg.Cycle.ThetaDisc)
	bind("cycle_subgoal_queue_depth", &cfg.Cycle.SubGoalQueueDepth)
	bindFloat("strategy_learning_rate", &cfg.Strategy.LearningRate)
	bindFloat("monitor_free_energy_upper_bound", &cfg.Monitor.FreeEnergyUpperBound)
	bindBool("logging_debug", &cfg.Logging.Debug)
	bindBool("non_interactive", &cfg.NonInteractive)
}
