// Package main implements the hrc CLI — a command-line front end for the
// Hierarchical Reflective Cognition orchestrator.
//
// This file is the entry point and command registration hub. Command
// implementations are split across cmd_*.go files.
//
// # File Index
//
// Entry Point & Global State:
//   - main.go          - Entry point, rootCmd, global flags, init(), buildOrchestrator()
//
// Cycle Commands:
//   - cmd_submit.go    - submitCmd, runSubmit()
//   - cmd_status.go    - statusCmd, cancelCmd, runStatus(), runCancel()
//   - cmd_statistics.go - statisticsCmd, runStatistics()
//
// Serving:
//   - cmd_serve.go     - serveCmd, runServe()
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hrc/internal/collab"
	"hrc/internal/collab/inmemory"
	"hrc/internal/config"
	"hrc/internal/logging"
	"hrc/internal/orchestrator"
)

var (
	cfgPath string
	debug   bool

	orch *orchestrator.Orchestrator
)

var rootCmd = &cobra.Command{
	Use:   "hrc",
	Short: "hrc runs the Hierarchical Reflective Cognition orchestrator",
	Long: `hrc is the command-line front end for the HRC orchestrator: submit
queries to a Cognitive Cycle, inspect cycle status, cancel running
cycles, and read aggregate strategy statistics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if debug {
			cfg.Logging.Debug = true
		}
		if err := logging.Configure(cfg.Logging.Debug); err != nil {
			return fmt.Errorf("configure logging: %w", err)
		}
		orch = buildOrchestrator(*cfg)
		return nil
	},
}

// buildOrchestrator wires a fresh Orchestrator over the in-memory
// reference collaborators. Hosts embedding HRC as a library should call
// orchestrator.New directly with their own collab.Collaborators instead
// of going through this CLI wiring.
func buildOrchestrator(cfg config.Config) *orchestrator.Orchestrator {
	mem := inmemory.NewMemory()
	coll := collab.Collaborators{
		Memory:    mem,
		Graph:     mem,
		LLM:       inmemory.EchoTransducer{},
		Generator: inmemory.NullGenerator{},
		Objects:   inmemory.NewRegistry(),
	}
	return orchestrator.New(cfg, coll)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(statisticsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
