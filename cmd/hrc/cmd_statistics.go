package main

import "github.com/spf13/cobra"

var statisticsCmd = &cobra.Command{
	Use:   "statistics",
	Short: "Print aggregate orchestrator statistics",
	RunE:  runStatistics,
}

func runStatistics(cmd *cobra.Command, args []string) error {
	return printJSON(orch.Statistics())
}
