package main

import "github.com/spf13/cobra"

var statusCmd = &cobra.Command{
	Use:   "status <cycle-id>",
	Short: "Show the current state of a submitted cycle",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <cycle-id>",
	Short: "Cancel a running cycle",
	Args:  cobra.ExactArgs(1),
	RunE:  runCancel,
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := orch.Status(args[0])
	if err != nil {
		return err
	}
	return printJSON(c)
}

func runCancel(cmd *cobra.Command, args []string) error {
	return orch.Cancel(args[0])
}
