package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hrc/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HRC orchestrator's submit/status/cancel/statistics surface over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("hrc serving on %s\n", serveAddr)
	return httpapi.ListenAndServe(serveAddr, orch)
}
