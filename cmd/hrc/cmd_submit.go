package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hrc/internal/types"
)

var submitKind string

var submitCmd = &cobra.Command{
	Use:   "submit [args...]",
	Short: "Submit a query to the Cognitive Cycle Engine and wait for its outcome",
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitKind, "kind", string(types.ClassGeneric), "query classification")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	q := types.Query{
		Kind:          types.Classification(submitKind),
		OriginMessage: joinArgs(args),
		Args:          args,
	}
	pending, err := orch.Submit(cmd.Context(), q, nil)
	if err != nil {
		return err
	}
	cycle, err := pending.Wait(context.Background())
	if err != nil {
		return err
	}
	return printJSON(cycle)
}

func joinArgs(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
