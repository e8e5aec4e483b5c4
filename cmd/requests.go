package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyforge/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "List recent backend requests recorded locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failures, _ := cmd.Flags().GetBool("failures")

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.RequestEventRepo().Query(commandContext(cmd), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No requests recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-6s  %-19s  %-6s  %s  %-6s  %-7s  %-3s  %s\n",
			"Seq", "Timestamp", "Method", col("Path", 36), "Status", "Ms", "Try", "OK")
		fmt.Fprintln(out, rule(100))

		shown := 0
		for _, ev := range events {
			if failures && ev.Success {
				continue
			}
			shown++
			ok := "✓"
			if !ev.Success {
				ok = "✗ " + ev.ErrorMessage
			}
			status := "-"
			if ev.Status > 0 {
				status = fmt.Sprint(ev.Status)
			}
			fmt.Fprintf(out, "%-6d  %-19s  %-6s  %s  %-6s  %-7d  %-3d  %s\n",
				ev.Sequence,
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				ev.Method,
				col(ev.Path, 36),
				status,
				ev.LatencyMs,
				ev.Attempts,
				ok,
			)
		}
		if shown == 0 {
			fmt.Fprintln(out, "No failed requests.")
		}
		return nil
	},
}

var requestsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent request events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}

		e, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.store.RequestEventRepo().Prune(commandContext(cmd), keep); err != nil {
			return fmt.Errorf("prune events: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Kept the %d most recent requests.\n", keep)
		return nil
	},
}

func init() {
	requestsCmd.Flags().IntP("limit", "n", 50, "Maximum number of requests to show")
	requestsCmd.Flags().Bool("failures", false, "Only show failed requests")
	requestsPruneCmd.Flags().Int("keep", 500, "Number of requests to keep")
	requestsCmd.AddCommand(requestsPruneCmd)
}
