package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/novakid/placement/internal/llm"
	"github.com/novakid/placement/internal/store"
)

var callsLimit int

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List recent Advisory Analyzer calls from the audit log",
	Long:  "calls prints the most recent rows of the append-only advisor-call log (latency, token usage, success) recorded by every placement session's run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		records, err := st.AdvisorCallRepo().Query(cmd.Context(), store.QueryOpts{Limit: callsLimit})
		if err != nil {
			return fmt.Errorf("query advisor calls: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "no advisor calls recorded yet")
			return nil
		}
		for _, r := range records {
			status := "ok"
			if !r.Success {
				status = "FAILED: " + r.ErrorMessage
			}
			costStr := "cost=unknown"
			if cost := llm.LookupCost(r.Model); cost != nil {
				costStr = fmt.Sprintf("cost=$%.5f", cost.Cost(r.InputTokens, r.OutputTokens))
			}
			fmt.Fprintf(out, "#%d  %s  session=%s  provider=%s model=%s  %dms  in=%d out=%d  %s  %s\n",
				r.Sequence, r.Timestamp.Format("2006-01-02 15:04:05"), r.SessionID,
				r.Provider, r.Model, r.LatencyMs, r.InputTokens, r.OutputTokens, costStr, status)
		}
		return nil
	},
}

func init() {
	callsCmd.Flags().IntVar(&callsLimit, "limit", 50, "Maximum number of calls to show")
}
