package cmd

import (
	"github.com/novakid/placement/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "placement",
	Short: "Adaptive English placement test engine",
	Long:  "placement administers an adaptive CEFR-aligned English proficiency test for children and reports a Novakid level placement.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PLACEMENT_DB env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(callsCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PLACEMENT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
