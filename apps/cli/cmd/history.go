package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/storyspec/packages/history"
)

var historyLimitFlag int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded story runs",
	Long: `Show story runs recorded in the history database.

Examples:
  storyspec history --history runs.db
  storyspec history --history runs.db --limit 50`,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlag, "history", getEnvString("STORYSPEC_HISTORY", ""), "SQLite database with run history (env: STORYSPEC_HISTORY)")
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of runs to show")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	if historyFlag == "" {
		return fmt.Errorf("--history is required")
	}
	store, err := history.Open(historyFlag)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	runs, err := store.ListRuns(ctx, historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		line := fmt.Sprintf("%s  %-6s  %-8s  %s",
			run.StartedAt.Format(time.RFC3339), run.Status, run.Duration.Round(time.Millisecond), run.StoryPath)
		if run.Failure != "" {
			line += "  " + run.Failure
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
