package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/abpconv/internal/config"
	"github.com/nao1215/abpconv/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversion runs",
		Long: `History lists past conversion runs recorded in the local database,
newest first. Each run shows the source, the rule counts, and how long
the conversion took.

Examples:
  # Show the 20 most recent runs
  abpconv history

  # Show all runs for one source
  abpconv history --source easylist --limit 0

  # Machine-readable output
  abpconv history --json`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().StringP("source", "s", "",
		"Only list runs for the named source")
	cmd.Flags().BoolP("json", "j", false,
		"Output the run list as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	source, err := cmd.Flags().GetString("source")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), source, limit)
	if err != nil {
		return err
	}

	if asJSON {
		if runs == nil {
			runs = []database.RunRecord{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No conversion runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tSOURCE\tCONVERTED\tSKIPPED\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format(time.DateTime),
			run.Source,
			run.Converted,
			run.Skipped,
			run.Duration.Round(time.Millisecond),
		)
	}
	return tw.Flush()
}
