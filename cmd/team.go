package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var teamCmd = &cobra.Command{
	Use:   "team <team-id> [<team-id>...]",
	Short: "Show team totals across all stored games",
	Long: `Display each team's cross-game aggregate (fouls, free throws, average
time-in-bonus, rating splits) followed by its per-game rows.

Example:
  nbametrics team 1610612738
  nbametrics team 1610612738 1610612744`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTeam,
}

func runTeam(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	for _, arg := range args {
		teamID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("parse team id %q: %w", arg, err)
		}

		agg, err := db.GetTeamAggregate(teamID)
		if err != nil {
			return fmt.Errorf("get team aggregate: %w", err)
		}
		if agg == nil {
			fmt.Fprintf(os.Stdout, "No games stored for team %d.\n", teamID)
			continue
		}

		report.PrintTeamAggregateTable(os.Stdout, *agg)

		rows, err := db.GetTeamRows(teamID)
		if err != nil {
			return fmt.Errorf("get team rows: %w", err)
		}
		fmt.Fprintln(os.Stdout)
		report.PrintTeamGameTable(os.Stdout, rows)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
