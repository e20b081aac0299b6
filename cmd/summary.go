package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about all games stored in the database:
total game count, date range, number of teams seen, bonus entries, and
shot-chart coverage.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ov, err := db.GetDBOverview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.TotalGames == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'nbametrics fetch' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Games stored  : %d\n", ov.TotalGames)
	fmt.Fprintf(os.Stdout, "  Date range    : %s → %s\n", ov.EarliestGame, ov.LatestGame)
	fmt.Fprintf(os.Stdout, "  Teams seen    : %d\n", ov.UniqueTeams)
	fmt.Fprintf(os.Stdout, "  Bonus entries : %d\n", ov.BonusEntries)
	fmt.Fprintf(os.Stdout, "  Shots stored  : %d\n", ov.TotalShots)
	fmt.Fprintln(os.Stdout)
	return nil
}
