package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var periodsGaps bool

var periodsCmd = &cobra.Command{
	Use:   "periods <game-id-prefix>",
	Short: "Show per-period penalty detail for a game",
	Long: `Display the period-by-period team-foul counts, bonus entry points, and
free throws surrendered for a stored game. With --gaps, also print the
time between consecutive team fouls.`,
	Args: cobra.ExactArgs(1),
	RunE: runPeriods,
}

func init() {
	periodsCmd.Flags().BoolVar(&periodsGaps, "gaps", false, "also show foul-to-foul gaps")
}

func runPeriods(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	g, err := db.GetGameByPrefix(args[0])
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("game not found: %s", args[0])
	}

	periods, err := db.GetPenaltyPeriods(g.GameID)
	if err != nil {
		return err
	}

	report.PrintGameSummary(os.Stdout, *g)
	report.PrintPeriodTable(os.Stdout, periods)

	if periodsGaps {
		gaps, err := db.GetFoulGaps(g.GameID)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
		report.PrintFoulGapTable(os.Stdout, gaps)
	}
	return nil
}
