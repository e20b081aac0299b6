package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/nba"
	"github.com/pable/go-nba-metrics/internal/storage"
)

// fetch command flags.
var (
	// fetchStart and fetchEnd bound the date range (inclusive), YYYY-MM-DD.
	fetchStart string
	fetchEnd   string
	// fetchLeague selects the competition: NBA, WNBA, or G.
	fetchLeague string
	// fetchShots enables shot-chart ingestion (one extra request per game).
	fetchShots bool
	// fetchSeason is the season string the shot-chart endpoint requires,
	// e.g. "2023-24" (NBA/G League) or "2023" (WNBA).
	fetchSeason string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and ingest games for a date range",
	Long: `Fetches every game played in the given date range from stats.nba.com,
runs the team-foul pipeline on each, and stores the results.

Games without a recorded final score are skipped. Already-stored games are
skipped unless re-requested with 'game'.

Examples:
  nbametrics fetch --start 2024-01-15 --end 2024-01-20
  nbametrics fetch --start 2024-01-15 --end 2024-01-15 --shots --season 2023-24
  nbametrics fetch --start 2023-06-01 --end 2023-06-30 --league WNBA`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "start date YYYY-MM-DD (required)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "end date YYYY-MM-DD (required)")
	fetchCmd.Flags().StringVar(&fetchLeague, "league", "NBA", "league: NBA, WNBA, or G")
	fetchCmd.Flags().BoolVar(&fetchShots, "shots", false, "also ingest shot charts")
	fetchCmd.Flags().StringVar(&fetchSeason, "season", "", "season for shot charts, e.g. 2023-24 (required with --shots)")
	_ = fetchCmd.MarkFlagRequired("start")
	_ = fetchCmd.MarkFlagRequired("end")
}

func runFetch(cmd *cobra.Command, args []string) error {
	league, err := model.LeagueByName(fetchLeague)
	if err != nil {
		return err
	}
	if fetchShots && fetchSeason == "" {
		return fmt.Errorf("--shots requires --season")
	}

	start, err := time.Parse("2006-01-02", fetchStart)
	if err != nil {
		return fmt.Errorf("parse --start: %w", err)
	}
	end, err := time.Parse("2006-01-02", fetchEnd)
	if err != nil {
		return fmt.Errorf("parse --end: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("--end is before --start")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	client := nba.NewClient()

	var stored, skipped int
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("01/02/2006")
		ids, err := client.GameIDs(ctx, date, league)
		if err != nil {
			return fmt.Errorf("scoreboard for %s: %w", date, err)
		}
		fmt.Fprintf(os.Stdout, "%s: %d game(s)\n", day.Format("2006-01-02"), len(ids))

		for _, gameID := range ids {
			exists, err := db.GameExists(gameID)
			if err != nil {
				return fmt.Errorf("check game: %w", err)
			}
			if exists {
				fmt.Fprintf(os.Stdout, "  %s already stored, skipping\n", gameID)
				continue
			}

			err = processGame(ctx, client, db, gameID, fetchSeason, league, fetchShots)
			if errors.Is(err, errSkipGame) {
				fmt.Fprintf(os.Stdout, "  skipping: %v\n", err)
				skipped++
				continue
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "  %s stored\n", gameID)
			stored++
		}
	}

	fmt.Fprintf(os.Stdout, "\nDone: %d stored, %d skipped.\n", stored, skipped)
	return nil
}
