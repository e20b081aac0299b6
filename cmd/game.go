package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/nba"
	"github.com/pable/go-nba-metrics/internal/report"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var (
	gameLeague string
	gameShots  bool
	gameSeason string
)

var gameCmd = &cobra.Command{
	Use:   "game <game-id>",
	Short: "Fetch, process, and store a single game",
	Long: `Fetches one game by its 10-digit stats.nba.com ID, runs the team-foul
pipeline, stores the results, and prints the game tables. Re-running on a
stored game refreshes it.

Example:
  nbametrics game 0022300551
  nbametrics game 1022300015 --league WNBA --shots --season 2023`,
	Args: cobra.ExactArgs(1),
	RunE: runGame,
}

func init() {
	gameCmd.Flags().StringVar(&gameLeague, "league", "NBA", "league: NBA, WNBA, or G")
	gameCmd.Flags().BoolVar(&gameShots, "shots", false, "also ingest the shot chart")
	gameCmd.Flags().StringVar(&gameSeason, "season", "", "season for the shot chart, e.g. 2023-24 (required with --shots)")
}

func runGame(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	league, err := model.LeagueByName(gameLeague)
	if err != nil {
		return err
	}
	if gameShots && gameSeason == "" {
		return fmt.Errorf("--shots requires --season")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	client := nba.NewClient()
	if err := processGame(context.Background(), client, db, gameID, gameSeason, league, gameShots); err != nil {
		return err
	}

	return printGame(db, gameID)
}

// printGame renders the stored tables for one game.
func printGame(db *storage.DB, gameID string) error {
	g, err := db.GetGameByPrefix(gameID)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("game not found: %s", gameID)
	}

	rows, err := db.GetTeamGameRows(g.GameID)
	if err != nil {
		return err
	}

	report.PrintGameSummary(os.Stdout, *g)
	report.PrintTeamGameTable(os.Stdout, rows)
	fmt.Fprintln(os.Stdout)
	report.PrintRatingTable(os.Stdout, rows)

	shots, err := db.GetShots(g.GameID)
	if err != nil {
		return err
	}
	if len(shots) > 0 {
		fmt.Fprintln(os.Stdout)
		report.PrintShotSplitTable(os.Stdout, shots)
	}
	return nil
}
