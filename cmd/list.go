package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'nbametrics fetch' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-10s  %-6s  %-12s  %-12s  %-12s  %s\n",
		"GAME", "DATE", "LEAGUE", "HOME", "AWAY", "WINNER", "PERIODS")
	fmt.Fprintf(os.Stdout, "%-12s  %-10s  %-6s  %-12s  %-12s  %-12s  %s\n",
		"────────────", "──────────", "──────", "────────────", "────────────", "────────────", "───────")
	for _, g := range games {
		fmt.Fprintf(os.Stdout, "%-12s  %-10s  %-6s  %-12d  %-12d  %-12d  %d\n",
			g.GameID, g.GameDate, g.League, g.HomeID, g.AwayID, g.WinnerID, g.Periods)
	}
	return nil
}
