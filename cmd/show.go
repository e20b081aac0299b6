package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <game-id-prefix>",
	Short: "Show stored metrics for a game",
	Long:  "Display the per-team foul, time-in-bonus, and rating tables for a stored game. A unique game ID prefix is enough.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return printGame(db, args[0])
}
