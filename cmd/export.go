package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/storage"
)

var (
	exportOut   string
	exportShots bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored metrics as CSV files",
	Long: `Write every stored team-game row to a CSV file for downstream analysis.
With --shots, also write the shot chart split into two files: shots taken
with the opponent in the bonus (bonus_shots.csv) and the rest
(other_shots.csv).

Example:
  nbametrics export --out team_fouls.csv --shots`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "team_fouls.csv", "output CSV path")
	exportCmd.Flags().BoolVar(&exportShots, "shots", false, "also export bonus_shots.csv and other_shots.csv")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.GetAllTeamGameRows()
	if err != nil {
		return fmt.Errorf("load team rows: %w", err)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet, nothing to export.")
		return nil
	}

	if err := writeTeamRowsCSV(exportOut, rows); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d rows to %s\n", len(rows), exportOut)

	if !exportShots {
		return nil
	}

	shots, err := db.GetAllShots()
	if err != nil {
		return fmt.Errorf("load shots: %w", err)
	}
	var bonus, other []model.ShotRecord
	for _, s := range shots {
		if s.OppInBonus {
			bonus = append(bonus, s)
		} else {
			other = append(other, s)
		}
	}
	if err := writeShotsCSV("bonus_shots.csv", bonus); err != nil {
		return err
	}
	if err := writeShotsCSV("other_shots.csv", other); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d bonus and %d other shots.\n", len(bonus), len(other))
	return nil
}

func writeTeamRowsCSV(path string, rows []model.TeamGameRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"game_id", "team_id", "game_length",
		"fouls_committed", "fouls_3q_committed", "fouls_against", "fouls_3q_against",
		"opp_tib", "opp_3q_tib", "own_tib", "own_3q_tib",
		"ft_allowed", "ft_3q_allowed", "ft_gained", "ft_3q_gained",
		"win",
		"opp_pct_tib", "own_pct_tib", "opp_pct_3q_tib", "own_pct_3q_tib",
		"off_rating_bonus", "off_rating_normal", "def_rating_bonus", "def_rating_normal",
		"off_poss_bonus", "off_poss_normal", "tov_bonus", "tov_normal",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.GameID,
			strconv.FormatInt(r.TeamID, 10),
			strconv.Itoa(r.GameLength),
			strconv.Itoa(r.FoulsCommitted),
			strconv.Itoa(r.Fouls3QCommitted),
			strconv.Itoa(r.FoulsAgainst),
			strconv.Itoa(r.Fouls3QAgainst),
			strconv.Itoa(r.OppTIB),
			strconv.Itoa(r.Opp3QTIB),
			strconv.Itoa(r.OwnTIB),
			strconv.Itoa(r.Own3QTIB),
			strconv.Itoa(r.FTAllowed),
			strconv.Itoa(r.FT3QAllowed),
			strconv.Itoa(r.FTGained),
			strconv.Itoa(r.FT3QGained),
			strconv.Itoa(boolCSV(r.Win)),
			formatFloat(r.OppPctTIB),
			formatFloat(r.OwnPctTIB),
			formatFloat(r.OppPct3QTIB),
			formatFloat(r.OwnPct3QTIB),
			formatFloat(r.Rating.OffRatingBonus()),
			formatFloat(r.Rating.OffRatingNormal()),
			formatFloat(r.Rating.DefRatingBonus()),
			formatFloat(r.Rating.DefRatingNormal()),
			formatFloat(r.Rating.OffPossBonus),
			formatFloat(r.Rating.OffPossNormal),
			strconv.Itoa(r.Rating.TOVBonus),
			strconv.Itoa(r.Rating.TOVNormal),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeShotsCSV(path string, shots []model.ShotRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"game_id", "event_num", "team_id", "period", "made", "shot_type", "distance",
	}); err != nil {
		return err
	}
	for _, s := range shots {
		if err := w.Write([]string{
			s.GameID,
			strconv.Itoa(s.EventNum),
			strconv.FormatInt(s.TeamID, 10),
			strconv.Itoa(s.Period),
			strconv.Itoa(boolCSV(s.Made)),
			s.ShotType,
			strconv.Itoa(s.Distance),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func boolCSV(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
