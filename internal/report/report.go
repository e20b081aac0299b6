// Package report renders stored penalty metrics as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-nba-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// clock formats seconds remaining as M:SS.
func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func pct(f float64) string {
	return fmt.Sprintf("%.1f%%", 100*f)
}

// PrintGameSummary prints a one-line header for a stored game.
func PrintGameSummary(w io.Writer, g model.GameSummary) {
	fmt.Fprintf(w, "\nGame: %s  |  Date: %s  |  League: %s  |  Home: %d  Away: %d  |  Winner: %d  |  Periods: %d\n\n",
		g.GameID, g.GameDate, g.League, g.HomeID, g.AwayID, g.WinnerID, g.Periods)
}

// PrintTeamGameTable prints the per-team foul and time-in-bonus table for
// one or more games.
func PrintTeamGameTable(w io.Writer, rows []model.TeamGameRow) {
	table := newTable(w)
	table.Header(
		"GAME", "TEAM", "W", "FOULS", "FOULS_3Q", "OPP_TIB", "OPP_TIB%",
		"OWN_TIB", "OWN_TIB%", "FT_ALLOW", "FT_GAIN",
	)

	for _, r := range rows {
		win := " "
		if r.Win {
			win = "W"
		}
		table.Append(
			r.GameID,
			strconv.FormatInt(r.TeamID, 10),
			win,
			strconv.Itoa(r.FoulsCommitted),
			strconv.Itoa(r.Fouls3QCommitted),
			clock(r.OppTIB),
			pct(r.OppPctTIB),
			clock(r.OwnTIB),
			pct(r.OwnPctTIB),
			strconv.Itoa(r.FTAllowed),
			strconv.Itoa(r.FTGained),
		)
	}
	table.Render()
}

// PrintRatingTable prints offensive and defensive ratings split by bonus
// state for each row.
func PrintRatingTable(w io.Writer, rows []model.TeamGameRow) {
	table := newTable(w)
	table.Header(
		"TEAM", "ORTG_BONUS", "ORTG_NORM", "DRTG_BONUS", "DRTG_NORM",
		"POSS_BONUS", "POSS_NORM", "TOV_BONUS", "TOV_NORM",
	)

	for _, r := range rows {
		table.Append(
			strconv.FormatInt(r.TeamID, 10),
			fmt.Sprintf("%.1f", r.Rating.OffRatingBonus()),
			fmt.Sprintf("%.1f", r.Rating.OffRatingNormal()),
			fmt.Sprintf("%.1f", r.Rating.DefRatingBonus()),
			fmt.Sprintf("%.1f", r.Rating.DefRatingNormal()),
			fmt.Sprintf("%.1f", r.Rating.OffPossBonus),
			fmt.Sprintf("%.1f", r.Rating.OffPossNormal),
			strconv.Itoa(r.Rating.TOVBonus),
			strconv.Itoa(r.Rating.TOVNormal),
		)
	}
	table.Render()
}

// PrintPeriodTable prints the per-period penalty rows for a game.
func PrintPeriodTable(w io.Writer, periods []model.PenaltyPeriod) {
	table := newTable(w)
	table.Header("TEAM", "PERIOD", "FOULS", "FT_ALLOW", "BONUS_AT", "BONUS_EVT")

	for _, p := range periods {
		bonusAt := "—"
		bonusEvt := "—"
		if p.BonusEvent != nil {
			bonusAt = clock(p.BonusClock)
			bonusEvt = strconv.Itoa(*p.BonusEvent)
		}
		table.Append(
			strconv.FormatInt(p.TeamID, 10),
			strconv.Itoa(p.Period),
			strconv.Itoa(p.Fouls),
			strconv.Itoa(p.FreeThrows),
			bonusAt,
			bonusEvt,
		)
	}
	table.Render()
}

// PrintFoulGapTable prints foul-gap rows grouped by team and period.
func PrintFoulGapTable(w io.Writer, gaps []model.FoulGap) {
	table := newTable(w)
	table.Header("TEAM", "PERIOD", "FOUL#", "GAP")

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].TeamID != gaps[j].TeamID {
			return gaps[i].TeamID < gaps[j].TeamID
		}
		if gaps[i].Period != gaps[j].Period {
			return gaps[i].Period < gaps[j].Period
		}
		return gaps[i].Number < gaps[j].Number
	})
	for _, g := range gaps {
		table.Append(
			strconv.FormatInt(g.TeamID, 10),
			strconv.Itoa(g.Period),
			strconv.Itoa(g.Number),
			clock(g.Seconds),
		)
	}
	table.Render()
}

// PrintShotSplitTable prints made/attempt counts by shot type, split by
// bonus state.
func PrintShotSplitTable(w io.Writer, shots []model.ShotRecord) {
	type bucket struct {
		made, total int
	}
	split := map[bool]map[string]*bucket{true: {}, false: {}}
	for _, s := range shots {
		b, ok := split[s.OppInBonus][s.ShotType]
		if !ok {
			b = &bucket{}
			split[s.OppInBonus][s.ShotType] = b
		}
		b.total++
		if s.Made {
			b.made++
		}
	}

	table := newTable(w)
	table.Header("STATE", "SHOT_TYPE", "MADE", "ATT", "FG%")
	for _, bonus := range []bool{true, false} {
		state := "NORMAL"
		if bonus {
			state = "BONUS"
		}
		types := make([]string, 0, len(split[bonus]))
		for st := range split[bonus] {
			types = append(types, st)
		}
		sort.Strings(types)
		for _, st := range types {
			b := split[bonus][st]
			fg := 0.0
			if b.total > 0 {
				fg = float64(b.made) / float64(b.total)
			}
			table.Append(state, st, strconv.Itoa(b.made), strconv.Itoa(b.total), pct(fg))
		}
	}
	table.Render()
}

// PrintTeamAggregateTable prints one team's cross-game totals.
func PrintTeamAggregateTable(w io.Writer, a model.TeamAggregate) {
	table := newTable(w)
	table.Header(
		"TEAM", "GP", "W", "WIN%", "FOULS", "FOULS_AG",
		"FT_ALLOW", "FT_GAIN", "OPP_TIB%", "OWN_TIB%", "ORTG_BONUS", "ORTG_NORM",
	)
	table.Append(
		strconv.FormatInt(a.TeamID, 10),
		strconv.Itoa(a.Games),
		strconv.Itoa(a.Wins),
		fmt.Sprintf("%.1f%%", a.WinPct()),
		strconv.Itoa(a.FoulsCommitted),
		strconv.Itoa(a.FoulsAgainst),
		strconv.Itoa(a.FTAllowed),
		strconv.Itoa(a.FTGained),
		pct(a.AvgOppPctTIB),
		pct(a.AvgOwnPctTIB),
		fmt.Sprintf("%.1f", a.OffRatingBonus()),
		fmt.Sprintf("%.1f", a.OffRatingNormal()),
	)
	table.Render()
}
