// Package aggregate merges penalty records and ratings into the one-row-
// per-team-per-game shape that gets stored and reported.
package aggregate

import (
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/penalty"
)

// threeQuarterPeriods bounds the "first three quarters" cut, which excludes
// the fourth quarter's late-game intentional fouling.
const threeQuarterPeriods = 3

// teamTotals sums one penalty record over a period range [1, through].
func teamTotals(r *model.PenaltyRecord, through int) (fouls, fts, tib int) {
	for p := 1; p <= through; p++ {
		fouls += r.Fouls[p]
		fts += r.FreeThrows[p]
		tib += r.BonusClock[p]
	}
	return fouls, fts, tib
}

// Rows builds both teams' per-game aggregate rows. Time-in-bonus figures
// are read from the period clock at bonus entry: the opponent stays in the
// bonus for the remainder of the period.
func Rows(gameID string, rec *penalty.GameRecord, ratings map[int64]model.TeamRating, winnerID int64, league model.League) []model.TeamGameRow {
	gameLen := league.GameSeconds(rec.Periods)
	threeQLen := threeQuarterPeriods * league.QuarterSeconds

	rows := make([]model.TeamGameRow, 0, 2)
	for _, teamID := range []int64{rec.HomeID, rec.AwayID} {
		own := rec.Record(teamID)
		opp := rec.Opponent(teamID)

		fouls, ftAllowed, oppTIB := teamTotals(own, rec.Periods)
		foulsAgainst, ftGained, ownTIB := teamTotals(opp, rec.Periods)
		fouls3Q, ft3QAllowed, opp3QTIB := teamTotals(own, threeQuarterPeriods)
		fouls3QAgainst, ft3QGained, own3QTIB := teamTotals(opp, threeQuarterPeriods)

		rows = append(rows, model.TeamGameRow{
			GameID:     gameID,
			TeamID:     teamID,
			GameLength: gameLen,

			FoulsCommitted:   fouls,
			Fouls3QCommitted: fouls3Q,
			FoulsAgainst:     foulsAgainst,
			Fouls3QAgainst:   fouls3QAgainst,

			OppTIB:   oppTIB,
			Opp3QTIB: opp3QTIB,
			OwnTIB:   ownTIB,
			Own3QTIB: own3QTIB,

			FTAllowed:   ftAllowed,
			FT3QAllowed: ft3QAllowed,
			FTGained:    ftGained,
			FT3QGained:  ft3QGained,

			Win: teamID == winnerID,

			OppPctTIB:   float64(oppTIB) / float64(gameLen),
			OwnPctTIB:   float64(ownTIB) / float64(gameLen),
			OppPct3QTIB: float64(opp3QTIB) / float64(threeQLen),
			OwnPct3QTIB: float64(own3QTIB) / float64(threeQLen),

			Rating: ratings[teamID],
		})
	}
	return rows
}
