// Package rating estimates possessions and offensive/defensive ratings,
// split by whether each team's opponent had entered the bonus.
package rating

import (
	"github.com/pable/go-nba-metrics/internal/classify"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/penalty"
)

// possessionFactor and ftaWeight are the standard coefficients of the
// box-score possession estimate.
const (
	possessionFactor = 0.976
	ftaWeight        = 0.44
)

// segment accumulates the possession components for one team, period, and
// bonus state.
type segment struct {
	fga    int
	fta    int
	oreb   int
	tov    int
	points int
}

// possessions applies the estimate 0.976 * (FGA + 0.44*FTA - OREB + TOV).
// The result is kept unrounded.
func (s *segment) possessions() float64 {
	return possessionFactor *
		(float64(s.fga) + ftaWeight*float64(s.fta) - float64(s.oreb) + float64(s.tov))
}

type segKey struct {
	teamID int64
	period int
	bonus  bool
}

// inBonus reports whether the given team was in the bonus at the given
// event: its opponent must have entered the penalty earlier in the period.
func inBonus(rec *penalty.GameRecord, teamID int64, period, eventNum int) bool {
	entry, ok := rec.Opponent(teamID).BonusEvent[period]
	return ok && eventNum >= entry
}

// Estimate replays a game's events against its penalty record and returns
// per-period offensive splits plus game-level ratings for both teams.
// Defensive figures are the opponent's offensive figures.
func Estimate(events []model.Event, rec *penalty.GameRecord) ([]model.PeriodRating, map[int64]model.TeamRating) {
	segs := make(map[segKey]*segment)
	seg := func(teamID int64, period int, bonus bool) *segment {
		k := segKey{teamID, period, bonus}
		s, ok := segs[k]
		if !ok {
			s = &segment{}
			segs[k] = s
		}
		return s
	}

	inds := classify.Annotate(events)
	for i, ev := range events {
		if ev.TeamID != rec.HomeID && ev.TeamID != rec.AwayID {
			continue
		}
		s := seg(ev.TeamID, ev.Period, inBonus(rec, ev.TeamID, ev.Period, ev.EventNum))
		ind := inds[i]
		if ind.FGA {
			s.fga++
		}
		if ind.FTA {
			s.fta++
		}
		if ind.TOV {
			s.tov++
		}
		if ind.OREB {
			s.oreb++
		}
		s.points += classify.Points(ev, rec.HomeID)
	}

	var periods []model.PeriodRating
	ratings := map[int64]model.TeamRating{
		rec.HomeID: {TeamID: rec.HomeID},
		rec.AwayID: {TeamID: rec.AwayID},
	}
	for _, teamID := range []int64{rec.HomeID, rec.AwayID} {
		r := ratings[teamID]
		for p := 1; p <= rec.Periods; p++ {
			b := seg(teamID, p, true)
			n := seg(teamID, p, false)
			periods = append(periods, model.PeriodRating{
				TeamID:       teamID,
				Period:       p,
				PossBonus:    b.possessions(),
				PointsBonus:  b.points,
				TOVBonus:     b.tov,
				PossNormal:   n.possessions(),
				PointsNormal: n.points,
				TOVNormal:    n.tov,
			})
			r.OffPossBonus += b.possessions()
			r.OffPointsBonus += b.points
			r.TOVBonus += b.tov
			r.OffPossNormal += n.possessions()
			r.OffPointsNormal += n.points
			r.TOVNormal += n.tov
		}
		ratings[teamID] = r
	}

	// Defense is the mirror of the opponent's offense.
	h, a := ratings[rec.HomeID], ratings[rec.AwayID]
	h.DefPossBonus, h.DefPointsBonus = a.OffPossBonus, a.OffPointsBonus
	h.DefPossNormal, h.DefPointsNormal = a.OffPossNormal, a.OffPointsNormal
	a.DefPossBonus, a.DefPointsBonus = h.OffPossBonus, h.OffPointsBonus
	a.DefPossNormal, a.DefPointsNormal = h.OffPossNormal, h.OffPointsNormal
	ratings[rec.HomeID], ratings[rec.AwayID] = h, a

	return periods, ratings
}

// SplitShots tags each shot with whether the shooter's opponent had entered
// the penalty when it went up, i.e. whether the shooter's team was shooting
// with the bonus live that period. Uses the same partitioning rule as the
// rating segments.
func SplitShots(shots []model.ShotRecord, rec *penalty.GameRecord) []model.ShotRecord {
	out := make([]model.ShotRecord, len(shots))
	for i, s := range shots {
		entry, ok := rec.Opponent(s.TeamID).BonusEvent[s.Period]
		s.OppInBonus = ok && s.EventNum >= entry
		out[i] = s
	}
	return out
}
