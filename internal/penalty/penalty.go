// Package penalty tracks team fouls through a game and derives when each
// team put its opponent into the bonus, per period.
package penalty

import (
	"github.com/pable/go-nba-metrics/internal/classify"
	"github.com/pable/go-nba-metrics/internal/model"
)

const (
	// twoMinutes is the clock threshold under which any team foul puts the
	// fouling team in the penalty regardless of its foul count.
	twoMinutes = 120

	bonusFoulsRegulation = 4
	bonusFoulsOvertime   = 3
)

// bonusFouls returns the team-foul count at which the opponent enters the
// bonus for the given period.
func bonusFouls(period int) int {
	if period <= model.RegulationPeriods {
		return bonusFoulsRegulation
	}
	return bonusFoulsOvertime
}

// GameRecord holds both teams' penalty records for one game. Each record
// belongs to the fouling team: Home.BonusEvent marks when the home team's
// fouls put the away team into the bonus.
type GameRecord struct {
	Home    model.PenaltyRecord
	Away    model.PenaltyRecord
	HomeID  int64
	AwayID  int64
	Periods int
}

// Record returns the penalty record owned by the given team.
func (g *GameRecord) Record(teamID int64) *model.PenaltyRecord {
	if teamID == g.HomeID {
		return &g.Home
	}
	return &g.Away
}

// Opponent returns the penalty record of the given team's opponent.
func (g *GameRecord) Opponent(teamID int64) *model.PenaltyRecord {
	if teamID == g.HomeID {
		return &g.Away
	}
	return &g.Home
}

// teamState is the within-period tracker for one team.
type teamState struct {
	fouls         int
	inPenalty     bool
	lastFoulClock int
}

// Track replays a game's events and returns the per-period penalty record
// for both teams. Events must be ordered by event number. Returns nil when
// the game has no events.
func Track(events []model.Event, homeID, awayID int64, league model.League) *GameRecord {
	if len(events) == 0 {
		return nil
	}

	rec := &GameRecord{
		Home:   model.NewPenaltyRecord(homeID),
		Away:   model.NewPenaltyRecord(awayID),
		HomeID: homeID,
		AwayID: awayID,
	}
	for _, ev := range events {
		if ev.Period > rec.Periods {
			rec.Periods = ev.Period
		}
	}

	period := 1
	state := map[int64]*teamState{
		homeID: {lastFoulClock: league.PeriodSeconds(1)},
		awayID: {lastFoulClock: league.PeriodSeconds(1)},
	}
	finalize := func(p int) {
		for id, st := range state {
			r := rec.Record(id)
			r.Fouls[p] = st.fouls
			if _, ok := r.BonusClock[p]; !ok {
				r.BonusClock[p] = 0
			}
		}
	}
	reset := func(p int) {
		for _, st := range state {
			st.fouls = 0
			st.inPenalty = false
			st.lastFoulClock = league.PeriodSeconds(p)
		}
	}
	rollover := func(to int) {
		finalize(period)
		reset(to)
		for p := period + 1; p < to; p++ {
			finalize(p)
		}
		period = to
	}

	for _, f := range classify.Fouls(events) {
		if f.TeamID != homeID && f.TeamID != awayID {
			continue
		}
		if f.Period > period {
			rollover(f.Period)
		}

		st := state[f.TeamID]
		r := rec.Record(f.TeamID)

		// The free-throw award depends on the penalty state before this
		// foul itself can trigger entry.
		wasInPenalty := st.inPenalty

		if f.TeamFoul {
			r.FoulGaps[period] = append(r.FoulGaps[period], st.lastFoulClock-f.ClockSeconds)
			st.lastFoulClock = f.ClockSeconds
			st.fouls++
		}
		if wasInPenalty && f.NonShooting {
			r.FreeThrows[period] += 2
		}
		if f.TeamFoul && !st.inPenalty &&
			(st.fouls >= bonusFouls(period) || f.ClockSeconds <= twoMinutes) {
			st.inPenalty = true
			r.BonusClock[period] = f.ClockSeconds
			r.BonusEvent[period] = f.EventNum
		}
	}
	finalize(period)
	reset(period)
	for p := period + 1; p <= rec.Periods; p++ {
		finalize(p)
	}
	return rec
}

// PeriodRows flattens a game record into storable per-team per-period rows.
func PeriodRows(gameID string, rec *GameRecord) []model.PenaltyPeriod {
	var rows []model.PenaltyPeriod
	for _, r := range []*model.PenaltyRecord{&rec.Home, &rec.Away} {
		for p := 1; p <= rec.Periods; p++ {
			row := model.PenaltyPeriod{
				GameID:     gameID,
				TeamID:     r.TeamID,
				Period:     p,
				Fouls:      r.Fouls[p],
				FreeThrows: r.FreeThrows[p],
				BonusClock: r.BonusClock[p],
			}
			if ev, ok := r.BonusEvent[p]; ok {
				evCopy := ev
				row.BonusEvent = &evCopy
			}
			rows = append(rows, row)
		}
	}
	return rows
}
