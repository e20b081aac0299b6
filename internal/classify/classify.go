// Package classify labels raw play-by-play events: which foul events count
// as team fouls toward the bonus, and which events carry possession
// indicators (FGA/FTA/TOV/OREB) for the possession estimate.
package classify

import (
	"regexp"
	"strings"

	"github.com/pable/go-nba-metrics/internal/model"
)

// Foul action subtypes (EVENTMSGACTIONTYPE) that increment the team-foul count.
var teamFoulActions = map[int]bool{
	1: true, 2: true, 3: true, 5: true, 6: true, 9: true,
	14: true, 15: true, 26: true, 27: true, 28: true, 29: true,
}

// Non-shooting foul subtypes: these award two free throws only when the
// fouling team is already in the penalty.
var nonShootingActions = map[int]bool{1: true, 3: true, 27: true, 28: true}

// chargeAction is the offensive-charge subtype, which is a team foul only
// when the play description carries a team-foul marker.
const chargeAction = 26

// chargeMarker matches the personal-foul-count marker (e.g. "(P1.T2)")
// that the feed appends to descriptions of fouls counted against the team.
var chargeMarker = regexp.MustCompile(`.T[0-9]`)

// Foul is one kept foul event with its classification flags.
type Foul struct {
	model.Event
	TeamFoul    bool
	NonShooting bool
}

// Fouls filters the event stream to foul-category events, dropping charge
// fouls with no team-foul marker in either description. Kept fouls are
// flagged TeamFoul when their subtype counts toward the bonus.
func Fouls(events []model.Event) []Foul {
	var out []Foul
	for _, ev := range events {
		if ev.Category != model.CategoryFoul {
			continue
		}
		if ev.Action == chargeAction && !keepCharge(ev) {
			continue
		}
		out = append(out, Foul{
			Event:       ev,
			TeamFoul:    teamFoulActions[ev.Action],
			NonShooting: nonShootingActions[ev.Action],
		})
	}
	return out
}

// keepCharge reports whether a charge foul carries a team-foul marker
// (".T<digit>" count marker or ".PN" bonus marker) on either side.
func keepCharge(ev model.Event) bool {
	return chargeMarker.MatchString(ev.HomeDesc) ||
		chargeMarker.MatchString(ev.AwayDesc) ||
		strings.Contains(ev.HomeDesc, ".PN") ||
		strings.Contains(ev.AwayDesc, ".PN")
}

// Indicators are the per-event possession flags. OREB requires knowing who
// last attempted a shot, so the shooting team is carried forward through
// intervening events (0 before the first shot of the game).
type Indicators struct {
	FGA          bool
	FTA          bool
	TOV          bool
	OREB         bool
	ShootingTeam int64
}

// Annotate computes possession indicators for every event in one forward
// pass, index-aligned with the input.
func Annotate(events []model.Event) []Indicators {
	out := make([]Indicators, len(events))
	var shootingTeam int64
	for i, ev := range events {
		switch ev.Category {
		case model.CategoryShotMade, model.CategoryShotMissed, model.CategoryFreeThrow:
			shootingTeam = ev.TeamID
		}
		ind := Indicators{ShootingTeam: shootingTeam}
		switch ev.Category {
		case model.CategoryShotMade, model.CategoryShotMissed:
			ind.FGA = true
		case model.CategoryFreeThrow:
			ind.FTA = true
		case model.CategoryTurnover:
			ind.TOV = true
		case model.CategoryRebound:
			ind.OREB = shootingTeam != 0 && ev.TeamID == shootingTeam
		}
		out[i] = ind
	}
	return out
}

// Points returns the points an event produced for the acting team: 3 for a
// made three, 2 for any other made field goal, 1 for a made free throw.
// The description is read from the acting team's side of the feed.
func Points(ev model.Event, homeID int64) int {
	desc := ev.Desc(homeID)
	switch ev.Category {
	case model.CategoryShotMade:
		if strings.Contains(desc, " 3PT ") {
			return 3
		}
		return 2
	case model.CategoryFreeThrow:
		if strings.Contains(desc, "MISS ") {
			return 0
		}
		return 1
	}
	return 0
}
