package rating

import (
	"math"
	"testing"

	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/penalty"
)

const (
	home int64 = 100
	away int64 = 200
)

type gameBuilder struct {
	events  []model.Event
	nextNum int
}

func newGame() *gameBuilder {
	return &gameBuilder{nextNum: 1}
}

func (b *gameBuilder) add(ev model.Event) *gameBuilder {
	ev.EventNum = b.nextNum
	b.nextNum++
	b.events = append(b.events, ev)
	return b
}

func (b *gameBuilder) foul(teamID int64, period, clock int) *gameBuilder {
	return b.add(model.Event{
		Period: period, ClockSeconds: clock,
		Category: model.CategoryFoul, Action: 2, TeamID: teamID,
		HomeDesc: "FOUL (P1.T1)", AwayDesc: "FOUL (P1.T1)",
	})
}

func (b *gameBuilder) made2(teamID int64, period, clock int) *gameBuilder {
	return b.add(model.Event{
		Period: period, ClockSeconds: clock,
		Category: model.CategoryShotMade, TeamID: teamID,
		HomeDesc: "Layup (2 PTS)", AwayDesc: "Layup (2 PTS)",
	})
}

func (b *gameBuilder) made3(teamID int64, period, clock int) *gameBuilder {
	return b.add(model.Event{
		Period: period, ClockSeconds: clock,
		Category: model.CategoryShotMade, TeamID: teamID,
		HomeDesc: "26' 3PT Jump Shot (3 PTS)", AwayDesc: "26' 3PT Jump Shot (3 PTS)",
	})
}

func (b *gameBuilder) miss(teamID int64, period, clock int) *gameBuilder {
	return b.add(model.Event{
		Period: period, ClockSeconds: clock,
		Category: model.CategoryShotMissed, TeamID: teamID,
		HomeDesc: "MISS Jump Shot", AwayDesc: "MISS Jump Shot",
	})
}

func (b *gameBuilder) ft(teamID int64, period, clock int, made bool) *gameBuilder {
	desc := "Free Throw 1 of 2 (1 PTS)"
	if !made {
		desc = "MISS Free Throw 1 of 2"
	}
	return b.add(model.Event{
		Period: period, ClockSeconds: clock,
		Category: model.CategoryFreeThrow, TeamID: teamID,
		HomeDesc: desc, AwayDesc: desc,
	})
}

func (b *gameBuilder) rebound(teamID int64, period, clock int) *gameBuilder {
	return b.add(model.Event{
		Period: period, ClockSeconds: clock,
		Category: model.CategoryRebound, TeamID: teamID,
	})
}

func (b *gameBuilder) turnover(teamID int64, period, clock int) *gameBuilder {
	return b.add(model.Event{
		Period: period, ClockSeconds: clock,
		Category: model.CategoryTurnover, TeamID: teamID,
	})
}

func track(b *gameBuilder) *penalty.GameRecord {
	return penalty.Track(b.events, home, away, model.NBA)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimate_PossessionFormula(t *testing.T) {
	// 10 FGA, 4 FTA, 2 OREB (miss then own rebound), 3 TOV for the home
	// team, no bonus entries: everything lands in the normal segment.
	b := newGame()
	clock := 700
	for i := 0; i < 8; i++ {
		b.made2(home, 1, clock)
		clock -= 10
	}
	for i := 0; i < 2; i++ {
		b.miss(home, 1, clock)
		clock -= 5
		b.rebound(home, 1, clock)
		clock -= 5
	}
	for i := 0; i < 4; i++ {
		b.ft(home, 1, clock, true)
		clock -= 5
	}
	for i := 0; i < 3; i++ {
		b.turnover(home, 1, clock)
		clock -= 5
	}

	_, ratings := Estimate(b.events, track(b))
	got := ratings[home].OffPossNormal
	want := 0.976 * (10 + 0.44*4 - 2 + 3)
	if !almostEqual(got, want) {
		t.Errorf("possessions = %v, want %v (kept unrounded)", got, want)
	}
	if ratings[home].OffPossBonus != 0 {
		t.Errorf("no bonus possessions expected, got %v", ratings[home].OffPossBonus)
	}
}

func TestEstimate_SegmentationOnOpponentEntry(t *testing.T) {
	// Away fouls four times, putting home in the bonus; home scores once
	// before the entry event and once after.
	b := newGame().
		made2(home, 1, 700). // event 1: normal
		foul(away, 1, 650).
		foul(away, 1, 640).
		foul(away, 1, 630).
		foul(away, 1, 620). // event 5: away enters the penalty
		made3(home, 1, 600) // event 6: bonus

	_, ratings := Estimate(b.events, track(b))
	h := ratings[home]
	if h.OffPointsNormal != 2 {
		t.Errorf("normal points = %d, want 2", h.OffPointsNormal)
	}
	if h.OffPointsBonus != 3 {
		t.Errorf("bonus points = %d, want 3", h.OffPointsBonus)
	}
}

func TestEstimate_FirstEventAfterEntryIsBonus(t *testing.T) {
	// The first event after the entry already counts as bonus production.
	b := newGame().
		foul(away, 1, 700).
		foul(away, 1, 650).
		foul(away, 1, 600).
		foul(away, 1, 500). // event 4: entry
		ft(home, 1, 500, true)

	_, ratings := Estimate(b.events, track(b))
	if got := ratings[home].OffPointsBonus; got != 1 {
		t.Errorf("bonus points = %d, want 1 (event at entry boundary)", got)
	}
}

func TestEstimate_NoEntryAllNormal(t *testing.T) {
	b := newGame().
		made2(home, 1, 700).
		made3(away, 1, 650).
		turnover(home, 1, 600)

	periods, ratings := Estimate(b.events, track(b))
	for _, pr := range periods {
		if pr.PossBonus != 0 || pr.PointsBonus != 0 {
			t.Errorf("team %d period %d has bonus production without an entry: %+v",
				pr.TeamID, pr.Period, pr)
		}
	}
	if ratings[home].OffPointsNormal != 2 || ratings[away].OffPointsNormal != 3 {
		t.Errorf("normal points = %d/%d, want 2/3",
			ratings[home].OffPointsNormal, ratings[away].OffPointsNormal)
	}
}

func TestEstimate_DefenseMirrorsOpponentOffense(t *testing.T) {
	b := newGame().
		made2(home, 1, 700).
		made3(away, 1, 650).
		foul(away, 1, 640).
		foul(away, 1, 630).
		foul(away, 1, 620).
		foul(away, 1, 610).
		made2(home, 1, 600).
		turnover(away, 1, 550)

	_, ratings := Estimate(b.events, track(b))
	h, a := ratings[home], ratings[away]

	if h.DefPointsBonus != a.OffPointsBonus || h.DefPointsNormal != a.OffPointsNormal {
		t.Errorf("home defense %d/%d does not mirror away offense %d/%d",
			h.DefPointsBonus, h.DefPointsNormal, a.OffPointsBonus, a.OffPointsNormal)
	}
	if !almostEqual(a.DefPossBonus, h.OffPossBonus) || !almostEqual(a.DefPossNormal, h.OffPossNormal) {
		t.Errorf("away defensive possessions %v/%v do not mirror home %v/%v",
			a.DefPossBonus, a.DefPossNormal, h.OffPossBonus, h.OffPossNormal)
	}
}

func TestEstimate_PeriodRowsCoverAllPeriods(t *testing.T) {
	b := newGame().
		made2(home, 1, 700).
		made2(away, 3, 400)

	periods, _ := Estimate(b.events, track(b))
	if len(periods) != 6 { // 2 teams x 3 periods
		t.Fatalf("expected 6 period rows, got %d", len(periods))
	}
}

func TestSplitShots(t *testing.T) {
	// Home enters the penalty at event 4, so away's later shot goes up with
	// away in the bonus. Home's own shots never do, and the flag does not
	// carry into the next period.
	b := newGame().
		foul(home, 1, 700).
		foul(home, 1, 650).
		foul(home, 1, 600).
		foul(home, 1, 500)

	rec := track(b)
	shots := []model.ShotRecord{
		{GameID: "g", EventNum: 2, TeamID: away, Period: 1},
		{GameID: "g", EventNum: 10, TeamID: home, Period: 1},
		{GameID: "g", EventNum: 10, TeamID: away, Period: 1},
		{GameID: "g", EventNum: 10, TeamID: away, Period: 2},
	}

	got := SplitShots(shots, rec)
	want := []bool{false, false, true, false}
	for i, w := range want {
		if got[i].OppInBonus != w {
			t.Errorf("shot %d OppInBonus = %v, want %v", i, got[i].OppInBonus, w)
		}
	}
}

func TestSplitShots_AgreesWithRatingSegments(t *testing.T) {
	// Away enters the penalty at event 4 and home scores at event 5. The
	// basket must land in home's bonus segment and the matching shot-chart
	// entry must carry the bonus tag.
	b := newGame().
		foul(away, 1, 700).
		foul(away, 1, 650).
		foul(away, 1, 600).
		foul(away, 1, 500).
		made2(home, 1, 450)

	rec := track(b)
	_, ratings := Estimate(b.events, rec)
	if ratings[home].OffPointsBonus != 2 {
		t.Fatalf("home OffPointsBonus = %d, want 2", ratings[home].OffPointsBonus)
	}

	shots := SplitShots([]model.ShotRecord{
		{GameID: "g", EventNum: 5, TeamID: home, Period: 1, Made: true},
	}, rec)
	if !shots[0].OppInBonus {
		t.Errorf("home shot at event 5 not tagged as bonus, rating segments say it is")
	}
}
