package model

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"12:00", 720},
		{"0:00", 0},
		{"1:43", 103},
		{"10:05", 605},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseClock_Malformed(t *testing.T) {
	for _, in := range []string{"", "12", "12:", ":30", "ab:cd", "5:75", "-1:30"} {
		if _, err := ParseClock(in); err == nil {
			t.Errorf("ParseClock(%q): expected an error", in)
		}
	}
}

func TestLeagueByName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"NBA", "00"},
		{"nba", "00"},
		{"", "00"},
		{"WNBA", "10"},
		{"G", "20"},
		{"g-league", "20"},
	}
	for _, tc := range cases {
		l, err := LeagueByName(tc.in)
		if err != nil {
			t.Errorf("LeagueByName(%q): %v", tc.in, err)
			continue
		}
		if l.ID != tc.want {
			t.Errorf("LeagueByName(%q).ID = %s, want %s", tc.in, l.ID, tc.want)
		}
	}

	if _, err := LeagueByName("MLB"); err == nil {
		t.Error("expected an error for an unknown league")
	}
}

func TestGameSeconds(t *testing.T) {
	cases := []struct {
		league  League
		periods int
		want    int
	}{
		{NBA, 4, 2880},
		{NBA, 5, 3180},
		{NBA, 6, 3480},
		{WNBA, 4, 2400},
		{WNBA, 5, 2700},
		{GLeague, 5, 3000},
	}
	for _, tc := range cases {
		if got := tc.league.GameSeconds(tc.periods); got != tc.want {
			t.Errorf("%s GameSeconds(%d) = %d, want %d", tc.league.Name, tc.periods, got, tc.want)
		}
	}
}

func TestPeriodSeconds(t *testing.T) {
	if got := NBA.PeriodSeconds(4); got != 720 {
		t.Errorf("Q4 length = %d, want 720", got)
	}
	if got := NBA.PeriodSeconds(5); got != 300 {
		t.Errorf("OT length = %d, want 300", got)
	}
	if got := GLeague.PeriodSeconds(5); got != 120 {
		t.Errorf("G League OT length = %d, want 120", got)
	}
}

func TestEventDesc(t *testing.T) {
	ev := Event{TeamID: 100, HomeDesc: "home side", AwayDesc: "away side"}
	if got := ev.Desc(100); got != "home side" {
		t.Errorf("Desc(home) = %q", got)
	}
	if got := ev.Desc(999); got != "away side" {
		t.Errorf("Desc(other) = %q", got)
	}
}

func TestTeamRatingPer100(t *testing.T) {
	r := TeamRating{
		OffPointsBonus: 30, OffPossBonus: 25,
		OffPointsNormal: 90, OffPossNormal: 100,
	}
	if got := r.OffRatingBonus(); got != 120 {
		t.Errorf("bonus rating = %v, want 120", got)
	}
	if got := r.OffRatingNormal(); got != 90 {
		t.Errorf("normal rating = %v, want 90", got)
	}

	var empty TeamRating
	if got := empty.OffRatingBonus(); got != 0 {
		t.Errorf("rating with zero possessions = %v, want 0", got)
	}
}
