package model

import (
	"fmt"
	"strconv"
	"strings"
)

// League identifies a competition and its period lengths in seconds.
type League struct {
	ID             string
	Name           string
	QuarterSeconds int
	OTSeconds      int
}

var (
	NBA     = League{ID: "00", Name: "NBA", QuarterSeconds: 720, OTSeconds: 300}
	WNBA    = League{ID: "10", Name: "WNBA", QuarterSeconds: 600, OTSeconds: 300}
	GLeague = League{ID: "20", Name: "G", QuarterSeconds: 720, OTSeconds: 120}
)

// RegulationPeriods is the number of quarters before overtime.
const RegulationPeriods = 4

// LeagueByName resolves a league from its common name (case-insensitive).
func LeagueByName(name string) (League, error) {
	switch strings.ToUpper(name) {
	case "NBA", "":
		return NBA, nil
	case "WNBA":
		return WNBA, nil
	case "G", "GLEAGUE", "G-LEAGUE":
		return GLeague, nil
	}
	return League{}, fmt.Errorf("unknown league %q (want NBA, WNBA, or G)", name)
}

// PeriodSeconds returns the length of the given period (1-based).
func (l League) PeriodSeconds(period int) int {
	if period <= RegulationPeriods {
		return l.QuarterSeconds
	}
	return l.OTSeconds
}

// GameSeconds returns the total game length for the given number of periods played.
func (l League) GameSeconds(periods int) int {
	total := RegulationPeriods * l.QuarterSeconds
	if periods > RegulationPeriods {
		total += (periods - RegulationPeriods) * l.OTSeconds
	}
	return total
}

// ---- Raw play-by-play events ----

// Event category codes (EVENTMSGTYPE in the stats feed).
const (
	CategoryShotMade   = 1
	CategoryShotMissed = 2
	CategoryFreeThrow  = 3
	CategoryRebound    = 4
	CategoryTurnover   = 5
	CategoryFoul       = 6
)

// Event is a single play-by-play record. Events are ordered by EventNum,
// which is strictly increasing within a game.
type Event struct {
	EventNum     int
	Period       int   // 1-4 regulation, >=5 overtime
	ClockSeconds int   // game clock remaining in the period
	Category     int   // EVENTMSGTYPE
	Action       int   // EVENTMSGACTIONTYPE
	TeamID       int64 // acting team (PLAYER1_TEAM_ID); 0 when absent
	HomeDesc     string
	AwayDesc     string
}

// Desc returns the description written from the given team's side.
func (e *Event) Desc(homeID int64) string {
	if e.TeamID == homeID {
		return e.HomeDesc
	}
	return e.AwayDesc
}

// ParseClock converts a "MM:SS" game-clock string to seconds remaining.
// A malformed clock indicates corrupt feed data and is a hard error.
func ParseClock(s string) (int, error) {
	mm, ss, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("malformed clock %q", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", s, err)
	}
	sec, err := strconv.Atoi(strings.TrimSpace(ss))
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", s, err)
	}
	if m < 0 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("malformed clock %q", s)
	}
	return m*60 + sec, nil
}

// GameMeta is the box-score metadata needed before processing a game.
type GameMeta struct {
	GameID     string
	GameDate   string // YYYY-MM-DD
	HomeID     int64
	AwayID     int64
	HomeWinner *bool // nil when the game has no recorded final score
}

// ---- Derived penalty records ----

// PenaltyRecord accumulates per-period team-foul bookkeeping for one team
// over one game. The record belongs to the FOULING team: BonusClock and
// BonusEvent mark when this team's fouling put its opponent into the bonus,
// and FreeThrows counts the free throws those fouls surrendered.
type PenaltyRecord struct {
	TeamID     int64
	Fouls      map[int]int   // period -> final team-foul count
	FreeThrows map[int]int   // period -> FTs surrendered on non-shooting fouls in the penalty
	BonusClock map[int]int   // period -> clock remaining at bonus entry (0 = never entered)
	BonusEvent map[int]int   // period -> event number of bonus entry; key absent if never entered
	FoulGaps   map[int][]int // period -> seconds between consecutive fouls, by foul ordinal
}

// NewPenaltyRecord returns an empty record for a team.
func NewPenaltyRecord(teamID int64) PenaltyRecord {
	return PenaltyRecord{
		TeamID:     teamID,
		Fouls:      make(map[int]int),
		FreeThrows: make(map[int]int),
		BonusClock: make(map[int]int),
		BonusEvent: make(map[int]int),
		FoulGaps:   make(map[int][]int),
	}
}

// FoulGap is one stored gap between consecutive team fouls. Number is the
// 1-based ordinal of the foul that closed the gap; the first foul's gap is
// measured from the period start.
type FoulGap struct {
	GameID  string
	TeamID  int64
	Period  int
	Number  int
	Seconds int
}

// PenaltyPeriod is the stored per-team per-period penalty row.
type PenaltyPeriod struct {
	GameID     string
	TeamID     int64
	Period     int
	Fouls      int
	FreeThrows int
	BonusClock int
	BonusEvent *int // nil when the bonus was never entered this period
}

// ---- Derived rating records ----

// PeriodRating holds one team's offensive production in one period, split
// by whether the opponent had entered the bonus. Defensive figures are
// never stored per period: they are the opponent's offense by definition.
type PeriodRating struct {
	TeamID int64
	Period int

	PossBonus    float64
	PointsBonus  int
	TOVBonus     int
	PossNormal   float64
	PointsNormal int
	TOVNormal    int
}

// TeamRating is the game-level rating rollup for one team. Defensive fields
// mirror the opponent's offensive fields exactly.
type TeamRating struct {
	TeamID int64

	OffPossBonus    float64
	OffPointsBonus  int
	OffPossNormal   float64
	OffPointsNormal int
	TOVBonus        int
	TOVNormal       int

	DefPossBonus    float64
	DefPointsBonus  int
	DefPossNormal   float64
	DefPointsNormal int
}

// ratingPer100 returns points per 100 possessions, or 0 with no possessions.
func ratingPer100(points int, poss float64) float64 {
	if poss == 0 {
		return 0
	}
	return 100 * float64(points) / poss
}

func (r *TeamRating) OffRatingBonus() float64 {
	return ratingPer100(r.OffPointsBonus, r.OffPossBonus)
}

func (r *TeamRating) OffRatingNormal() float64 {
	return ratingPer100(r.OffPointsNormal, r.OffPossNormal)
}

func (r *TeamRating) DefRatingBonus() float64 {
	return ratingPer100(r.DefPointsBonus, r.DefPossBonus)
}

func (r *TeamRating) DefRatingNormal() float64 {
	return ratingPer100(r.DefPointsNormal, r.DefPossNormal)
}

// ---- Aggregated per-game output ----

// GameSummary is a lightweight record for list/show commands.
type GameSummary struct {
	GameID   string
	GameDate string
	League   string
	HomeID   int64
	AwayID   int64
	WinnerID int64
	Periods  int
}

// TeamGameRow is the one-row-per-team-per-game aggregate: foul totals,
// time-in-bonus, free throws, and the merged rating splits. The "opp"/"own"
// prefixes follow the reporting convention: OppTIB is the time the
// opponent spent in the bonus against this team (this team was fouling),
// OwnTIB the reverse.
type TeamGameRow struct {
	GameID     string
	TeamID     int64
	GameLength int // seconds

	FoulsCommitted   int
	Fouls3QCommitted int
	FoulsAgainst     int
	Fouls3QAgainst   int

	OppTIB   int
	Opp3QTIB int
	OwnTIB   int
	Own3QTIB int

	FTAllowed   int
	FT3QAllowed int
	FTGained    int
	FT3QGained  int

	Win bool

	OppPctTIB   float64
	OwnPctTIB   float64
	OppPct3QTIB float64
	OwnPct3QTIB float64

	Rating TeamRating
}

// ---- Shot-chart records ----

// ShotRecord is one shot-chart entry for a game, tagged after the fact with
// whether the shooter's opponent had entered the penalty when the shot went
// up, i.e. whether the shooter's team was in the bonus.
type ShotRecord struct {
	GameID     string
	EventNum   int
	TeamID     int64
	Period     int
	Made       bool
	ShotType   string
	Distance   int // feet
	OppInBonus bool
}

// ---- Cross-game aggregates ----

// TeamAggregate holds one team's totals across all stored games.
type TeamAggregate struct {
	TeamID int64
	Games  int
	Wins   int

	FoulsCommitted int
	FoulsAgainst   int
	FTAllowed      int
	FTGained       int

	AvgOppPctTIB float64
	AvgOwnPctTIB float64

	OffPointsBonus  int
	OffPossBonus    float64
	OffPointsNormal int
	OffPossNormal   float64
}

func (a *TeamAggregate) WinPct() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.Wins) / float64(a.Games) * 100
}

func (a *TeamAggregate) OffRatingBonus() float64 {
	return ratingPer100(a.OffPointsBonus, a.OffPossBonus)
}

func (a *TeamAggregate) OffRatingNormal() float64 {
	return ratingPer100(a.OffPointsNormal, a.OffPossNormal)
}
