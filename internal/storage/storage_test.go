package storage

import (
	"testing"

	"github.com/pable/go-nba-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleGame(id, date string) model.GameSummary {
	return model.GameSummary{
		GameID:   id,
		GameDate: date,
		League:   "NBA",
		HomeID:   1610612738,
		AwayID:   1610612744,
		WinnerID: 1610612738,
		Periods:  4,
	}
}

func TestGameInsertAndExists(t *testing.T) {
	db := openMemDB(t)

	if err := db.InsertGame(sampleGame("0022300551", "2024-01-15")); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}

	exists, err := db.GameExists("0022300551")
	if err != nil {
		t.Fatalf("GameExists: %v", err)
	}
	if !exists {
		t.Error("expected game to exist after insert")
	}

	exists2, _ := db.GameExists("0022399999")
	if exists2 {
		t.Error("expected non-existent game to not exist")
	}
}

func TestInsertGameIdempotent(t *testing.T) {
	db := openMemDB(t)

	g := sampleGame("0022300551", "2024-01-15")
	if err := db.InsertGame(g); err != nil {
		t.Fatalf("InsertGame: %v", err)
	}
	g.Periods = 5
	if err := db.InsertGame(g); err != nil {
		t.Fatalf("re-InsertGame: %v", err)
	}

	list, err := db.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 game after re-insert, got %d", len(list))
	}
	if list[0].Periods != 5 {
		t.Errorf("re-insert should replace, periods = %d", list[0].Periods)
	}
}

func TestListGamesOrder(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(sampleGame("0022300100", "2024-01-10"))
	db.InsertGame(sampleGame("0022300200", "2024-02-10"))

	list, err := db.ListGames()
	if err != nil {
		t.Fatalf("ListGames: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 games, got %d", len(list))
	}
	// Ordered by game_date DESC, so the February game should be first.
	if list[0].GameID != "0022300200" {
		t.Errorf("expected newest game first, got %s", list[0].GameID)
	}
}

func TestGetGameByPrefix(t *testing.T) {
	db := openMemDB(t)

	db.InsertGame(sampleGame("0022300551", "2024-01-15"))

	g, err := db.GetGameByPrefix("00223005")
	if err != nil {
		t.Fatalf("GetGameByPrefix: %v", err)
	}
	if g == nil || g.GameID != "0022300551" {
		t.Errorf("got %+v", g)
	}

	missing, err := db.GetGameByPrefix("0099")
	if err != nil {
		t.Fatalf("GetGameByPrefix: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown prefix, got %+v", missing)
	}
}

func TestTeamGameRowsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("0022300551", "2024-01-15"))

	in := []model.TeamGameRow{
		{
			GameID: "0022300551", TeamID: 1610612738, GameLength: 2880,
			FoulsCommitted: 18, Fouls3QCommitted: 12,
			FoulsAgainst: 14, Fouls3QAgainst: 9,
			OppTIB: 480, Opp3QTIB: 180, OwnTIB: 120, Own3QTIB: 120,
			FTAllowed: 6, FT3QAllowed: 2, FTGained: 2, FT3QGained: 2,
			Win:       true,
			OppPctTIB: 480.0 / 2880.0, OwnPctTIB: 120.0 / 2880.0,
			OppPct3QTIB: 180.0 / 2160.0, OwnPct3QTIB: 120.0 / 2160.0,
			Rating: model.TeamRating{
				TeamID:       1610612738,
				OffPossBonus: 12.5, OffPointsBonus: 17,
				OffPossNormal: 80.25, OffPointsNormal: 92,
				TOVBonus: 2, TOVNormal: 10,
				DefPossBonus: 9.75, DefPointsBonus: 11,
				DefPossNormal: 82.5, DefPointsNormal: 88,
			},
		},
		{
			GameID: "0022300551", TeamID: 1610612744, GameLength: 2880,
			FoulsCommitted: 14, FoulsAgainst: 18,
		},
	}
	if err := db.InsertTeamGameRows(in); err != nil {
		t.Fatalf("InsertTeamGameRows: %v", err)
	}

	out, err := db.GetTeamGameRows("0022300551")
	if err != nil {
		t.Fatalf("GetTeamGameRows: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}

	var got model.TeamGameRow
	for _, r := range out {
		if r.TeamID == 1610612738 {
			got = r
		}
	}
	if got.FoulsCommitted != 18 || got.OppTIB != 480 || !got.Win {
		t.Errorf("row = %+v", got)
	}
	if got.Rating.OffPossBonus != 12.5 || got.Rating.DefPointsNormal != 88 {
		t.Errorf("rating = %+v", got.Rating)
	}
}

func TestGetTeamRowsAcrossGames(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("0022300100", "2024-01-10"))
	db.InsertGame(sampleGame("0022300200", "2024-02-10"))

	db.InsertTeamGameRows([]model.TeamGameRow{
		{GameID: "0022300100", TeamID: 1610612738, Win: true},
		{GameID: "0022300200", TeamID: 1610612738},
		{GameID: "0022300100", TeamID: 1610612744},
	})

	rows, err := db.GetTeamRows(1610612738)
	if err != nil {
		t.Fatalf("GetTeamRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for the team, got %d", len(rows))
	}
	if rows[0].GameID != "0022300200" {
		t.Errorf("expected most recent game first, got %s", rows[0].GameID)
	}
}

func TestPenaltyPeriodsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("0022300551", "2024-01-15"))

	entry := 312
	in := []model.PenaltyPeriod{
		{GameID: "0022300551", TeamID: 1610612738, Period: 1, Fouls: 5, FreeThrows: 4, BonusClock: 250, BonusEvent: &entry},
		{GameID: "0022300551", TeamID: 1610612738, Period: 2, Fouls: 2},
	}
	if err := db.InsertPenaltyPeriods(in); err != nil {
		t.Fatalf("InsertPenaltyPeriods: %v", err)
	}

	out, err := db.GetPenaltyPeriods("0022300551")
	if err != nil {
		t.Fatalf("GetPenaltyPeriods: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].BonusEvent == nil || *out[0].BonusEvent != 312 {
		t.Errorf("first period bonus event = %v, want 312", out[0].BonusEvent)
	}
	if out[1].BonusEvent != nil {
		t.Errorf("second period bonus event should be NULL, got %d", *out[1].BonusEvent)
	}
}

func TestFoulGapsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("0022300551", "2024-01-15"))

	in := []model.FoulGap{
		{GameID: "0022300551", TeamID: 1610612738, Period: 1, Number: 1, Seconds: 20},
		{GameID: "0022300551", TeamID: 1610612738, Period: 1, Number: 2, Seconds: 150},
	}
	if err := db.InsertFoulGaps(in); err != nil {
		t.Fatalf("InsertFoulGaps: %v", err)
	}

	out, err := db.GetFoulGaps("0022300551")
	if err != nil {
		t.Fatalf("GetFoulGaps: %v", err)
	}
	if len(out) != 2 || out[1].Seconds != 150 {
		t.Errorf("gaps = %+v", out)
	}
}

func TestShotsRoundTrip(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("0022300551", "2024-01-15"))

	in := []model.ShotRecord{
		{GameID: "0022300551", EventNum: 9, TeamID: 1610612738, Period: 1, Made: true, ShotType: "3PT Field Goal", Distance: 26, OppInBonus: true},
		{GameID: "0022300551", EventNum: 14, TeamID: 1610612744, Period: 1, ShotType: "2PT Field Goal", Distance: 4},
	}
	if err := db.InsertShots(in); err != nil {
		t.Fatalf("InsertShots: %v", err)
	}

	out, err := db.GetShots("0022300551")
	if err != nil {
		t.Fatalf("GetShots: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 shots, got %d", len(out))
	}
	if !out[0].Made || !out[0].OppInBonus || out[0].Distance != 26 {
		t.Errorf("first shot = %+v", out[0])
	}
	if out[1].Made || out[1].OppInBonus {
		t.Errorf("second shot = %+v", out[1])
	}
}

func TestGetTeamAggregate(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("0022300100", "2024-01-10"))
	db.InsertGame(sampleGame("0022300200", "2024-02-10"))

	db.InsertTeamGameRows([]model.TeamGameRow{
		{
			GameID: "0022300100", TeamID: 1610612738, Win: true,
			FoulsCommitted: 20, FoulsAgainst: 15, FTAllowed: 6, FTGained: 4,
			OppPctTIB: 0.2, OwnPctTIB: 0.1,
			Rating: model.TeamRating{OffPointsBonus: 10, OffPossBonus: 8, OffPointsNormal: 90, OffPossNormal: 80},
		},
		{
			GameID: "0022300200", TeamID: 1610612738,
			FoulsCommitted: 18, FoulsAgainst: 22, FTAllowed: 2, FTGained: 8,
			OppPctTIB: 0.4, OwnPctTIB: 0.3,
			Rating: model.TeamRating{OffPointsBonus: 6, OffPossBonus: 4, OffPointsNormal: 100, OffPossNormal: 90},
		},
	})

	a, err := db.GetTeamAggregate(1610612738)
	if err != nil {
		t.Fatalf("GetTeamAggregate: %v", err)
	}
	if a == nil {
		t.Fatal("expected an aggregate")
	}
	if a.Games != 2 || a.Wins != 1 {
		t.Errorf("games/wins = %d/%d, want 2/1", a.Games, a.Wins)
	}
	if a.FoulsCommitted != 38 || a.FTGained != 12 {
		t.Errorf("fouls/ft = %d/%d, want 38/12", a.FoulsCommitted, a.FTGained)
	}
	if a.AvgOppPctTIB < 0.29 || a.AvgOppPctTIB > 0.31 {
		t.Errorf("avg opp pct TIB = %v, want 0.3", a.AvgOppPctTIB)
	}
	if a.OffPointsBonus != 16 || a.OffPossBonus != 12 {
		t.Errorf("bonus offense = %d/%v", a.OffPointsBonus, a.OffPossBonus)
	}

	missing, err := db.GetTeamAggregate(42)
	if err != nil {
		t.Fatalf("GetTeamAggregate: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown team, got %+v", missing)
	}
}

func TestGetDBOverview(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("0022300100", "2024-01-10"))
	db.InsertGame(sampleGame("0022300200", "2024-02-10"))

	entry := 100
	db.InsertPenaltyPeriods([]model.PenaltyPeriod{
		{GameID: "0022300100", TeamID: 1610612738, Period: 1, BonusEvent: &entry},
		{GameID: "0022300100", TeamID: 1610612738, Period: 2},
	})
	db.InsertTeamGameRows([]model.TeamGameRow{
		{GameID: "0022300100", TeamID: 1610612738},
		{GameID: "0022300100", TeamID: 1610612744},
	})

	ov, err := db.GetDBOverview()
	if err != nil {
		t.Fatalf("GetDBOverview: %v", err)
	}
	if ov.TotalGames != 2 {
		t.Errorf("games = %d, want 2", ov.TotalGames)
	}
	if ov.EarliestGame != "2024-01-10" || ov.LatestGame != "2024-02-10" {
		t.Errorf("date range = %s..%s", ov.EarliestGame, ov.LatestGame)
	}
	if ov.UniqueTeams != 2 {
		t.Errorf("teams = %d, want 2", ov.UniqueTeams)
	}
	if ov.BonusEntries != 1 {
		t.Errorf("bonus entries = %d, want 1", ov.BonusEntries)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	db.InsertGame(sampleGame("0022300551", "2024-01-15"))

	cols, rows, err := db.QueryRaw("SELECT game_id, periods FROM games")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "game_id" {
		t.Errorf("cols = %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "0022300551" || rows[0][1] != "4" {
		t.Errorf("rows = %v", rows)
	}
}
