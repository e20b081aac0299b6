package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-nba-metrics/internal/model"
)

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GameExists returns true if the given game is already stored.
func (db *DB) GameExists(gameID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE game_id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame inserts a game record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertGame(g model.GameSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO games(game_id, game_date, league, home_team_id, away_team_id, winner_team_id, periods)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.GameID, g.GameDate, g.League, g.HomeID, g.AwayID, g.WinnerID, g.Periods,
	)
	return err
}

// InsertTeamGameRows bulk-inserts per-team game aggregates in a transaction.
func (db *DB) InsertTeamGameRows(rows []model.TeamGameRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_game_stats(
			game_id, team_id, game_length,
			fouls_committed, fouls_3q_committed, fouls_against, fouls_3q_against,
			opp_tib, opp_3q_tib, own_tib, own_3q_tib,
			ft_allowed, ft_3q_allowed, ft_gained, ft_3q_gained,
			win,
			opp_pct_tib, own_pct_tib, opp_pct_3q_tib, own_pct_3q_tib,
			off_poss_bonus, off_points_bonus, off_poss_normal, off_points_normal,
			tov_bonus, tov_normal,
			def_poss_bonus, def_points_bonus, def_poss_normal, def_points_normal
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.GameID, r.TeamID, r.GameLength,
			r.FoulsCommitted, r.Fouls3QCommitted, r.FoulsAgainst, r.Fouls3QAgainst,
			r.OppTIB, r.Opp3QTIB, r.OwnTIB, r.Own3QTIB,
			r.FTAllowed, r.FT3QAllowed, r.FTGained, r.FT3QGained,
			boolInt(r.Win),
			r.OppPctTIB, r.OwnPctTIB, r.OppPct3QTIB, r.OwnPct3QTIB,
			r.Rating.OffPossBonus, r.Rating.OffPointsBonus,
			r.Rating.OffPossNormal, r.Rating.OffPointsNormal,
			r.Rating.TOVBonus, r.Rating.TOVNormal,
			r.Rating.DefPossBonus, r.Rating.DefPointsBonus,
			r.Rating.DefPossNormal, r.Rating.DefPointsNormal,
		)
		if err != nil {
			return fmt.Errorf("insert team_game_stats for %d: %w", r.TeamID, err)
		}
	}
	return tx.Commit()
}

// InsertPenaltyPeriods bulk-inserts per-period penalty rows in a transaction.
func (db *DB) InsertPenaltyPeriods(rows []model.PenaltyPeriod) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO penalty_periods(
			game_id, team_id, period, fouls, free_throws, bonus_clock, bonus_event
		) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(r.GameID, r.TeamID, r.Period, r.Fouls, r.FreeThrows, r.BonusClock, r.BonusEvent)
		if err != nil {
			return fmt.Errorf("insert penalty_periods for %d p%d: %w", r.TeamID, r.Period, err)
		}
	}
	return tx.Commit()
}

// InsertFoulGaps bulk-inserts foul-gap rows in a transaction.
func (db *DB) InsertFoulGaps(gaps []model.FoulGap) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO foul_gaps(game_id, team_id, period, foul_number, gap_seconds)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range gaps {
		if _, err = stmt.Exec(g.GameID, g.TeamID, g.Period, g.Number, g.Seconds); err != nil {
			return fmt.Errorf("insert foul_gaps for %d p%d: %w", g.TeamID, g.Period, err)
		}
	}
	return tx.Commit()
}

// InsertShots bulk-inserts shot-chart rows in a transaction.
func (db *DB) InsertShots(shots []model.ShotRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO shots(
			game_id, event_num, team_id, period, made, shot_type, distance, opp_in_bonus
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range shots {
		_, err = stmt.Exec(
			s.GameID, s.EventNum, s.TeamID, s.Period,
			boolInt(s.Made), s.ShotType, s.Distance, boolInt(s.OppInBonus),
		)
		if err != nil {
			return fmt.Errorf("insert shots for event %d: %w", s.EventNum, err)
		}
	}
	return tx.Commit()
}

// ListGames returns all stored games ordered by game_date desc.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, game_date, league, home_team_id, away_team_id, winner_team_id, periods
		FROM games ORDER BY game_date DESC, game_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		var g model.GameSummary
		if err := rows.Scan(&g.GameID, &g.GameDate, &g.League,
			&g.HomeID, &g.AwayID, &g.WinnerID, &g.Periods); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetGameByPrefix finds the first game whose ID starts with the given prefix.
func (db *DB) GetGameByPrefix(prefix string) (*model.GameSummary, error) {
	var g model.GameSummary
	err := db.conn.QueryRow(`
		SELECT game_id, game_date, league, home_team_id, away_team_id, winner_team_id, periods
		FROM games WHERE game_id LIKE ? LIMIT 1`, prefix+"%").
		Scan(&g.GameID, &g.GameDate, &g.League, &g.HomeID, &g.AwayID, &g.WinnerID, &g.Periods)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Columns are qualified with the t alias so joined queries stay unambiguous.
const teamGameRowColumns = `
	t.game_id, t.team_id, t.game_length,
	t.fouls_committed, t.fouls_3q_committed, t.fouls_against, t.fouls_3q_against,
	t.opp_tib, t.opp_3q_tib, t.own_tib, t.own_3q_tib,
	t.ft_allowed, t.ft_3q_allowed, t.ft_gained, t.ft_3q_gained,
	t.win,
	t.opp_pct_tib, t.own_pct_tib, t.opp_pct_3q_tib, t.own_pct_3q_tib,
	t.off_poss_bonus, t.off_points_bonus, t.off_poss_normal, t.off_points_normal,
	t.tov_bonus, t.tov_normal,
	t.def_poss_bonus, t.def_points_bonus, t.def_poss_normal, t.def_points_normal`

func scanTeamGameRows(rows *sql.Rows) ([]model.TeamGameRow, error) {
	var out []model.TeamGameRow
	for rows.Next() {
		var r model.TeamGameRow
		var winInt int
		if err := rows.Scan(
			&r.GameID, &r.TeamID, &r.GameLength,
			&r.FoulsCommitted, &r.Fouls3QCommitted, &r.FoulsAgainst, &r.Fouls3QAgainst,
			&r.OppTIB, &r.Opp3QTIB, &r.OwnTIB, &r.Own3QTIB,
			&r.FTAllowed, &r.FT3QAllowed, &r.FTGained, &r.FT3QGained,
			&winInt,
			&r.OppPctTIB, &r.OwnPctTIB, &r.OppPct3QTIB, &r.OwnPct3QTIB,
			&r.Rating.OffPossBonus, &r.Rating.OffPointsBonus,
			&r.Rating.OffPossNormal, &r.Rating.OffPointsNormal,
			&r.Rating.TOVBonus, &r.Rating.TOVNormal,
			&r.Rating.DefPossBonus, &r.Rating.DefPointsBonus,
			&r.Rating.DefPossNormal, &r.Rating.DefPointsNormal,
		); err != nil {
			return nil, err
		}
		r.Win = winInt != 0
		r.Rating.TeamID = r.TeamID
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTeamGameRows returns both teams' aggregate rows for a game.
func (db *DB) GetTeamGameRows(gameID string) ([]model.TeamGameRow, error) {
	rows, err := db.conn.Query(
		"SELECT"+teamGameRowColumns+" FROM team_game_stats t WHERE t.game_id = ?", gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeamGameRows(rows)
}

// GetTeamRows returns one team's aggregate rows across all stored games,
// most recent first.
func (db *DB) GetTeamRows(teamID int64) ([]model.TeamGameRow, error) {
	rows, err := db.conn.Query(`
		SELECT`+teamGameRowColumns+`
		FROM team_game_stats t
		JOIN games g ON g.game_id = t.game_id
		WHERE t.team_id = ?
		ORDER BY g.game_date DESC, g.game_id DESC`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeamGameRows(rows)
}

// GetPenaltyPeriods returns all per-period penalty rows for a game, ordered
// by team then period.
func (db *DB) GetPenaltyPeriods(gameID string) ([]model.PenaltyPeriod, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, team_id, period, fouls, free_throws, bonus_clock, bonus_event
		FROM penalty_periods WHERE game_id = ?
		ORDER BY team_id, period`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PenaltyPeriod
	for rows.Next() {
		var p model.PenaltyPeriod
		if err := rows.Scan(&p.GameID, &p.TeamID, &p.Period,
			&p.Fouls, &p.FreeThrows, &p.BonusClock, &p.BonusEvent); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetFoulGaps returns all foul-gap rows for a game in foul order.
func (db *DB) GetFoulGaps(gameID string) ([]model.FoulGap, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, team_id, period, foul_number, gap_seconds
		FROM foul_gaps WHERE game_id = ?
		ORDER BY team_id, period, foul_number`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FoulGap
	for rows.Next() {
		var g model.FoulGap
		if err := rows.Scan(&g.GameID, &g.TeamID, &g.Period, &g.Number, &g.Seconds); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetShots returns all shot rows for a game in event order.
func (db *DB) GetShots(gameID string) ([]model.ShotRecord, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, event_num, team_id, period, made, shot_type, distance, opp_in_bonus
		FROM shots WHERE game_id = ? ORDER BY event_num`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShotRecord
	for rows.Next() {
		var s model.ShotRecord
		var madeInt, bonusInt int
		if err := rows.Scan(&s.GameID, &s.EventNum, &s.TeamID, &s.Period,
			&madeInt, &s.ShotType, &s.Distance, &bonusInt); err != nil {
			return nil, err
		}
		s.Made = madeInt != 0
		s.OppInBonus = bonusInt != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetAllTeamGameRows returns every stored team-game row joined with its
// game date, most recent first. Used by the CSV exporter.
func (db *DB) GetAllTeamGameRows() ([]model.TeamGameRow, error) {
	rows, err := db.conn.Query(`
		SELECT` + teamGameRowColumns + `
		FROM team_game_stats t
		JOIN games g ON g.game_id = t.game_id
		ORDER BY g.game_date, g.game_id, t.team_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTeamGameRows(rows)
}

// GetAllShots returns every stored shot row. Used by the CSV exporter.
func (db *DB) GetAllShots() ([]model.ShotRecord, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, event_num, team_id, period, made, shot_type, distance, opp_in_bonus
		FROM shots ORDER BY game_id, event_num`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ShotRecord
	for rows.Next() {
		var s model.ShotRecord
		var madeInt, bonusInt int
		if err := rows.Scan(&s.GameID, &s.EventNum, &s.TeamID, &s.Period,
			&madeInt, &s.ShotType, &s.Distance, &bonusInt); err != nil {
			return nil, err
		}
		s.Made = madeInt != 0
		s.OppInBonus = bonusInt != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetTeamAggregate returns one team's totals across all stored games, or
// nil if the team has no rows.
func (db *DB) GetTeamAggregate(teamID int64) (*model.TeamAggregate, error) {
	var a model.TeamAggregate
	err := db.conn.QueryRow(`
		SELECT team_id, COUNT(1), SUM(win),
		       SUM(fouls_committed), SUM(fouls_against),
		       SUM(ft_allowed), SUM(ft_gained),
		       AVG(opp_pct_tib), AVG(own_pct_tib),
		       SUM(off_points_bonus), SUM(off_poss_bonus),
		       SUM(off_points_normal), SUM(off_poss_normal)
		FROM team_game_stats WHERE team_id = ?
		GROUP BY team_id`, teamID).
		Scan(&a.TeamID, &a.Games, &a.Wins,
			&a.FoulsCommitted, &a.FoulsAgainst,
			&a.FTAllowed, &a.FTGained,
			&a.AvgOppPctTIB, &a.AvgOwnPctTIB,
			&a.OffPointsBonus, &a.OffPossBonus,
			&a.OffPointsNormal, &a.OffPossNormal)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DBOverview holds the counts shown by the summary command.
type DBOverview struct {
	TotalGames   int
	EarliestGame string
	LatestGame   string
	UniqueTeams  int
	TotalShots   int
	BonusEntries int
}

// GetDBOverview returns high-level counts across the whole database.
func (db *DB) GetDBOverview() (*DBOverview, error) {
	var ov DBOverview
	err := db.conn.QueryRow(`
		SELECT COUNT(1), COALESCE(MIN(game_date), ''), COALESCE(MAX(game_date), '')
		FROM games`).
		Scan(&ov.TotalGames, &ov.EarliestGame, &ov.LatestGame)
	if err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow(
		"SELECT COUNT(DISTINCT team_id) FROM team_game_stats").Scan(&ov.UniqueTeams); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(1) FROM shots").Scan(&ov.TotalShots); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow(
		"SELECT COUNT(1) FROM penalty_periods WHERE bonus_event IS NOT NULL").Scan(&ov.BonusEntries); err != nil {
		return nil, err
	}
	return &ov, nil
}

// QueryRaw runs an arbitrary query and returns column names plus all rows
// rendered as strings. NULL renders as an empty string.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		rendered := make([]string, len(cols))
		for i, v := range raw {
			switch x := v.(type) {
			case nil:
				rendered[i] = ""
			case []byte:
				rendered[i] = string(x)
			default:
				rendered[i] = fmt.Sprintf("%v", x)
			}
		}
		out = append(out, rendered)
	}
	return cols, out, rows.Err()
}
