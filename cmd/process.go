package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pable/go-nba-metrics/internal/aggregate"
	"github.com/pable/go-nba-metrics/internal/model"
	"github.com/pable/go-nba-metrics/internal/nba"
	"github.com/pable/go-nba-metrics/internal/penalty"
	"github.com/pable/go-nba-metrics/internal/rating"
	"github.com/pable/go-nba-metrics/internal/storage"
)

// errSkipGame marks games that cannot be processed (no final score, no
// events). Callers skip them and move on.
var errSkipGame = errors.New("skip game")

// processGame fetches one game, runs the penalty and rating pipeline, and
// stores every derived table. Shot-chart ingestion is optional because it
// costs an extra API round trip per game.
func processGame(ctx context.Context, client *nba.Client, db *storage.DB,
	gameID, season string, league model.League, withShots bool) error {

	meta, err := client.GameMeta(ctx, gameID)
	if err != nil {
		return fmt.Errorf("game %s: metadata: %w", gameID, err)
	}
	if meta.HomeWinner == nil {
		return fmt.Errorf("%w: %s has no final score", errSkipGame, gameID)
	}

	events, err := client.PlayByPlay(ctx, gameID)
	if err != nil {
		return fmt.Errorf("game %s: play-by-play: %w", gameID, err)
	}

	rec := penalty.Track(events, meta.HomeID, meta.AwayID, league)
	if rec == nil {
		return fmt.Errorf("%w: %s has no events", errSkipGame, gameID)
	}

	winnerID := meta.AwayID
	if *meta.HomeWinner {
		winnerID = meta.HomeID
	}

	_, ratings := rating.Estimate(events, rec)
	rows := aggregate.Rows(gameID, rec, ratings, winnerID, league)

	if err := db.InsertGame(model.GameSummary{
		GameID:   gameID,
		GameDate: meta.GameDate,
		League:   league.Name,
		HomeID:   meta.HomeID,
		AwayID:   meta.AwayID,
		WinnerID: winnerID,
		Periods:  rec.Periods,
	}); err != nil {
		return fmt.Errorf("game %s: insert game: %w", gameID, err)
	}
	if err := db.InsertTeamGameRows(rows); err != nil {
		return fmt.Errorf("game %s: insert team stats: %w", gameID, err)
	}
	if err := db.InsertPenaltyPeriods(penalty.PeriodRows(gameID, rec)); err != nil {
		return fmt.Errorf("game %s: insert penalty periods: %w", gameID, err)
	}
	if err := db.InsertFoulGaps(foulGapRows(gameID, rec)); err != nil {
		return fmt.Errorf("game %s: insert foul gaps: %w", gameID, err)
	}

	if withShots {
		shots, err := client.ShotChart(ctx, gameID, season, league)
		if err != nil {
			return fmt.Errorf("game %s: shot chart: %w", gameID, err)
		}
		if err := db.InsertShots(rating.SplitShots(shots, rec)); err != nil {
			return fmt.Errorf("game %s: insert shots: %w", gameID, err)
		}
	}
	return nil
}

// foulGapRows flattens both teams' foul gaps into storable rows.
func foulGapRows(gameID string, rec *penalty.GameRecord) []model.FoulGap {
	var out []model.FoulGap
	for _, r := range []*model.PenaltyRecord{&rec.Home, &rec.Away} {
		for p := 1; p <= rec.Periods; p++ {
			for i, gap := range r.FoulGaps[p] {
				out = append(out, model.FoulGap{
					GameID:  gameID,
					TeamID:  r.TeamID,
					Period:  p,
					Number:  i + 1,
					Seconds: gap,
				})
			}
		}
	}
	return out
}
