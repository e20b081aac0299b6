// Package nba provides a minimal client for the stats.nba.com API.
//
// The endpoint returns tabular "resultSets" (parallel header and row
// arrays) rather than keyed objects, and it throttles aggressively, so the
// client rate-limits itself to one request every few seconds.
package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pable/go-nba-metrics/internal/model"
)

// baseURL is the root endpoint for the stats API.
const baseURL = "https://stats.nba.com/stats"

// requestInterval is the self-imposed delay between requests. The stats
// endpoint blocks clients that hammer it.
const requestInterval = 4 * time.Second

// browserHeaders mimics a browser session; the stats endpoint rejects
// requests without them.
var browserHeaders = map[string]string{
	"Connection":                "keep-alive",
	"Host":                      "stats.nba.com",
	"Origin":                    "http://stats.nba.com",
	"Upgrade-Insecure-Requests": "1",
	"Referer":                   "stats.nba.com",
	"x-nba-stats-origin":        "stats",
	"x-nba-stats-token":         "true",
	"Accept-Language":           "en-US,en;q=0.9",
	"X-NewRelic-ID":             "VQECWF5UChAHUlNTBwgBVw==",
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_14_6) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/81.0.4044.129 Safari/537.36",
}

// Client is a rate-limited stats.nba.com API client.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewClient returns a stats API client.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
		baseURL: baseURL,
	}
}

// response is the envelope every stats endpoint returns.
type response struct {
	ResultSets []resultSet `json:"resultSets"`
}

// resultSet is one named table: a header array plus rows of mixed values.
type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (r *response) set(name string) (*resultSet, error) {
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	return nil, fmt.Errorf("result set %q missing from response", name)
}

// col returns the column index for a header name.
func (rs *resultSet) col(name string) (int, error) {
	for i, h := range rs.Headers {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("result set %q has no column %q", rs.Name, name)
}

// JSON numbers decode as float64; null cells decode as nil.

func asInt64(v any) int64 {
	f, _ := v.(float64)
	return int64(f)
}

func asInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// get performs a throttled GET against the stats API and decodes the
// resultSets envelope.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("GET %s: HTTP %d: %s", endpoint, resp.StatusCode, body)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("GET %s: decode: %w", endpoint, err)
	}
	return &out, nil
}

// GameIDs returns the IDs of all games played on the given date
// (MM/DD/YYYY) in the given league.
func (c *Client) GameIDs(ctx context.Context, date string, league model.League) ([]string, error) {
	resp, err := c.get(ctx, "scoreboardv2", url.Values{
		"GameDate":  {date},
		"LeagueID":  {league.ID},
		"DayOffset": {"0"},
	})
	if err != nil {
		return nil, err
	}

	games, err := resp.set("GameHeader")
	if err != nil {
		return nil, err
	}
	idCol, err := games.col("GAME_ID")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(games.RowSet))
	for _, row := range games.RowSet {
		ids = append(ids, asString(row[idCol]))
	}
	return ids, nil
}

// GameMeta fetches a game's box-score summary: home/away team IDs, the
// game date, and which side won. HomeWinner stays nil when either line
// score is missing a point total.
func (c *Client) GameMeta(ctx context.Context, gameID string) (*model.GameMeta, error) {
	resp, err := c.get(ctx, "boxscoresummaryv2", url.Values{"GameID": {gameID}})
	if err != nil {
		return nil, err
	}

	summary, err := resp.set("GameSummary")
	if err != nil {
		return nil, err
	}
	if len(summary.RowSet) == 0 {
		return nil, fmt.Errorf("game %s: empty summary", gameID)
	}
	homeCol, err := summary.col("HOME_TEAM_ID")
	if err != nil {
		return nil, err
	}
	awayCol, err := summary.col("VISITOR_TEAM_ID")
	if err != nil {
		return nil, err
	}
	dateCol, err := summary.col("GAME_DATE_EST")
	if err != nil {
		return nil, err
	}

	meta := &model.GameMeta{
		GameID:   gameID,
		GameDate: trimDate(asString(summary.RowSet[0][dateCol])),
		HomeID:   asInt64(summary.RowSet[0][homeCol]),
		AwayID:   asInt64(summary.RowSet[0][awayCol]),
	}

	line, err := resp.set("LineScore")
	if err != nil {
		return nil, err
	}
	teamCol, err := line.col("TEAM_ID")
	if err != nil {
		return nil, err
	}
	ptsCol, err := line.col("PTS")
	if err != nil {
		return nil, err
	}

	var homePts, awayPts any
	for _, row := range line.RowSet {
		if asInt64(row[teamCol]) == meta.HomeID {
			homePts = row[ptsCol]
		} else {
			awayPts = row[ptsCol]
		}
	}
	if homePts != nil && awayPts != nil {
		w := asInt(homePts) > asInt(awayPts)
		meta.HomeWinner = &w
	}
	return meta, nil
}

// trimDate cuts a stats timestamp ("2024-01-15T00:00:00") to its date.
func trimDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// PlayByPlay fetches the full ordered event log for a game. A malformed
// game clock aborts the fetch: downstream bookkeeping cannot survive it.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]model.Event, error) {
	resp, err := c.get(ctx, "playbyplayv2", url.Values{
		"GameID":      {gameID},
		"StartPeriod": {"0"},
		"EndPeriod":   {"14"},
	})
	if err != nil {
		return nil, err
	}

	plays, err := resp.set("PlayByPlay")
	if err != nil {
		return nil, err
	}
	cols := map[string]int{}
	for _, name := range []string{
		"EVENTNUM", "PERIOD", "PCTIMESTRING", "EVENTMSGTYPE",
		"EVENTMSGACTIONTYPE", "PLAYER1_TEAM_ID",
		"HOMEDESCRIPTION", "VISITORDESCRIPTION",
	} {
		i, err := plays.col(name)
		if err != nil {
			return nil, err
		}
		cols[name] = i
	}

	events := make([]model.Event, 0, len(plays.RowSet))
	for _, row := range plays.RowSet {
		clock, err := model.ParseClock(asString(row[cols["PCTIMESTRING"]]))
		if err != nil {
			return nil, fmt.Errorf("game %s event %d: %w",
				gameID, asInt(row[cols["EVENTNUM"]]), err)
		}
		events = append(events, model.Event{
			EventNum:     asInt(row[cols["EVENTNUM"]]),
			Period:       asInt(row[cols["PERIOD"]]),
			ClockSeconds: clock,
			Category:     asInt(row[cols["EVENTMSGTYPE"]]),
			Action:       asInt(row[cols["EVENTMSGACTIONTYPE"]]),
			TeamID:       asInt64(row[cols["PLAYER1_TEAM_ID"]]),
			HomeDesc:     asString(row[cols["HOMEDESCRIPTION"]]),
			AwayDesc:     asString(row[cols["VISITORDESCRIPTION"]]),
		})
	}
	return events, nil
}

// ShotChart fetches every shot taken in a game. Season is YYYY-ZZ for the
// NBA and G League, YYYY for the WNBA.
func (c *Client) ShotChart(ctx context.Context, gameID, season string, league model.League) ([]model.ShotRecord, error) {
	resp, err := c.get(ctx, "shotchartdetail", url.Values{
		"GameID":         {gameID},
		"LeagueID":       {league.ID},
		"Season":         {season},
		"SeasonType":     {"Regular Season"},
		"PlayerID":       {"0"},
		"TeamID":         {"0"},
		"ContextMeasure": {"FGA"},
	})
	if err != nil {
		return nil, err
	}

	detail, err := resp.set("Shot_Chart_Detail")
	if err != nil {
		return nil, err
	}
	cols := map[string]int{}
	for _, name := range []string{
		"GAME_EVENT_ID", "TEAM_ID", "PERIOD",
		"SHOT_MADE_FLAG", "SHOT_TYPE", "SHOT_DISTANCE",
	} {
		i, err := detail.col(name)
		if err != nil {
			return nil, err
		}
		cols[name] = i
	}

	shots := make([]model.ShotRecord, 0, len(detail.RowSet))
	for _, row := range detail.RowSet {
		shots = append(shots, model.ShotRecord{
			GameID:   gameID,
			EventNum: asInt(row[cols["GAME_EVENT_ID"]]),
			TeamID:   asInt64(row[cols["TEAM_ID"]]),
			Period:   asInt(row[cols["PERIOD"]]),
			Made:     asInt(row[cols["SHOT_MADE_FLAG"]]) == 1,
			ShotType: asString(row[cols["SHOT_TYPE"]]),
			Distance: asInt(row[cols["SHOT_DISTANCE"]]),
		})
	}
	return shots, nil
}
