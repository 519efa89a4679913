package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

// Schedule validation failures. These are input/schedule errors: user-facing,
// never retried automatically. The remediation for ErrNoScheduledGame is a
// schedule refresh, not a retry.
var (
	ErrNoScheduledGame = errors.New("no scheduled matchup")
	ErrGameCompleted   = errors.New("matchup already completed")
	ErrNoTeam          = errors.New("player has no team assigned")
)

// OpponentMismatchError means the caller-claimed opponent disagrees with the
// schedule. The message names both teams and the full matchup.
type OpponentMismatchError struct {
	PlayerName string
	Team       string
	Week       int
	Claimed    string
	Actual     string
	Game       models.ScheduledGame
}

func (e *OpponentMismatchError) Error() string {
	return fmt.Sprintf("opponent mismatch for Week %d: %s's team (%s) plays %s, not %s. Game: %s",
		e.Week, e.PlayerName, e.Team, e.Actual, e.Claimed, e.Game.Descriptor())
}

const leagueStateCacheKey = "props:league_state"

type scheduleService struct {
	pg     PgPool
	redis  RedisClient
	logger *zap.SugaredLogger
}

func NewScheduleService(pg PgPool, redis RedisClient, logger *zap.Logger) ScheduleService {
	return &scheduleService{pg: pg, redis: redis, logger: logger.Sugar()}
}

// CurrentState returns the league's current season and week. The value is
// written by the schedule ingestion job and cached briefly in Redis.
func (s *scheduleService) CurrentState(ctx context.Context) (*models.LeagueState, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, leagueStateCacheKey).Result(); err == nil {
			var state models.LeagueState
			if json.Unmarshal([]byte(cached), &state) == nil && state.Week > 0 {
				return &state, nil
			}
		}
	}

	var state models.LeagueState
	err := s.pg.QueryRow(ctx,
		`SELECT season, week FROM league_state ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&state.Season, &state.Week)
	if err != nil {
		return nil, fmt.Errorf("league state lookup: %w", err)
	}

	if s.redis != nil {
		if encoded, err := json.Marshal(state); err == nil {
			s.redis.Set(ctx, leagueStateCacheKey, encoded, 5*time.Minute)
		}
	}

	return &state, nil
}

// ValidateOpponent resolves the authoritative opponent for the player's team
// in the target week. A zero week or season falls back to the league's
// current state, so the dedup key and the stored matchup always agree with
// the week the caller asked for. If claimedOpponent is non-empty it must
// match the schedule (case-insensitive); if empty, the scheduled opponent is
// auto-resolved. This runs before any reasoning call so invalid requests
// never spend provider cost.
func (s *scheduleService) ValidateOpponent(ctx context.Context, player *models.Player, claimedOpponent string, week, season int) (*models.ValidatedMatchup, error) {
	if player.TeamID == "" {
		return nil, fmt.Errorf("%w: player %s", ErrNoTeam, player.Name)
	}

	if week == 0 || season == 0 {
		state, err := s.CurrentState(ctx)
		if err != nil {
			return nil, err
		}
		if week == 0 {
			week = state.Week
		}
		if season == 0 {
			season = state.Season
		}
	}

	var game models.ScheduledGame
	err := s.pg.QueryRow(ctx,
		`SELECT id, season, week, game_time, home_team_id, away_team_id, is_completed, vegas_line, over_under
		 FROM games
		 WHERE season = $1 AND week = $2 AND (home_team_id = $3 OR away_team_id = $3)`,
		season, week, player.TeamID,
	).Scan(&game.ID, &game.Season, &game.Week, &game.GameTime, &game.HomeTeamID,
		&game.AwayTeamID, &game.IsCompleted, &game.VegasLine, &game.OverUnder)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w for %s in Week %d; refresh the schedule before retrying",
			ErrNoScheduledGame, player.TeamID, week)
	}
	if err != nil {
		return nil, fmt.Errorf("schedule lookup: %w", err)
	}

	if game.IsCompleted {
		return nil, fmt.Errorf("%w (Week %d: %s)", ErrGameCompleted, week, game.Descriptor())
	}

	actualOpponent := game.AwayTeamID
	if game.AwayTeamID == player.TeamID {
		actualOpponent = game.HomeTeamID
	}

	if claimedOpponent != "" && !strings.EqualFold(claimedOpponent, actualOpponent) {
		return nil, &OpponentMismatchError{
			PlayerName: player.Name,
			Team:       player.TeamID,
			Week:       week,
			Claimed:    claimedOpponent,
			Actual:     actualOpponent,
			Game:       game,
		}
	}

	s.logger.Infow("Opponent validated",
		"player", player.Name,
		"team", player.TeamID,
		"opponent", actualOpponent,
		"week", week,
		"claimed", claimedOpponent)

	return &models.ValidatedMatchup{
		Opponent: actualOpponent,
		Week:     week,
		Season:   season,
		Game:     game,
	}, nil
}
