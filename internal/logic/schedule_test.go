package logic

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

func schedulePool(gameRow *MockPgRow) *MockPgPool {
	return &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "league_state") {
				return &MockPgRow{Values: []any{2025, 9}}
			}
			return gameRow
		},
	}
}

func TestValidateOpponent(t *testing.T) {
	logger := zap.NewNop()
	player := &models.Player{ID: "p1", Name: "Test Receiver", Position: "WR", TeamID: "PHI", Status: "ACTIVE"}

	// id, season, week, game_time, home, away, is_completed, vegas_line, over_under
	gameRow := &MockPgRow{Values: []any{"g1", 2025, 9, nil, "PHI", "WSH", false, nil, nil}}

	tests := []struct {
		name         string
		claimed      string
		wantOpponent string
	}{
		{"Auto Resolve", "", "WSH"},
		{"Claimed Matches", "WSH", "WSH"},
		{"Claimed Matches Case Insensitive", "wsh", "WSH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewScheduleService(schedulePool(gameRow), &MockRedisClient{}, logger)

			matchup, err := svc.ValidateOpponent(context.Background(), player, tt.claimed, 0, 0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if matchup.Opponent != tt.wantOpponent {
				t.Errorf("expected opponent %s, got %s", tt.wantOpponent, matchup.Opponent)
			}
			if matchup.Week != 9 || matchup.Season != 2025 {
				t.Errorf("expected week 9 season 2025, got %d/%d", matchup.Week, matchup.Season)
			}
		})
	}
}

func TestValidateOpponentExplicitWeek(t *testing.T) {
	player := &models.Player{ID: "p1", Name: "Test Receiver", Position: "WR", TeamID: "PHI"}

	var gotArgs []any
	pg := &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			if strings.Contains(sql, "league_state") {
				// League state says week 8; the request targets week 9.
				return &MockPgRow{Values: []any{2025, 8}}
			}
			gotArgs = args
			return &MockPgRow{Values: []any{"g2", 2025, 9, nil, "PHI", "WSH", false, nil, nil}}
		},
	}

	svc := NewScheduleService(pg, &MockRedisClient{}, zap.NewNop())

	matchup, err := svc.ValidateOpponent(context.Background(), player, "", 9, 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotArgs) != 3 || gotArgs[0] != 2025 || gotArgs[1] != 9 {
		t.Errorf("schedule lookup should use the requested week, got args %v", gotArgs)
	}
	if matchup.Week != 9 || matchup.Season != 2025 {
		t.Errorf("matchup must carry the requested week, got %d/%d", matchup.Week, matchup.Season)
	}
	if pg.QueryRowCalls != 1 {
		t.Errorf("explicit week should not consult league state, got %d queries", pg.QueryRowCalls)
	}
}

func TestValidateOpponentAwayTeam(t *testing.T) {
	player := &models.Player{ID: "p1", Name: "Test Receiver", Position: "WR", TeamID: "WSH"}
	gameRow := &MockPgRow{Values: []any{"g1", 2025, 9, nil, "PHI", "WSH", false, nil, nil}}

	svc := NewScheduleService(schedulePool(gameRow), &MockRedisClient{}, zap.NewNop())

	matchup, err := svc.ValidateOpponent(context.Background(), player, "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matchup.Opponent != "PHI" {
		t.Errorf("away team's opponent should be the home team, got %s", matchup.Opponent)
	}
}

func TestValidateOpponentMismatch(t *testing.T) {
	player := &models.Player{ID: "p1", Name: "Test Receiver", Position: "WR", TeamID: "PHI"}
	gameRow := &MockPgRow{Values: []any{"g1", 2025, 9, nil, "PHI", "WSH", false, nil, nil}}

	svc := NewScheduleService(schedulePool(gameRow), &MockRedisClient{}, zap.NewNop())

	_, err := svc.ValidateOpponent(context.Background(), player, "DAL", 0, 0)

	var mismatch *OpponentMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected OpponentMismatchError, got %v", err)
	}
	if mismatch.Claimed != "DAL" || mismatch.Actual != "WSH" {
		t.Errorf("unexpected mismatch detail: %+v", mismatch)
	}
	for _, fragment := range []string{"Week 9", "DAL", "WSH", "WSH @ PHI"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected message to contain %q, got %q", fragment, err.Error())
		}
	}
}

func TestValidateOpponentCompletedGame(t *testing.T) {
	player := &models.Player{ID: "p1", Name: "Test Receiver", Position: "WR", TeamID: "PHI"}
	gameRow := &MockPgRow{Values: []any{"g1", 2025, 9, nil, "PHI", "WSH", true, nil, nil}}

	svc := NewScheduleService(schedulePool(gameRow), &MockRedisClient{}, zap.NewNop())

	_, err := svc.ValidateOpponent(context.Background(), player, "", 0, 0)
	if !errors.Is(err, ErrGameCompleted) {
		t.Fatalf("expected ErrGameCompleted, got %v", err)
	}
}

func TestValidateOpponentNoGame(t *testing.T) {
	player := &models.Player{ID: "p1", Name: "Test Receiver", Position: "WR", TeamID: "PHI"}

	svc := NewScheduleService(schedulePool(&MockPgRow{Error: pgx.ErrNoRows}), &MockRedisClient{}, zap.NewNop())

	_, err := svc.ValidateOpponent(context.Background(), player, "", 0, 0)
	if !errors.Is(err, ErrNoScheduledGame) {
		t.Fatalf("expected ErrNoScheduledGame, got %v", err)
	}
	if !strings.Contains(err.Error(), "refresh the schedule") {
		t.Errorf("expected remediation hint, got %q", err.Error())
	}
}

func TestValidateOpponentNoTeam(t *testing.T) {
	player := &models.Player{ID: "p1", Name: "Free Agent", Position: "WR", TeamID: ""}

	svc := NewScheduleService(&MockPgPool{}, &MockRedisClient{}, zap.NewNop())

	_, err := svc.ValidateOpponent(context.Background(), player, "", 0, 0)
	if !errors.Is(err, ErrNoTeam) {
		t.Fatalf("expected ErrNoTeam, got %v", err)
	}
}

func TestCurrentStateCacheHit(t *testing.T) {
	pg := &MockPgPool{}
	redisMock := &MockRedisClient{
		GetFunc: func(ctx context.Context, key string) *redis.StringCmd {
			return redis.NewStringResult(`{"season":2025,"week":11}`, nil)
		},
	}

	svc := NewScheduleService(pg, redisMock, zap.NewNop())

	state, err := svc.CurrentState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Week != 11 || state.Season != 2025 {
		t.Errorf("unexpected state: %+v", state)
	}
	if pg.QueryRowCalls != 0 {
		t.Errorf("cache hit should not query Postgres, got %d calls", pg.QueryRowCalls)
	}
}

func TestCurrentStateCacheMiss(t *testing.T) {
	pg := &MockPgPool{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return &MockPgRow{Values: []any{2025, 9}}
		},
	}
	redisMock := &MockRedisClient{}

	svc := NewScheduleService(pg, redisMock, zap.NewNop())

	state, err := svc.CurrentState(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Week != 9 {
		t.Errorf("expected week 9, got %d", state.Week)
	}
	if redisMock.SetCalls != 1 {
		t.Errorf("expected state cached after miss, got %d Set calls", redisMock.SetCalls)
	}
}
