package logic

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

type freshnessService struct {
	pg     PgPool
	maxAge time.Duration
	logger *zap.SugaredLogger
}

// NewFreshnessService creates the sweep service. maxAge defaults to 24h.
func NewFreshnessService(pg PgPool, maxAge time.Duration, logger *zap.Logger) FreshnessService {
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}
	return &freshnessService{pg: pg, maxAge: maxAge, logger: logger.Sugar()}
}

// Sweep deactivates, in one pass, every active prediction that is past its
// game time, older than the freshness window, or stamped with a superseded
// pipeline version. Each update only ever flips is_active true -> false, so
// the sweep is idempotent and monotonic: repeated or concurrent sweeps never
// reactivate anything.
func (s *freshnessService) Sweep(ctx context.Context) (*models.SweepResult, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-s.maxAge)
	result := &models.SweepResult{}

	tag, err := s.pg.Exec(ctx, `
		UPDATE predictions
		SET is_active = FALSE, updated_at = $1
		WHERE is_active AND game_time IS NOT NULL AND game_time < $1`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("deactivate past game time: %w", err)
	}
	result.PastGameTime = int(tag.RowsAffected())

	tag, err = s.pg.Exec(ctx, `
		UPDATE predictions
		SET is_active = FALSE, updated_at = $1
		WHERE is_active AND created_at < $2`,
		now, cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("deactivate too old: %w", err)
	}
	result.TooOld = int(tag.RowsAffected())

	tag, err = s.pg.Exec(ctx, `
		UPDATE predictions
		SET is_active = FALSE, updated_at = $1
		WHERE is_active AND pipeline_version != $2`,
		now, CurrentPredictionVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("deactivate wrong version: %w", err)
	}
	result.WrongVersion = int(tag.RowsAffected())

	result.Total = result.PastGameTime + result.TooOld + result.WrongVersion

	if result.Total > 0 {
		s.logger.Infow("Stale predictions deactivated",
			"past_game_time", result.PastGameTime,
			"too_old", result.TooOld,
			"wrong_version", result.WrongVersion,
			"total", result.Total)
	}

	return result, nil
}

// Stats reports the staleness profile of currently active predictions
// without mutating anything.
func (s *freshnessService) Stats(ctx context.Context) (*models.FreshnessStats, error) {
	now := time.Now().UTC()
	cutoff := now.Add(-s.maxAge)

	stats := &models.FreshnessStats{CurrentVersion: CurrentPredictionVersion}
	err := s.pg.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE created_at < $1),
			COUNT(*) FILTER (WHERE game_time IS NOT NULL AND game_time < $2),
			COUNT(*) FILTER (WHERE pipeline_version != $3)
		FROM predictions
		WHERE is_active`,
		cutoff, now, CurrentPredictionVersion,
	).Scan(&stats.TotalActive, &stats.Fresh, &stats.StaleButActive, &stats.PastGameTime, &stats.WrongVersion)
	if err != nil {
		return nil, fmt.Errorf("freshness stats: %w", err)
	}

	return stats, nil
}
