package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

// CurrentPredictionVersion identifies the active pipeline. Bump it when
// prediction logic changes; the freshness sweep deactivates everything
// stamped with an older version.
const CurrentPredictionVersion = "v2_rag"

// ErrDuplicatePrediction means an active prediction already exists for the
// (player, stat, line, week) tuple. The schema's composite uniqueness
// constraint enforces this under concurrent writers.
var ErrDuplicatePrediction = errors.New("active prediction already exists")

// ErrPlayerNotFound means the requested player is not in the catalog.
var ErrPlayerNotFound = errors.New("player not found")

// ErrPredictionNotFound means the referenced prediction does not exist.
var ErrPredictionNotFound = errors.New("prediction not found")

type predictionStore struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewPredictionStore(pg PgPool, logger *zap.Logger) PredictionStore {
	return &predictionStore{pg: pg, logger: logger.Sugar()}
}

// Insert persists a prediction as active, non-archived, stamped with the
// current pipeline version. The partial unique index on
// (player_id, stat_type, line_score, week) WHERE is_active makes the write
// atomic with the duplicate check: a concurrent duplicate surfaces as
// ErrDuplicatePrediction, never as a second active row.
func (s *predictionStore) Insert(ctx context.Context, p *models.Prediction) error {
	now := time.Now().UTC()
	p.IsActive = true
	p.IsArchived = false
	p.PipelineVersion = CurrentPredictionVersion
	p.CreatedAt = now
	p.UpdatedAt = now

	tag, err := s.pg.Exec(ctx, `
		INSERT INTO predictions (
			id, player_id, player_name, player_position, team, opponent, week, season,
			stat_type, line_score,
			prediction, confidence, projected_value, edge, reasoning,
			key_factors, risk_factors, comparable_game,
			model_version, pipeline_version, similar_situations_count,
			is_active, is_archived, game_time, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18,
			$19, $20, $21,
			$22, $23, $24, $25, $26
		)
		ON CONFLICT (player_id, stat_type, line_score, week) WHERE is_active
		DO NOTHING`,
		p.ID, p.PlayerID, p.PlayerName, p.PlayerPosition, p.Team, p.Opponent, p.Week, p.Season,
		p.StatType, p.LineScore,
		p.Prediction, p.Confidence, p.ProjectedValue, p.Edge, p.Reasoning,
		p.KeyFactors, p.RiskFactors, p.ComparableGame,
		p.ModelVersion, p.PipelineVersion, p.SimilarSituationsCount,
		p.IsActive, p.IsArchived, p.GameTime, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: player=%s stat=%s line=%v week=%d",
			ErrDuplicatePrediction, p.PlayerID, p.StatType, p.LineScore, p.Week)
	}

	return nil
}

// ActiveExists reports whether an active prediction already covers the tuple.
// Used as a cheap pre-check before spending a reasoning call; the insert's
// uniqueness constraint remains the authority under concurrency.
func (s *predictionStore) ActiveExists(ctx context.Context, playerID, statType string, lineScore float64, week int) (bool, error) {
	var exists bool
	err := s.pg.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM predictions
			WHERE player_id = $1 AND stat_type = $2 AND line_score = $3 AND week = $4 AND is_active
		)`,
		playerID, statType, lineScore, week,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("prediction existence check: %w", err)
	}
	return exists, nil
}

// ListOpportunities returns active, non-archived predictions matching the
// filter, highest edge first.
func (s *predictionStore) ListOpportunities(ctx context.Context, filter models.OpportunityFilter) ([]models.Prediction, error) {
	query := `
		SELECT id, player_id, player_name, player_position, team, opponent, week, season,
		       stat_type, line_score,
		       prediction, confidence, projected_value, edge, reasoning,
		       key_factors, risk_factors, COALESCE(comparable_game, ''),
		       model_version, pipeline_version, similar_situations_count,
		       is_active, is_archived, actual_value, was_correct, resolved_at,
		       game_time, created_at, updated_at
		FROM predictions
		WHERE is_active AND NOT is_archived`

	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Position != "" {
		query += " AND player_position = " + arg(filter.Position)
	}
	if filter.StatType != "" {
		query += " AND stat_type = " + arg(filter.StatType)
	}
	if filter.MinConfidence > 0 {
		query += " AND confidence >= " + arg(filter.MinConfidence)
	}
	if filter.MinEdge > 0 {
		query += " AND ABS(edge) >= " + arg(filter.MinEdge)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query += " ORDER BY ABS(edge) DESC, confidence DESC LIMIT " + arg(limit)

	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(
			&p.ID, &p.PlayerID, &p.PlayerName, &p.PlayerPosition, &p.Team, &p.Opponent, &p.Week, &p.Season,
			&p.StatType, &p.LineScore,
			&p.Prediction, &p.Confidence, &p.ProjectedValue, &p.Edge, &p.Reasoning,
			&p.KeyFactors, &p.RiskFactors, &p.ComparableGame,
			&p.ModelVersion, &p.PipelineVersion, &p.SimilarSituationsCount,
			&p.IsActive, &p.IsArchived, &p.ActualValue, &p.WasCorrect, &p.ResolvedAt,
			&p.GameTime, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// GetPlayer loads one player from the catalog.
func (s *predictionStore) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	var p models.Player
	err := s.pg.QueryRow(ctx,
		`SELECT id, name, position, COALESCE(team_id, ''), status FROM players WHERE id = $1`,
		playerID,
	).Scan(&p.ID, &p.Name, &p.Position, &p.TeamID, &p.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("player lookup: %w", err)
	}
	return &p, nil
}

// ResolveOutcome records the actual stat value after the game completes and
// grades the call. was_correct compares against the line in the direction of
// the prediction; a push (exactly the line) grades as incorrect.
func (s *predictionStore) ResolveOutcome(ctx context.Context, id string, actualValue float64) error {
	tag, err := s.pg.Exec(ctx, `
		UPDATE predictions
		SET actual_value = $2,
		    was_correct = CASE
		        WHEN prediction = 'OVER' THEN $2 > line_score
		        ELSE $2 < line_score
		    END,
		    resolved_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1`,
		id, actualValue,
	)
	if err != nil {
		return fmt.Errorf("resolve outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrPredictionNotFound, id)
	}
	return nil
}
