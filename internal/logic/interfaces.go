package logic

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/gridironhq/props-api/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Embedder turns text into a fixed-length vector. Implemented by the OpenAI
// client; callers must tolerate it being unavailable.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Reasoner sends a prompt to the reasoning provider and returns its raw text
// response. Model identifies the provider version for provenance.
type Reasoner interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// VectorIndex is the similarity search surface over historical performances.
// Implemented by the Qdrant client.
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, filter models.VectorFilter, limit int, scoreThreshold float64) ([]models.ScoredPerformance, error)
	Upsert(ctx context.Context, points []models.PerformancePoint) error
}

// ScheduleService resolves and validates opponents against the authoritative
// schedule. No prediction may be generated against a non-scheduled opponent.
// week and season select the target matchup; zero values resolve to the
// league's current state.
type ScheduleService interface {
	ValidateOpponent(ctx context.Context, player *models.Player, claimedOpponent string, week, season int) (*models.ValidatedMatchup, error)
	CurrentState(ctx context.Context) (*models.LeagueState, error)
}

// StatsService aggregates a player's current-season output for one stat type.
type StatsService interface {
	SeasonStats(ctx context.Context, playerID, statType string, season int) (*models.SeasonStats, error)
}

// MatchupService derives opponent-strength and availability context.
type MatchupService interface {
	MatchupContext(ctx context.Context, player *models.Player, opponent string) (*models.MatchupContext, error)
	InjuryContext(ctx context.Context, playerID string) (*models.InjuryContext, error)
}

// RetrievalService finds semantically similar historical performances. Errors
// are returned so the caller can decide to degrade; the pipeline treats any
// failure as "no similar situations found".
type RetrievalService interface {
	FindSimilar(ctx context.Context, player *models.Player, statType string, bundle *models.ContextBundle) ([]models.SimilarSituation, error)
}

// ReasoningService invokes the reasoning provider and strictly validates its
// structured response.
type ReasoningService interface {
	PredictProp(ctx context.Context, prop models.PropContext, bundle *models.ContextBundle, similar []models.SimilarSituation) (*models.ReasoningResult, error)
}

// PredictionStore persists predictions and serves the opportunities feed.
type PredictionStore interface {
	Insert(ctx context.Context, p *models.Prediction) error
	ActiveExists(ctx context.Context, playerID, statType string, lineScore float64, week int) (bool, error)
	ListOpportunities(ctx context.Context, filter models.OpportunityFilter) ([]models.Prediction, error)
	GetPlayer(ctx context.Context, playerID string) (*models.Player, error)
	ResolveOutcome(ctx context.Context, id string, actualValue float64) error
}

// PredictorService runs the full single-prediction pipeline.
type PredictorService interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error)
}

// FreshnessService deactivates stale or superseded predictions.
type FreshnessService interface {
	Sweep(ctx context.Context) (*models.SweepResult, error)
	Stats(ctx context.Context) (*models.FreshnessStats, error)
}

// BatchService drives the pipeline across the notable-props catalog for a week.
type BatchService interface {
	GenerateWeekly(ctx context.Context, week, season, maxPlayers int) (*models.BatchSummary, error)
}
