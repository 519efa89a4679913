package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gridironhq/props-api/internal/models"
)

var (
	batchPredictionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "props_batch_predictions_generated_total",
		Help: "Total number of predictions generated by batch runs",
	})

	batchPredictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "props_batch_predictions_failed_total",
		Help: "Total number of prediction failures in batch runs",
	})

	batchPredictionsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "props_batch_predictions_skipped_total",
		Help: "Total number of tuples skipped because an active prediction exists",
	})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "props_batch_duration_seconds",
		Help:    "Duration of weekly batch runs",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)

// BatchConfig tunes the weekly batch run.
type BatchConfig struct {
	// InterCallDelay spaces successive generations to respect downstream
	// provider rate limits.
	InterCallDelay time.Duration
	// LockTTL bounds how long a per-tuple generation lock is held.
	LockTTL time.Duration
}

type batchService struct {
	pg        PgPool
	redis     RedisClient
	store     PredictionStore
	predictor PredictorService
	cfg       BatchConfig
	logger    *zap.SugaredLogger
}

// NewBatchService wires the weekly batch orchestrator.
func NewBatchService(pg PgPool, redis RedisClient, store PredictionStore, predictor PredictorService, cfg BatchConfig, logger *zap.Logger) BatchService {
	if cfg.InterCallDelay == 0 {
		cfg.InterCallDelay = 500 * time.Millisecond
	}
	if cfg.LockTTL == 0 {
		cfg.LockTTL = 10 * time.Minute
	}
	return &batchService{
		pg:        pg,
		redis:     redis,
		store:     store,
		predictor: predictor,
		cfg:       cfg,
		logger:    logger.Sugar(),
	}
}

// GenerateWeekly runs the single-prediction pipeline across every notable
// prop for every tracked player with a non-completed matchup this week.
// Failure of one (player, stat, line) tuple is counted and logged, never
// propagated: the rest of the catalog always gets processed.
func (s *batchService) GenerateWeekly(ctx context.Context, week, season, maxPlayers int) (*models.BatchSummary, error) {
	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	s.logger.Infow("Batch predictions started", "week", week, "season", season)

	games, err := s.weekGames(ctx, week, season)
	if err != nil {
		return nil, err
	}

	summary := &models.BatchSummary{MatchupsFound: len(games)}
	if len(games) == 0 {
		s.logger.Warnw("No games found", "week", week, "season", season)
		return summary, nil
	}

	players, err := s.candidatePlayers(ctx, games, maxPlayers)
	if err != nil {
		return nil, err
	}
	summary.PlayersProcessed = len(players)

	limiter := rate.NewLimiter(rate.Every(s.cfg.InterCallDelay), 1)

	for _, player := range players {
		for _, prop := range PropsForPosition(player.Position) {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			s.generateOne(ctx, limiter, player, prop, week, season, summary)
		}
	}

	s.logger.Infow("Batch predictions complete",
		"week", week,
		"generated", summary.PredictionsGenerated,
		"failed", summary.PredictionsFailed)

	return summary, nil
}

// generateOne processes a single (player, stat, line) tuple. The Redis SetNX
// lock plus the store's uniqueness constraint keep the existence check and
// the write atomic with respect to concurrent batch runs. The target week
// and season are threaded into the pipeline so the persisted prediction
// carries the same week the existence check was keyed on.
func (s *batchService) generateOne(ctx context.Context, limiter *rate.Limiter, player models.Player, prop NotableProp, week, season int, summary *models.BatchSummary) {
	lockKey := fmt.Sprintf("props:gen:%s:%s:%v:%d", player.ID, prop.StatType, prop.LineScore, week)
	acquired, err := s.redis.SetNX(ctx, lockKey, "1", s.cfg.LockTTL).Result()
	if err == nil && !acquired {
		// Another run holds this tuple.
		return
	}
	if err == nil {
		defer s.redis.Del(ctx, lockKey)
	}

	exists, err := s.store.ActiveExists(ctx, player.ID, prop.StatType, prop.LineScore, week)
	if err != nil {
		summary.PredictionsFailed++
		batchPredictionsFailed.Inc()
		s.logger.Errorw("Prediction existence check failed",
			"player", player.Name, "stat_type", prop.StatType, "error", err)
		return
	}
	if exists {
		batchPredictionsSkipped.Inc()
		s.logger.Debugw("Prediction exists, skipping",
			"player", player.Name, "stat_type", prop.StatType, "line", prop.LineScore)
		return
	}

	if err := limiter.Wait(ctx); err != nil {
		return
	}

	_, err = s.predictor.Predict(ctx, models.PredictionRequest{
		PlayerID:  player.ID,
		StatType:  prop.StatType,
		LineScore: prop.LineScore,
		Week:      week,
		Season:    season,
	})
	if errors.Is(err, ErrDuplicatePrediction) {
		// Lost a race to a concurrent writer; the tuple is covered.
		batchPredictionsSkipped.Inc()
		return
	}
	if err != nil {
		summary.PredictionsFailed++
		batchPredictionsFailed.Inc()
		s.logger.Errorw("Prediction generation failed",
			"player", player.Name,
			"stat_type", prop.StatType,
			"line", prop.LineScore,
			"error", err)
		return
	}

	summary.PredictionsGenerated++
	batchPredictionsGenerated.Inc()
}

func (s *batchService) weekGames(ctx context.Context, week, season int) ([]models.ScheduledGame, error) {
	rows, err := s.pg.Query(ctx,
		`SELECT id, season, week, game_time, home_team_id, away_team_id, is_completed
		 FROM games
		 WHERE week = $1 AND season = $2 AND NOT is_completed`,
		week, season,
	)
	if err != nil {
		return nil, fmt.Errorf("week games query: %w", err)
	}
	defer rows.Close()

	var games []models.ScheduledGame
	for rows.Next() {
		var g models.ScheduledGame
		if err := rows.Scan(&g.ID, &g.Season, &g.Week, &g.GameTime, &g.HomeTeamID, &g.AwayTeamID, &g.IsCompleted); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *batchService) candidatePlayers(ctx context.Context, games []models.ScheduledGame, maxPlayers int) ([]models.Player, error) {
	teams := make([]string, 0, len(games)*2)
	for _, g := range games {
		teams = append(teams, g.HomeTeamID, g.AwayTeamID)
	}

	query := `
		SELECT id, name, position, team_id, status
		FROM players
		WHERE team_id = ANY($1) AND position = ANY($2) AND status = 'ACTIVE'
		ORDER BY name`
	args := []any{teams, TrackedPositions}
	if maxPlayers > 0 {
		query += " LIMIT $3"
		args = append(args, maxPlayers)
	}

	rows, err := s.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("candidate players query: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.TeamID, &p.Status); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
