package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/anthropic"
	"github.com/gridironhq/props-api/internal/config"
	"github.com/gridironhq/props-api/internal/handlers"
	"github.com/gridironhq/props-api/internal/logic"
	"github.com/gridironhq/props-api/internal/openai"
	"github.com/gridironhq/props-api/internal/qdrant"
	"github.com/gridironhq/props-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Postgres: predictions, players, schedule
	pgPool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Failed to connect to Postgres", "error", err)
	}
	defer pgPool.Close()

	// ClickHouse: performance sample analytics
	chOpts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
	if err != nil {
		sugar.Fatalw("Failed to parse ClickHouse DSN", "error", err)
	}
	chConn, err := clickhouse.Open(chOpts)
	if err != nil {
		sugar.Fatalw("Failed to connect to ClickHouse", "error", err)
	}
	defer chConn.Close()

	// Redis: league-state cache and batch generation locks
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Failed to parse Redis URL", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	// Provider clients
	embedder := openai.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.VectorSize, logger,
		openai.WithHTTPClient(&http.Client{Timeout: cfg.EmbeddingTimeout}))
	reasoner := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, logger)
	vectorIndex := qdrant.NewClient(cfg.QdrantURL, cfg.QdrantCollection, logger)
	if err := vectorIndex.EnsureCollection(ctx, cfg.VectorSize); err != nil {
		sugar.Fatalw("Failed to ensure vector collection", "error", err)
	}

	// Services
	store := logic.NewPredictionStore(pgPool, logger)
	schedule := logic.NewScheduleService(pgPool, redisClient, logger)
	stats := logic.NewStatsService(chConn, logger)
	matchup := logic.NewMatchupService(pgPool, logger)
	retrieval := logic.NewRetrievalService(embedder, vectorIndex, logic.RetrievalConfig{
		Limit:          cfg.RetrievalLimit,
		ScoreThreshold: cfg.RetrievalThreshold,
		Timeout:        cfg.RetrievalTimeout,
	}, logger)
	reasoning := logic.NewReasoningService(reasoner, logic.ReasoningConfig{
		Timeout: cfg.ReasoningTimeout,
	}, logger)
	predictor := logic.NewPredictorService(store, schedule, stats, matchup, retrieval, reasoning, logger)
	batch := logic.NewBatchService(pgPool, redisClient, store, predictor, logic.BatchConfig{
		InterCallDelay: cfg.BatchInterCallDelay,
	}, logger)
	freshness := logic.NewFreshnessService(pgPool, cfg.FreshnessWindow, logger)

	// Corpus ingest pool
	pool := worker.NewPool(worker.PoolConfig{
		WorkerCount:   cfg.WorkerCount,
		QueueSize:     cfg.QueueSize,
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		ClickHouse:    chConn,
		Embedder:      embedder,
		VectorIndex:   vectorIndex,
		Logger:        logger,
	})
	pool.Start(ctx)

	h := handlers.New(handlers.Config{
		WorkerPool: pool,
		Postgres:   pgPool,
		ClickHouse: chConn,
		Redis:      redisClient,
		Logger:     logger,
		Predictor:  predictor,
		Store:      store,
		Batch:      batch,
		Freshness:  freshness,
		Schedule:   schedule,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/predictions", func(r chi.Router) {
			r.Post("/predict", h.PredictProp)
			r.Get("/opportunities", h.GetOpportunities)
			r.Post("/batch", h.GenerateBatch)
			r.Post("/{id}/outcome", h.ResolveOutcome)
			r.Post("/freshness/sweep", h.SweepFreshness)
			r.Get("/freshness/stats", h.GetFreshnessStats)
		})
		r.Post("/ingest/samples", h.IngestSamples)
		r.Post("/system/install", h.InstallDatabase)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}
	pool.Stop()

	sugar.Info("Shutdown complete")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
