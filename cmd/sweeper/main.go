// sweeper runs the prediction freshness sweep, either once or on an
// interval. Run it as a cron job or a sidecar; the sweep only flips active
// predictions inactive, so overlapping runs are harmless.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/logic"
)

var (
	interval = flag.Duration("interval", 15*time.Minute, "Time between sweeps")
	once     = flag.Bool("once", false, "Run a single sweep and exit")
	maxAge   = flag.Duration("max-age", 24*time.Hour, "Age at which a prediction goes stale")
)

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	pgURL := os.Getenv("POSTGRES_URL")
	if pgURL == "" {
		sugar.Fatal("POSTGRES_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgPool, err := pgxpool.New(ctx, pgURL)
	if err != nil {
		sugar.Fatalw("Failed to connect to Postgres", "error", err)
	}
	defer pgPool.Close()

	freshness := logic.NewFreshnessService(pgPool, *maxAge, logger)

	sweep := func() {
		result, err := freshness.Sweep(ctx)
		if err != nil {
			sugar.Errorw("Sweep failed", "error", err)
			return
		}
		sugar.Infow("Sweep complete",
			"past_game_time", result.PastGameTime,
			"too_old", result.TooOld,
			"wrong_version", result.WrongVersion,
			"total", result.Total)
	}

	sweep()
	if *once {
		return
	}

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sugar.Info("Sweeper stopping")
			return
		case <-ticker.C:
			sweep()
		}
	}
}
