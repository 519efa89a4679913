// Package worker implements the buffered worker pool that builds the
// retrieval corpus: completed game samples are batch-inserted into the
// analytics store, rendered as narratives, embedded, and upserted into the
// vector index under deterministic point IDs.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/logic"
	"github.com/gridironhq/props-api/internal/models"
)

// Prometheus metrics
var (
	samplesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "props_samples_ingested_total",
		Help: "Total number of game samples accepted for ingestion",
	})

	samplesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "props_samples_processed_total",
		Help: "Total number of game samples processed by workers",
	})

	samplesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "props_samples_failed_total",
		Help: "Total number of game samples that failed processing",
	})

	samplesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "props_samples_load_shed_total",
		Help: "Total number of game samples dropped due to load shedding",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "props_ingest_queue_depth",
		Help: "Current depth of the ingest queue",
	})

	batchFlushDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "props_ingest_batch_flush_duration_seconds",
		Help:    "Duration of sample batch flushes",
		Buckets: prometheus.DefBuckets,
	})
)

// Embedder generates embeddings for a batch of narratives.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Job is one queued game sample.
type Job struct {
	Sample    models.GameSample
	Timestamp time.Time
}

// PoolConfig configures the ingest pool.
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Embedder      Embedder
	VectorIndex   logic.VectorIndex
	Logger        *zap.Logger
}

// Pool manages workers that flush queued samples in batches.
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	tracked map[string]bool
}

// NewPool creates an ingest pool.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 5000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
		tracked:  logic.TrackedStatTypes(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Ingest pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the pool, flushing remaining batches.
func (p *Pool) Stop() {
	p.logger.Info("Stopping ingest pool...")
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Ingest pool stopped")
}

// Enqueue adds a sample to the queue. Returns false when the queue is full;
// the caller is expected to re-submit later rather than block ingestion.
func (p *Pool) Enqueue(sample models.GameSample) bool {
	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue sample (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- Job{Sample: sample, Timestamp: time.Now()}:
		samplesIngested.Inc()
		return true
	default:
		samplesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}

// worker drains the queue in batches.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			samplesFailed.Add(float64(len(batch)))
		} else {
			samplesProcessed.Add(float64(len(batch)))
		}
		batchFlushDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch inserts samples into ClickHouse, then embeds narratives and
// upserts vector points. A vector-side failure does not fail the analytics
// insert: the samples remain queryable and the narratives can be re-ingested.
func (p *Pool) processBatch(batch []Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := p.insertSamples(ctx, batch); err != nil {
		return err
	}

	if err := p.indexNarratives(ctx, batch); err != nil {
		p.logger.Warnw("Narrative indexing failed, analytics insert kept",
			"batchSize", len(batch), "error", err)
	}

	return nil
}

func (p *Pool) insertSamples(ctx context.Context, jobs []Job) error {
	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO props_stats.performance_samples
		(player_id, player_name, position, team_id, season, week, opponent, home, game_date, stat_type, stat_value)
	`)
	if err != nil {
		return fmt.Errorf("prepare sample batch: %w", err)
	}

	for _, job := range jobs {
		s := job.Sample
		for statType, value := range s.Stats {
			if err := chBatch.Append(
				s.PlayerID, s.PlayerName, s.Position, s.TeamID,
				int32(s.Season), int32(s.Week), s.Opponent, s.Home, s.GameDate,
				statType, value,
			); err != nil {
				return fmt.Errorf("append sample row: %w", err)
			}
		}
	}

	if err := chBatch.Send(); err != nil {
		return fmt.Errorf("send sample batch: %w", err)
	}
	return nil
}

func (p *Pool) indexNarratives(ctx context.Context, jobs []Job) error {
	narratives := make([]string, len(jobs))
	for i, job := range jobs {
		narratives[i] = logic.BuildGameNarrative(job.Sample)
	}

	vectors, err := p.config.Embedder.EmbedBatch(ctx, narratives)
	if err != nil {
		return fmt.Errorf("embed narratives: %w", err)
	}
	if len(vectors) != len(jobs) {
		return fmt.Errorf("expected %d vectors, got %d", len(jobs), len(vectors))
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var points []models.PerformancePoint
	for i, job := range jobs {
		s := job.Sample
		for statType, value := range s.Stats {
			if !p.tracked[statType] {
				continue
			}
			points = append(points, models.PerformancePoint{
				ID:     logic.PerformancePointID(s.PlayerID, s.Season, s.Week, statType),
				Vector: vectors[i],
				Payload: models.PerformancePayload{
					PlayerID:   s.PlayerID,
					PlayerName: s.PlayerName,
					StatType:   statType,
					StatValue:  value,
					GameDate:   s.GameDate,
					Week:       s.Week,
					Season:     s.Season,
					Opponent:   s.Opponent,
					Narrative:  narratives[i],
					UniqueKey:  logic.PerformanceKey(s.PlayerID, s.Season, s.Week, statType),
					CreatedAt:  now,
				},
			})
		}
	}

	if len(points) == 0 {
		return nil
	}
	return p.config.VectorIndex.Upsert(ctx, points)
}
