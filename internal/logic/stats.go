package logic

import (
	"context"
	"fmt"
	"math"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

type statsService struct {
	ch     driver.Conn
	logger *zap.SugaredLogger
}

func NewStatsService(ch driver.Conn, logger *zap.Logger) StatsService {
	return &statsService{ch: ch, logger: logger.Sugar()}
}

// SeasonStats aggregates the player's recorded samples for one stat type in
// one season. A stat the feed never recorded has no row here, so missing
// values are excluded rather than counted as zero. Zero recorded games
// returns a zero-valued bundle, not an error.
//
// Standard deviation divides by N (population formula). Reasoning prompts
// were calibrated against that divisor; keep it.
func (s *statsService) SeasonStats(ctx context.Context, playerID, statType string, season int) (*models.SeasonStats, error) {
	// FINAL collapses replaced rows so a re-ingested game counts once even
	// before a background merge runs.
	rows, err := s.ch.Query(ctx, `
		SELECT stat_value
		FROM props_stats.performance_samples FINAL
		WHERE player_id = ? AND season = ? AND stat_type = ?
		ORDER BY week DESC
	`, playerID, season, statType)
	if err != nil {
		return nil, fmt.Errorf("season samples query: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("season samples rows: %w", err)
	}

	stats := &models.SeasonStats{Season: season, Last3Games: []float64{}}
	if len(values) == 0 {
		return stats, nil
	}

	var sum float64
	min, max := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	avg := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - avg) * (v - avg)
	}
	variance /= float64(len(values))

	stats.GamesPlayed = len(values)
	stats.AvgPerGame = round2(avg)
	stats.StdDev = round2(math.Sqrt(variance))
	stats.Min = min
	stats.Max = max

	// Values are already most-recent-first.
	last3 := values
	if len(last3) > 3 {
		last3 = last3[:3]
	}
	stats.Last3Games = append(stats.Last3Games, last3...)

	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
