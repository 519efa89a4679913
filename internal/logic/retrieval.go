package logic

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

// RetrievalConfig tunes the similarity search.
type RetrievalConfig struct {
	Limit          int
	ScoreThreshold float64
	Timeout        time.Duration
}

func (c *RetrievalConfig) applyDefaults() {
	if c.Limit == 0 {
		c.Limit = 10
	}
	if c.ScoreThreshold == 0 {
		c.ScoreThreshold = 0.7
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
}

type retrievalService struct {
	embedder Embedder
	index    VectorIndex
	cfg      RetrievalConfig
	logger   *zap.SugaredLogger
}

func NewRetrievalService(embedder Embedder, index VectorIndex, cfg RetrievalConfig, logger *zap.Logger) RetrievalService {
	cfg.applyDefaults()
	return &retrievalService{embedder: embedder, index: index, cfg: cfg, logger: logger.Sugar()}
}

// FindSimilar embeds a description of the current situation and searches the
// vector index for the player's nearest historical performances for this
// stat. Errors are returned to the caller, who degrades to an empty result;
// they never abort the prediction pipeline.
func (s *retrievalService) FindSimilar(ctx context.Context, player *models.Player, statType string, bundle *models.ContextBundle) ([]models.SimilarSituation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	queryText := fmt.Sprintf("Looking for: %s %s performances\nSimilar to: %s",
		player.Name,
		strings.ReplaceAll(statType, "_", " "),
		buildContextDescription(bundle))

	vector, err := s.embedder.EmbedText(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed retrieval query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, models.VectorFilter{
		PlayerID: player.ID,
		StatType: statType,
	}, s.cfg.Limit, s.cfg.ScoreThreshold)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	situations := make([]models.SimilarSituation, 0, len(hits))
	for _, hit := range hits {
		p := hit.Payload
		situations = append(situations, models.SimilarSituation{
			ID:              hit.ID,
			SimilarityScore: hit.Score,
			PlayerName:      p.PlayerName,
			StatType:        p.StatType,
			StatValue:       p.StatValue,
			Week:            p.Week,
			Season:          p.Season,
			Opponent:        p.Opponent,
			Narrative:       p.Narrative,
			Game:            fmt.Sprintf("Week %d, %d vs %s", p.Week, p.Season, p.Opponent),
			Result:          fmt.Sprintf("%s %s", trimFloat(p.StatValue), strings.ReplaceAll(p.StatType, "_", " ")),
		})
	}

	s.logger.Infow("Similar performances found",
		"player", player.Name,
		"stat_type", statType,
		"count", len(situations))

	return situations, nil
}

// buildContextDescription renders the bundle as a short natural-language
// search query: recent values, matchup difficulty, availability.
func buildContextDescription(bundle *models.ContextBundle) string {
	var parts []string

	if bundle.Stats != nil && len(bundle.Stats.Last3Games) > 0 {
		vals := make([]string, 0, len(bundle.Stats.Last3Games))
		for _, v := range bundle.Stats.Last3Games {
			vals = append(vals, trimFloat(v))
		}
		parts = append(parts, "recent games: "+strings.Join(vals, ", "))
	}

	if bundle.Matchup != nil && bundle.Matchup.OpponentRank != nil {
		switch rank := *bundle.Matchup.OpponentRank; {
		case rank <= 10:
			parts = append(parts, "tough defensive matchup")
		case rank >= 25:
			parts = append(parts, "favorable defensive matchup")
		}
	}

	if bundle.Injury != nil {
		if status := bundle.Injury.PlayerStatus; status != "ACTIVE" && status != "UNKNOWN" {
			parts = append(parts, status+" injury status")
		}
	}

	if len(parts) == 0 {
		return "similar recent performances"
	}
	return strings.Join(parts, ", ")
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
