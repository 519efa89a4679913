package logic

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/gridironhq/props-api/internal/models"
)

type matchupService struct {
	pg     PgPool
	logger *zap.SugaredLogger
}

func NewMatchupService(pg PgPool, logger *zap.Logger) MatchupService {
	return &matchupService{pg: pg, logger: logger.Sugar()}
}

// MatchupContext returns the opponent's defensive strength against the
// player's position, when a season aggregate exists. Missing aggregates
// produce an "unknown" context, never an error: this component must not
// block the pipeline.
func (s *matchupService) MatchupContext(ctx context.Context, player *models.Player, opponent string) (*models.MatchupContext, error) {
	mc := &models.MatchupContext{
		Opponent: opponent,
		Location: "Unknown",
	}
	if opponent == "" {
		mc.Opponent = "Unknown"
		return mc, nil
	}

	var rank int
	var avgAllowed float64
	err := s.pg.QueryRow(ctx,
		`SELECT rank_vs_position, avg_allowed
		 FROM team_defensive_stats
		 WHERE team_id = $1 AND defensive_position = $2 AND week = 0`,
		opponent, player.Position,
	).Scan(&rank, &avgAllowed)
	if errors.Is(err, pgx.ErrNoRows) {
		return mc, nil
	}
	if err != nil {
		s.logger.Warnw("Defensive stats lookup failed, continuing without",
			"opponent", opponent, "position", player.Position, "error", err)
		return mc, nil
	}

	mc.OpponentRank = &rank
	mc.OpponentAvgAllowed = &avgAllowed
	return mc, nil
}

// InjuryContext returns the player's latest availability status. Absent
// injury rows mean an ACTIVE player.
func (s *matchupService) InjuryContext(ctx context.Context, playerID string) (*models.InjuryContext, error) {
	var ic models.InjuryContext
	err := s.pg.QueryRow(ctx,
		`SELECT injury_status, COALESCE(injury_type, ''), COALESCE(description, '')
		 FROM player_injuries
		 WHERE player_id = $1
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		playerID,
	).Scan(&ic.PlayerStatus, &ic.InjuryType, &ic.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.InjuryContext{PlayerStatus: "ACTIVE"}, nil
	}
	if err != nil {
		s.logger.Warnw("Injury lookup failed, treating as unknown", "player_id", playerID, "error", err)
		return &models.InjuryContext{PlayerStatus: "UNKNOWN"}, nil
	}
	return &ic, nil
}
