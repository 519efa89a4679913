package logic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gridironhq/props-api/internal/models"
)

type predictorService struct {
	store     PredictionStore
	schedule  ScheduleService
	stats     StatsService
	matchup   MatchupService
	retrieval RetrievalService
	reasoning ReasoningService
	logger    *zap.SugaredLogger
}

// NewPredictorService wires the single-prediction pipeline.
func NewPredictorService(
	store PredictionStore,
	schedule ScheduleService,
	stats StatsService,
	matchup MatchupService,
	retrieval RetrievalService,
	reasoning ReasoningService,
	logger *zap.Logger,
) PredictorService {
	return &predictorService{
		store:     store,
		schedule:  schedule,
		stats:     stats,
		matchup:   matchup,
		retrieval: retrieval,
		reasoning: reasoning,
		logger:    logger.Sugar(),
	}
}

// Predict runs the full pipeline for one prop: schedule validation, context
// assembly, retrieval, reasoning, persistence. Schedule validation runs
// first; nothing downstream executes (and no provider cost is spent) until
// the opponent is confirmed against the schedule.
func (s *predictorService) Predict(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error) {
	player, err := s.store.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}

	matchup, err := s.schedule.ValidateOpponent(ctx, player, req.Opponent, req.Week, req.Season)
	if err != nil {
		return nil, err
	}

	bundle, err := s.gatherContext(ctx, player, req.StatType, matchup)
	if err != nil {
		return nil, err
	}

	// Retrieval degrades: any failure here means "no similar situations
	// found", never an aborted prediction.
	similar, err := s.retrieval.FindSimilar(ctx, player, req.StatType, bundle)
	if err != nil {
		s.logger.Warnw("Retrieval unavailable, continuing without",
			"player", player.Name, "error", err)
		similar = nil
	}

	prop := models.PropContext{
		Player:   player.Name,
		StatType: req.StatType,
		Line:     req.LineScore,
		Opponent: matchup.Opponent,
		Week:     matchup.Week,
	}

	result, err := s.reasoning.PredictProp(ctx, prop, bundle, similar)
	if err != nil {
		return nil, err
	}

	prediction := &models.Prediction{
		ID:             uuid.NewString(),
		PlayerID:       player.ID,
		PlayerName:     player.Name,
		PlayerPosition: player.Position,
		Team:           player.TeamID,
		// Always the schedule-resolved opponent, never the caller-claimed one.
		Opponent: matchup.Opponent,
		Week:     matchup.Week,
		Season:   matchup.Season,

		StatType:  req.StatType,
		LineScore: req.LineScore,

		Prediction:     result.Prediction,
		Confidence:     result.Confidence,
		ProjectedValue: result.ProjectedValue,
		Edge:           result.ProjectedValue - req.LineScore,
		Reasoning:      result.Reasoning,
		KeyFactors:     result.KeyFactors,
		RiskFactors:    result.RiskFactors,
		ComparableGame: result.ComparableGame,

		ModelVersion:           result.Model,
		SimilarSituationsCount: len(similar),
		GameTime:               matchup.Game.GameTime,
	}

	if err := s.store.Insert(ctx, prediction); err != nil {
		return nil, err
	}

	s.logger.Infow("Prediction generated",
		"player", player.Name,
		"stat_type", req.StatType,
		"line", req.LineScore,
		"prediction", result.Prediction,
		"confidence", result.Confidence,
		"edge", prediction.Edge,
		"similar_situations", len(similar))

	return prediction, nil
}

// gatherContext assembles the transient context bundle. Stats, matchup and
// injury reads are independent, so they run in parallel.
func (s *predictorService) gatherContext(ctx context.Context, player *models.Player, statType string, matchup *models.ValidatedMatchup) (*models.ContextBundle, error) {
	bundle := &models.ContextBundle{}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.stats.SeasonStats(ctx, player.ID, statType, matchup.Season)
		if err != nil {
			return fmt.Errorf("season stats: %w", err)
		}
		bundle.Stats = stats
		return nil
	})

	g.Go(func() error {
		mc, err := s.matchup.MatchupContext(ctx, player, matchup.Opponent)
		if err != nil {
			return fmt.Errorf("matchup context: %w", err)
		}
		mc.Week = matchup.Week
		mc.GameTime = matchup.Game.GameTime
		mc.VegasLine = matchup.Game.VegasLine
		mc.OverUnder = matchup.Game.OverUnder
		if matchup.Game.HomeTeamID == player.TeamID {
			mc.Location = "Home"
		} else if matchup.Game.AwayTeamID == player.TeamID {
			mc.Location = "Away"
		}
		bundle.Matchup = mc
		return nil
	})

	g.Go(func() error {
		injury, err := s.matchup.InjuryContext(ctx, player.ID)
		if err != nil {
			return fmt.Errorf("injury context: %w", err)
		}
		bundle.Injury = injury
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return bundle, nil
}
