package handlers

import (
	"context"

	"github.com/gridironhq/props-api/internal/models"
)

// MockPredictorService
type MockPredictorService struct {
	PredictFunc func(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error)
}

func (m *MockPredictorService) Predict(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error) {
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, req)
	}
	return &models.Prediction{ID: "mock-id", PlayerID: req.PlayerID}, nil
}

// MockPredictionStore
type MockPredictionStore struct {
	ListFunc           func(ctx context.Context, filter models.OpportunityFilter) ([]models.Prediction, error)
	ResolveOutcomeFunc func(ctx context.Context, id string, actualValue float64) error
}

func (m *MockPredictionStore) Insert(ctx context.Context, p *models.Prediction) error { return nil }

func (m *MockPredictionStore) ActiveExists(ctx context.Context, playerID, statType string, lineScore float64, week int) (bool, error) {
	return false, nil
}

func (m *MockPredictionStore) ListOpportunities(ctx context.Context, filter models.OpportunityFilter) ([]models.Prediction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockPredictionStore) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	return &models.Player{ID: playerID}, nil
}

func (m *MockPredictionStore) ResolveOutcome(ctx context.Context, id string, actualValue float64) error {
	if m.ResolveOutcomeFunc != nil {
		return m.ResolveOutcomeFunc(ctx, id, actualValue)
	}
	return nil
}

// MockBatchService
type MockBatchService struct {
	GenerateWeeklyFunc func(ctx context.Context, week, season, maxPlayers int) (*models.BatchSummary, error)
}

func (m *MockBatchService) GenerateWeekly(ctx context.Context, week, season, maxPlayers int) (*models.BatchSummary, error) {
	if m.GenerateWeeklyFunc != nil {
		return m.GenerateWeeklyFunc(ctx, week, season, maxPlayers)
	}
	return &models.BatchSummary{}, nil
}

// MockFreshnessService
type MockFreshnessService struct {
	SweepFunc func(ctx context.Context) (*models.SweepResult, error)
	StatsFunc func(ctx context.Context) (*models.FreshnessStats, error)
}

func (m *MockFreshnessService) Sweep(ctx context.Context) (*models.SweepResult, error) {
	if m.SweepFunc != nil {
		return m.SweepFunc(ctx)
	}
	return &models.SweepResult{}, nil
}

func (m *MockFreshnessService) Stats(ctx context.Context) (*models.FreshnessStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.FreshnessStats{}, nil
}

// MockScheduleService
type MockScheduleService struct {
	CurrentStateFunc func(ctx context.Context) (*models.LeagueState, error)
}

func (m *MockScheduleService) ValidateOpponent(ctx context.Context, player *models.Player, claimedOpponent string, week, season int) (*models.ValidatedMatchup, error) {
	return &models.ValidatedMatchup{Opponent: "WSH", Week: 9, Season: 2025}, nil
}

func (m *MockScheduleService) CurrentState(ctx context.Context) (*models.LeagueState, error) {
	if m.CurrentStateFunc != nil {
		return m.CurrentStateFunc(ctx)
	}
	return &models.LeagueState{Season: 2025, Week: 9}, nil
}

// MockIngestQueue implements IngestQueue
type MockIngestQueue struct {
	EnqueueFunc func(sample models.GameSample) bool
	Enqueued    []models.GameSample
}

func (m *MockIngestQueue) Enqueue(sample models.GameSample) bool {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(sample)
	}
	m.Enqueued = append(m.Enqueued, sample)
	return true
}

func (m *MockIngestQueue) QueueDepth() int { return len(m.Enqueued) }
