package logic

import (
	"context"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/gridironhq/props-api/internal/models"
)

// MockPgPool implements PgPool for testing
type MockPgPool struct {
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	ExecCalls     int
	QueryCalls    int
	QueryRowCalls int
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	m.QueryCalls++
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return &MockPgRows{}, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.QueryRowCalls++
	if m.QueryRowFunc != nil {
		return m.QueryRowFunc(ctx, sql, args...)
	}
	return &MockPgRow{Error: pgx.ErrNoRows}
}

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecCalls++
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.NewCommandTag("UPDATE 0"), nil
}

// MockPgRow implements pgx.Row with fixed values
type MockPgRow struct {
	Values []any
	Error  error
}

func (m *MockPgRow) Scan(dest ...any) error {
	if m.Error != nil {
		return m.Error
	}
	for i, d := range dest {
		if i < len(m.Values) {
			assign(d, m.Values[i])
		}
	}
	return nil
}

// MockPgRows implements pgx.Rows over a fixed value grid
type MockPgRows struct {
	Rows [][]any
	idx  int
	err  error
}

func (m *MockPgRows) Close()                                       {}
func (m *MockPgRows) Err() error                                   { return m.err }
func (m *MockPgRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *MockPgRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *MockPgRows) Next() bool {
	m.idx++
	return m.idx <= len(m.Rows)
}
func (m *MockPgRows) Scan(dest ...any) error {
	row := m.Rows[m.idx-1]
	for i, d := range dest {
		if i < len(row) {
			assign(d, row[i])
		}
	}
	return nil
}
func (m *MockPgRows) Values() ([]any, error) { return nil, nil }
func (m *MockPgRows) RawValues() [][]byte    { return nil }
func (m *MockPgRows) Conn() *pgx.Conn        { return nil }

// assign copies val into the pointer dest, leaving it zero for nil
func assign(dest any, val any) {
	if val == nil {
		return
	}
	v := reflect.ValueOf(dest).Elem()
	v.Set(reflect.ValueOf(val))
}

// MockRedisClient implements RedisClient with canned results
type MockRedisClient struct {
	GetFunc   func(ctx context.Context, key string) *redis.StringCmd
	SetNXFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd

	SetCalls   int
	SetNXCalls int
	DelCalls   int
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.SetCalls++
	return redis.NewStatusResult("OK", nil)
}

func (m *MockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.SetNXCalls++
	if m.SetNXFunc != nil {
		return m.SetNXFunc(ctx, key, value, expiration)
	}
	return redis.NewBoolResult(true, nil)
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.DelCalls++
	return redis.NewIntResult(1, nil)
}

// MockPredictionStore
type MockPredictionStore struct {
	InsertFunc         func(ctx context.Context, p *models.Prediction) error
	ActiveExistsFunc   func(ctx context.Context, playerID, statType string, lineScore float64, week int) (bool, error)
	GetPlayerFunc      func(ctx context.Context, playerID string) (*models.Player, error)
	ListFunc           func(ctx context.Context, filter models.OpportunityFilter) ([]models.Prediction, error)
	ResolveOutcomeFunc func(ctx context.Context, id string, actualValue float64) error
}

func (m *MockPredictionStore) Insert(ctx context.Context, p *models.Prediction) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, p)
	}
	return nil
}

func (m *MockPredictionStore) ActiveExists(ctx context.Context, playerID, statType string, lineScore float64, week int) (bool, error) {
	if m.ActiveExistsFunc != nil {
		return m.ActiveExistsFunc(ctx, playerID, statType, lineScore, week)
	}
	return false, nil
}

func (m *MockPredictionStore) ListOpportunities(ctx context.Context, filter models.OpportunityFilter) ([]models.Prediction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockPredictionStore) GetPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(ctx, playerID)
	}
	return &models.Player{ID: playerID, Name: "Mock Player", Position: "WR", TeamID: "PHI", Status: "ACTIVE"}, nil
}

func (m *MockPredictionStore) ResolveOutcome(ctx context.Context, id string, actualValue float64) error {
	if m.ResolveOutcomeFunc != nil {
		return m.ResolveOutcomeFunc(ctx, id, actualValue)
	}
	return nil
}

// MockScheduleService
type MockScheduleService struct {
	ValidateOpponentFunc func(ctx context.Context, player *models.Player, claimedOpponent string, week, season int) (*models.ValidatedMatchup, error)
	CurrentStateFunc     func(ctx context.Context) (*models.LeagueState, error)
}

func (m *MockScheduleService) ValidateOpponent(ctx context.Context, player *models.Player, claimedOpponent string, week, season int) (*models.ValidatedMatchup, error) {
	if m.ValidateOpponentFunc != nil {
		return m.ValidateOpponentFunc(ctx, player, claimedOpponent, week, season)
	}
	if week == 0 {
		week = 9
	}
	if season == 0 {
		season = 2025
	}
	return &models.ValidatedMatchup{Opponent: "WSH", Week: week, Season: season}, nil
}

func (m *MockScheduleService) CurrentState(ctx context.Context) (*models.LeagueState, error) {
	if m.CurrentStateFunc != nil {
		return m.CurrentStateFunc(ctx)
	}
	return &models.LeagueState{Season: 2025, Week: 9}, nil
}

// MockStatsService
type MockStatsService struct {
	SeasonStatsFunc func(ctx context.Context, playerID, statType string, season int) (*models.SeasonStats, error)
}

func (m *MockStatsService) SeasonStats(ctx context.Context, playerID, statType string, season int) (*models.SeasonStats, error) {
	if m.SeasonStatsFunc != nil {
		return m.SeasonStatsFunc(ctx, playerID, statType, season)
	}
	return &models.SeasonStats{Season: season, Last3Games: []float64{}}, nil
}

// MockMatchupService
type MockMatchupService struct {
	MatchupContextFunc func(ctx context.Context, player *models.Player, opponent string) (*models.MatchupContext, error)
	InjuryContextFunc  func(ctx context.Context, playerID string) (*models.InjuryContext, error)
}

func (m *MockMatchupService) MatchupContext(ctx context.Context, player *models.Player, opponent string) (*models.MatchupContext, error) {
	if m.MatchupContextFunc != nil {
		return m.MatchupContextFunc(ctx, player, opponent)
	}
	return &models.MatchupContext{Opponent: opponent, Location: "Unknown"}, nil
}

func (m *MockMatchupService) InjuryContext(ctx context.Context, playerID string) (*models.InjuryContext, error) {
	if m.InjuryContextFunc != nil {
		return m.InjuryContextFunc(ctx, playerID)
	}
	return &models.InjuryContext{PlayerStatus: "ACTIVE"}, nil
}

// MockRetrievalService
type MockRetrievalService struct {
	FindSimilarFunc func(ctx context.Context, player *models.Player, statType string, bundle *models.ContextBundle) ([]models.SimilarSituation, error)
}

func (m *MockRetrievalService) FindSimilar(ctx context.Context, player *models.Player, statType string, bundle *models.ContextBundle) ([]models.SimilarSituation, error) {
	if m.FindSimilarFunc != nil {
		return m.FindSimilarFunc(ctx, player, statType, bundle)
	}
	return nil, nil
}

// MockReasoningService
type MockReasoningService struct {
	PredictPropFunc func(ctx context.Context, prop models.PropContext, bundle *models.ContextBundle, similar []models.SimilarSituation) (*models.ReasoningResult, error)
}

func (m *MockReasoningService) PredictProp(ctx context.Context, prop models.PropContext, bundle *models.ContextBundle, similar []models.SimilarSituation) (*models.ReasoningResult, error) {
	if m.PredictPropFunc != nil {
		return m.PredictPropFunc(ctx, prop, bundle, similar)
	}
	return &models.ReasoningResult{
		Prediction:     models.DirectionOver,
		Confidence:     72,
		ProjectedValue: 88.5,
		Reasoning:      "mock reasoning",
	}, nil
}

// MockPredictorService
type MockPredictorService struct {
	PredictFunc  func(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error)
	PredictCalls int
}

func (m *MockPredictorService) Predict(ctx context.Context, req models.PredictionRequest) (*models.Prediction, error) {
	m.PredictCalls++
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, req)
	}
	return &models.Prediction{ID: "mock-id", PlayerID: req.PlayerID, StatType: req.StatType}, nil
}

// MockReasoner
type MockReasoner struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
	ModelName    string
}

func (m *MockReasoner) Complete(ctx context.Context, prompt string) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "{}", nil
}

func (m *MockReasoner) Model() string {
	if m.ModelName != "" {
		return m.ModelName
	}
	return "mock-model"
}

// MockEmbedder
type MockEmbedder struct {
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// MockVectorIndex
type MockVectorIndex struct {
	SearchFunc func(ctx context.Context, vector []float32, filter models.VectorFilter, limit int, scoreThreshold float64) ([]models.ScoredPerformance, error)
	UpsertFunc func(ctx context.Context, points []models.PerformancePoint) error
}

func (m *MockVectorIndex) Search(ctx context.Context, vector []float32, filter models.VectorFilter, limit int, scoreThreshold float64) ([]models.ScoredPerformance, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, vector, filter, limit, scoreThreshold)
	}
	return nil, nil
}

func (m *MockVectorIndex) Upsert(ctx context.Context, points []models.PerformancePoint) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, points)
	}
	return nil
}
