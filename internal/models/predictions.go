package models

import "time"

// Prediction direction values returned by the reasoning provider.
const (
	DirectionOver  = "OVER"
	DirectionUnder = "UNDER"
)

// Prediction is a persisted over/under call for one (player, stat, line, week) tuple.
type Prediction struct {
	ID             string  `json:"id"`
	PlayerID       string  `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	PlayerPosition string  `json:"player_position"`
	Team           string  `json:"team"`
	Opponent       string  `json:"opponent"`
	Week           int     `json:"week"`
	Season         int     `json:"season"`

	StatType  string  `json:"stat_type"`
	LineScore float64 `json:"line_score"`

	Prediction     string   `json:"prediction"` // OVER or UNDER
	Confidence     int      `json:"confidence"` // 0-100
	ProjectedValue float64  `json:"projected_value"`
	Edge           float64  `json:"edge"` // projected_value - line_score
	Reasoning      string   `json:"reasoning"`
	KeyFactors     []string `json:"key_factors"`
	RiskFactors    []string `json:"risk_factors"`
	ComparableGame string   `json:"comparable_game,omitempty"`

	// ModelVersion records the reasoning provider model; PipelineVersion is
	// stamped at write time and drives freshness invalidation.
	ModelVersion           string `json:"model_version"`
	PipelineVersion        string `json:"pipeline_version"`
	SimilarSituationsCount int    `json:"similar_situations_count"`

	IsActive   bool `json:"is_active"`
	IsArchived bool `json:"is_archived"`

	// Filled in after the game completes.
	ActualValue *float64   `json:"actual_value,omitempty"`
	WasCorrect  *bool      `json:"was_correct,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`

	GameTime  *time.Time `json:"game_time,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ReasoningResult is the validated structured output of one reasoning call.
type ReasoningResult struct {
	Prediction     string   `json:"prediction" validate:"required,oneof=OVER UNDER"`
	Confidence     int      `json:"confidence" validate:"min=0,max=100"`
	ProjectedValue float64  `json:"projected_value"`
	Reasoning      string   `json:"reasoning" validate:"required"`
	KeyFactors     []string `json:"key_factors"`
	RiskFactors    []string `json:"risk_factors"`
	ComparableGame string   `json:"comparable_game,omitempty"`
	Model          string   `json:"model,omitempty"`
}

// BatchSummary reports the aggregate outcome of one weekly batch run.
type BatchSummary struct {
	PredictionsGenerated int `json:"predictions_generated"`
	PredictionsFailed    int `json:"predictions_failed"`
	MatchupsFound        int `json:"matchups_found"`
	PlayersProcessed     int `json:"players_processed"`
}

// SweepResult reports how many predictions a freshness sweep deactivated, per reason.
type SweepResult struct {
	PastGameTime int `json:"past_game_time"`
	TooOld       int `json:"too_old"`
	WrongVersion int `json:"wrong_version"`
	Total        int `json:"total"`
}

// FreshnessStats describes the current staleness profile of active predictions.
type FreshnessStats struct {
	TotalActive    int    `json:"total_active"`
	Fresh          int    `json:"fresh"`
	StaleButActive int    `json:"stale_but_active"`
	PastGameTime   int    `json:"past_game_time"`
	WrongVersion   int    `json:"wrong_version"`
	CurrentVersion string `json:"current_version"`
}
