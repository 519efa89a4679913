package models

// PredictionRequest asks for a single prop prediction. Opponent is optional;
// when present it is validated against the schedule, when absent the
// scheduled opponent is resolved automatically. Week and Season select the
// target matchup; zero values target the league's current state.
type PredictionRequest struct {
	PlayerID  string  `json:"player_id" validate:"required"`
	StatType  string  `json:"stat_type" validate:"required"`
	LineScore float64 `json:"line_score" validate:"required,gt=0"`
	Opponent  string  `json:"opponent,omitempty"`
	Week      int     `json:"week,omitempty" validate:"omitempty,min=1,max=22"`
	Season    int     `json:"season,omitempty" validate:"omitempty,min=2000"`
}

// PredictionResponse is the API shape of a generated prediction.
type PredictionResponse struct {
	Prediction *Prediction `json:"prediction"`
}

// OpportunityFilter narrows the active-predictions feed.
type OpportunityFilter struct {
	Position      string  `json:"position,omitempty"`
	StatType      string  `json:"stat_type,omitempty"`
	MinConfidence int     `json:"min_confidence,omitempty"`
	MinEdge       float64 `json:"min_edge,omitempty"`
	Limit         int     `json:"limit,omitempty"`
}

// OutcomeRequest records the observed stat value for a settled prediction.
type OutcomeRequest struct {
	ActualValue float64 `json:"actual_value" validate:"min=0"`
}

// BatchRequest triggers weekly batch generation.
type BatchRequest struct {
	Week       int `json:"week" validate:"required,min=1,max=22"`
	Season     int `json:"season,omitempty"`
	MaxPlayers int `json:"max_players,omitempty"`
}
