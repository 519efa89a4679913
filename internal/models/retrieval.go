package models

// PerformancePayload is the metadata stored alongside a narrative vector in
// the index, and returned with every search hit.
type PerformancePayload struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	StatType   string  `json:"stat_type"`
	StatValue  float64 `json:"stat_value"`
	GameDate   string  `json:"game_date"`
	Week       int     `json:"week"`
	Season     int     `json:"season"`
	Opponent   string  `json:"opponent"`
	Narrative  string  `json:"narrative"`
	UniqueKey  string  `json:"unique_key"`
	CreatedAt  string  `json:"created_at"`
}

// ScoredPerformance is one ranked search hit from the vector index.
type ScoredPerformance struct {
	ID      string             `json:"id"`
	Score   float64            `json:"score"`
	Payload PerformancePayload `json:"payload"`
}

// PerformancePoint is one upsert unit for the vector index. ID must be
// deterministic for the (player, season, week, stat) tuple so re-ingesting a
// sample overwrites rather than duplicates.
type PerformancePoint struct {
	ID      string             `json:"id"`
	Vector  []float32          `json:"vector"`
	Payload PerformancePayload `json:"payload"`
}

// VectorFilter restricts a similarity search. Zero values mean no filter.
type VectorFilter struct {
	PlayerID string `json:"player_id,omitempty"`
	StatType string `json:"stat_type,omitempty"`
	Season   int    `json:"season,omitempty"`
}

// SimilarSituation is one retrieved historical performance, formatted for
// prompt assembly.
type SimilarSituation struct {
	ID              string  `json:"id"`
	SimilarityScore float64 `json:"similarity_score"`
	PlayerName      string  `json:"player_name"`
	StatType        string  `json:"stat_type"`
	StatValue       float64 `json:"stat_value"`
	Week            int     `json:"week"`
	Season          int     `json:"season"`
	Opponent        string  `json:"opponent"`
	Narrative       string  `json:"narrative"`
	Game            string  `json:"game"`   // "Week 9, 2025 vs WSH"
	Result          string  `json:"result"` // "87.0 receiving yards"
}

// GameSample is one player's full stat line for one completed game, queued
// for corpus ingestion. Stats holds only recorded values; a stat the feed did
// not report is absent, never zero.
type GameSample struct {
	PlayerID   string             `json:"player_id" validate:"required"`
	PlayerName string             `json:"player_name" validate:"required"`
	Position   string             `json:"position" validate:"required"`
	TeamID     string             `json:"team_id" validate:"required"`
	Season     int                `json:"season" validate:"required,min=2000"`
	Week       int                `json:"week" validate:"required,min=1,max=22"`
	Opponent   string             `json:"opponent" validate:"required"`
	Home       bool               `json:"home"`
	GameDate   string             `json:"game_date" validate:"required"`
	Stats      map[string]float64 `json:"stats" validate:"required,min=1"`
}
