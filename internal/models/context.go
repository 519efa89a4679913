package models

import "time"

// SeasonStats summarizes a player's current-season output for one stat type.
// StdDev uses the population formula (divide by N): downstream prompts were
// calibrated against it and changing the divisor would change reasoning inputs.
type SeasonStats struct {
	GamesPlayed int       `json:"games_played"`
	AvgPerGame  float64   `json:"avg_per_game"`
	StdDev      float64   `json:"std_dev"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	Last3Games  []float64 `json:"last_3_games"` // most recent first
	Season      int       `json:"season"`
}

// MatchupContext carries opponent-strength and game context for one matchup.
// Rank and AvgAllowed are nil when no defensive aggregate exists; absence
// degrades context quality but never blocks the pipeline.
type MatchupContext struct {
	Opponent           string     `json:"opponent"`
	Location           string     `json:"location"` // Home, Away or Unknown
	Week               int        `json:"week"`
	GameTime           *time.Time `json:"game_time,omitempty"`
	OpponentRank       *int       `json:"opponent_rank_vs_position,omitempty"` // 1-32, 1 = stingiest
	OpponentAvgAllowed *float64   `json:"opponent_avg_allowed,omitempty"`
	VegasLine          *float64   `json:"vegas_line,omitempty"`
	OverUnder          *float64   `json:"over_under,omitempty"`
}

// InjuryContext carries availability status for the subject player.
type InjuryContext struct {
	PlayerStatus string `json:"player_status"` // ACTIVE, QUESTIONABLE, OUT, IR, UNKNOWN
	InjuryType   string `json:"injury_type,omitempty"`
	Description  string `json:"description,omitempty"`
}

// ContextBundle is the transient context assembled fresh for each prediction
// request. It is never persisted directly.
type ContextBundle struct {
	Stats   *SeasonStats    `json:"stats"`
	Matchup *MatchupContext `json:"matchup"`
	Injury  *InjuryContext  `json:"injury"`
}

// PropContext identifies the prop being reasoned about.
type PropContext struct {
	Player   string  `json:"player"`
	StatType string  `json:"stat_type"`
	Line     float64 `json:"line"`
	Opponent string  `json:"opponent"`
	Week     int     `json:"week"`
}
