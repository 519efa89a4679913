package models

import "time"

// Player is an NFL player tracked for prop predictions.
type Player struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"` // QB, RB, WR, TE
	TeamID   string `json:"team_id"`
	Status   string `json:"status"` // ACTIVE, INACTIVE, INJURED
}

// ScheduledGame is one row of the authoritative schedule. Owned by the
// schedule ingestion job; read-only here.
type ScheduledGame struct {
	ID          string     `json:"id"`
	Season      int        `json:"season"`
	Week        int        `json:"week"`
	GameTime    *time.Time `json:"game_time,omitempty"`
	HomeTeamID  string     `json:"home_team_id"`
	AwayTeamID  string     `json:"away_team_id"`
	IsCompleted bool       `json:"is_completed"`
	VegasLine   *float64   `json:"vegas_line,omitempty"`
	OverUnder   *float64   `json:"over_under,omitempty"`
}

// Descriptor renders the game in "AWAY @ HOME" form for error messages.
func (g ScheduledGame) Descriptor() string {
	return g.AwayTeamID + " @ " + g.HomeTeamID
}

// ValidatedMatchup is the Schedule Validator's successful result: the
// authoritative opponent for the player's team in the current week.
type ValidatedMatchup struct {
	Opponent string        `json:"opponent"`
	Week     int           `json:"week"`
	Season   int           `json:"season"`
	Game     ScheduledGame `json:"game"`
}

// LeagueState is the current scheduling position of the league.
type LeagueState struct {
	Season int `json:"season"`
	Week   int `json:"week"`
}
