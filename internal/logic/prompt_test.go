package logic

import (
	"strings"
	"testing"

	"github.com/gridironhq/props-api/internal/models"
)

func TestBuildPredictionPrompt(t *testing.T) {
	rank := 5
	prop := models.PropContext{Player: "Test Receiver", StatType: "receiving_yards", Line: 75.5, Opponent: "WSH", Week: 9}
	bundle := &models.ContextBundle{
		Stats: &models.SeasonStats{
			GamesPlayed: 8,
			AvgPerGame:  81.3,
			StdDev:      21.4,
			Min:         45,
			Max:         128,
			Last3Games:  []float64{110, 45, 87},
			Season:      2025,
		},
		Matchup: &models.MatchupContext{Opponent: "WSH", Location: "Home", OpponentRank: &rank},
		Injury:  &models.InjuryContext{PlayerStatus: "QUESTIONABLE", InjuryType: "hamstring"},
	}
	similar := []models.SimilarSituation{
		{
			Game:            "Week 3, 2025 vs DAL",
			Result:          "92 receiving yards",
			SimilarityScore: 0.88,
			Narrative:       strings.Repeat("x", 300),
		},
	}

	prompt := buildPredictionPrompt(prop, bundle, similar)

	for _, section := range []string{
		"CURRENT PROP:",
		"CURRENT SEASON STATISTICS:",
		"MATCHUP CONTEXT:",
		"INJURY STATUS:",
		"SIMILAR HISTORICAL GAMES (from semantic search):",
		"Return ONLY valid JSON",
	} {
		if !strings.Contains(prompt, section) {
			t.Errorf("expected section %q in prompt", section)
		}
	}

	for _, fragment := range []string{
		"Player: Test Receiver",
		"Line: 75.5",
		"Last 3 Games (most recent first): 110, 45, 87",
		"Opponent Rank Vs Position: 5",
		"Player Status: QUESTIONABLE",
		"Week 3, 2025 vs DAL (Similarity: 88.0%)",
		"Result: 92 receiving yards",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("expected %q in prompt", fragment)
		}
	}

	// Long narratives are truncated.
	if !strings.Contains(prompt, strings.Repeat("x", 200)+"...") {
		t.Error("expected narrative truncated to 200 chars")
	}
	if strings.Contains(prompt, strings.Repeat("x", 201)) {
		t.Error("narrative exceeded truncation limit")
	}
}

func TestBuildPredictionPromptEmptyContext(t *testing.T) {
	prompt := buildPredictionPrompt(models.PropContext{Player: "P", StatType: "receptions", Line: 4.5}, &models.ContextBundle{}, nil)

	if !strings.Contains(prompt, "No data available") {
		t.Error("expected missing-context marker")
	}
	if !strings.Contains(prompt, "No similar historical games found") {
		t.Error("expected empty retrieval marker")
	}
}
