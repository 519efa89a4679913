package logic

import (
	"fmt"
	"strings"

	"github.com/gridironhq/props-api/internal/models"
)

// buildPredictionPrompt assembles the full analysis prompt sent to the
// reasoning provider. Section order and the JSON output contract are part of
// the response-parsing contract; change them together.
func buildPredictionPrompt(prop models.PropContext, bundle *models.ContextBundle, similar []models.SimilarSituation) string {
	var b strings.Builder

	b.WriteString("You are an expert NFL prop analyzer with deep knowledge of player performance patterns, matchup dynamics, and game contexts.\n\n")
	b.WriteString("Analyze the following prop and provide a detailed prediction with reasoning.\n\n")

	b.WriteString("CURRENT PROP:\n")
	fmt.Fprintf(&b, "Player: %s\n", prop.Player)
	fmt.Fprintf(&b, "Stat Type: %s\n", prop.StatType)
	fmt.Fprintf(&b, "Line: %s\n", trimFloat(prop.Line))
	fmt.Fprintf(&b, "Opponent: %s\n", prop.Opponent)
	fmt.Fprintf(&b, "Game Week: %d\n\n", prop.Week)

	b.WriteString("CURRENT SEASON STATISTICS:\n")
	b.WriteString(formatSeasonStats(bundle.Stats))

	b.WriteString("\nMATCHUP CONTEXT:\n")
	b.WriteString(formatMatchupContext(bundle.Matchup))

	b.WriteString("\nINJURY STATUS:\n")
	b.WriteString(formatInjuryContext(bundle.Injury))

	b.WriteString("\nSIMILAR HISTORICAL GAMES (from semantic search):\n")
	b.WriteString(formatSimilarSituations(similar))

	b.WriteString(`
TASK:
Analyze all the provided context and predict whether this player will go OVER or UNDER the line.

Provide your response in the following JSON format:
{
    "prediction": "OVER" or "UNDER",
    "confidence": <integer 0-100>,
    "projected_value": <your estimated value for this stat>,
    "reasoning": "<detailed multi-paragraph analysis explaining your prediction>",
    "key_factors": ["<factor 1>", "<factor 2>", "<factor 3>"],
    "risk_factors": ["<risk 1>", "<risk 2>"],
    "comparable_game": "<most similar historical game from the list above>"
}

IMPORTANT GUIDELINES:
1. Consider ALL context holistically, not just individual factors
2. Pay special attention to similar historical situations
3. Look for trends in recent performances
4. Consider opponent's defensive strength vs this position
5. Factor in injury status
6. Be honest about uncertainty - lower confidence if data is limited
7. Reference specific similar games when they support your prediction

Return ONLY valid JSON, no additional text before or after.`)

	return b.String()
}

func formatSeasonStats(stats *models.SeasonStats) string {
	if stats == nil {
		return "  No data available\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  Games Played: %d\n", stats.GamesPlayed)
	fmt.Fprintf(&b, "  Avg Per Game: %s\n", trimFloat(stats.AvgPerGame))
	fmt.Fprintf(&b, "  Std Dev: %s\n", trimFloat(stats.StdDev))
	if stats.GamesPlayed > 0 {
		fmt.Fprintf(&b, "  Min: %s\n", trimFloat(stats.Min))
		fmt.Fprintf(&b, "  Max: %s\n", trimFloat(stats.Max))
	}
	if len(stats.Last3Games) > 0 {
		vals := make([]string, 0, len(stats.Last3Games))
		for _, v := range stats.Last3Games {
			vals = append(vals, trimFloat(v))
		}
		fmt.Fprintf(&b, "  Last 3 Games (most recent first): %s\n", strings.Join(vals, ", "))
	}
	return b.String()
}

func formatMatchupContext(mc *models.MatchupContext) string {
	if mc == nil {
		return "  No data available\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  Opponent: %s\n", mc.Opponent)
	fmt.Fprintf(&b, "  Location: %s\n", mc.Location)
	if mc.OpponentRank != nil {
		fmt.Fprintf(&b, "  Opponent Rank Vs Position: %d\n", *mc.OpponentRank)
	}
	if mc.OpponentAvgAllowed != nil {
		fmt.Fprintf(&b, "  Opponent Avg Allowed: %s\n", trimFloat(*mc.OpponentAvgAllowed))
	}
	if mc.VegasLine != nil {
		fmt.Fprintf(&b, "  Vegas Line: %s\n", trimFloat(*mc.VegasLine))
	}
	if mc.OverUnder != nil {
		fmt.Fprintf(&b, "  Over Under: %s\n", trimFloat(*mc.OverUnder))
	}
	return b.String()
}

func formatInjuryContext(ic *models.InjuryContext) string {
	if ic == nil {
		return "  No data available\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  Player Status: %s\n", ic.PlayerStatus)
	if ic.InjuryType != "" {
		fmt.Fprintf(&b, "  Injury Type: %s\n", ic.InjuryType)
	}
	if ic.Description != "" {
		fmt.Fprintf(&b, "  Description: %s\n", ic.Description)
	}
	return b.String()
}

func formatSimilarSituations(similar []models.SimilarSituation) string {
	if len(similar) == 0 {
		return "No similar historical games found\n"
	}

	var b strings.Builder
	for i, s := range similar {
		narrative := s.Narrative
		if len(narrative) > 200 {
			narrative = narrative[:200] + "..."
		}
		fmt.Fprintf(&b, "\n%d. %s (Similarity: %.1f%%)\n", i+1, s.Game, s.SimilarityScore*100)
		fmt.Fprintf(&b, "   Result: %s\n", s.Result)
		fmt.Fprintf(&b, "   %s\n", narrative)
	}
	return b.String()
}
