package logic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/gridironhq/props-api/internal/models"
)

// PerformanceKey is the deterministic composite key for one stored
// performance. The vector point ID is derived from it, so re-ingesting the
// same game overwrites instead of duplicating.
func PerformanceKey(playerID string, season, week int, statType string) string {
	return fmt.Sprintf("%s_%d_week%d_%s", playerID, season, week, statType)
}

// PerformancePointID derives the stable vector index ID for a performance.
func PerformancePointID(playerID string, season, week int, statType string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(PerformanceKey(playerID, season, week, statType))).String()
}

// BuildGameNarrative renders one completed game as the text that gets
// embedded into the retrieval corpus.
func BuildGameNarrative(sample models.GameSample) string {
	location := "Away"
	if sample.Home {
		location = "Home"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Player: %s\n", sample.PlayerName)
	fmt.Fprintf(&b, "Position: %s\n", sample.Position)
	fmt.Fprintf(&b, "Game: Week %d, %d vs %s\n", sample.Week, sample.Season, sample.Opponent)
	fmt.Fprintf(&b, "Date: %s\n", sample.GameDate)
	fmt.Fprintf(&b, "Location: %s\n\n", location)

	b.WriteString("PERFORMANCE:\n")
	b.WriteString(formatStatSummary(sample))

	b.WriteString("\nANALYSIS:\n")
	b.WriteString(analyzePerformance(sample))

	return b.String()
}

// statOrder pins a readable ordering for the common stats; anything else is
// appended alphabetically.
var statOrder = []string{
	"passing_completions", "passing_attempts", "passing_yards", "passing_touchdowns", "interceptions",
	"rushing_attempts", "rushing_yards", "rushing_touchdowns",
	"targets", "receptions", "receiving_yards", "receiving_touchdowns",
	"fantasy_points",
}

func formatStatSummary(sample models.GameSample) string {
	var lines []string
	seen := make(map[string]bool)

	for _, key := range statOrder {
		if v, ok := sample.Stats[key]; ok {
			lines = append(lines, fmt.Sprintf("%s: %s", titleStat(key), trimFloat(v)))
			seen[key] = true
		}
	}

	var extra []string
	for key := range sample.Stats {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		lines = append(lines, fmt.Sprintf("%s: %s", titleStat(key), trimFloat(sample.Stats[key])))
	}

	if len(lines) == 0 {
		return "No recorded stats\n"
	}
	return strings.Join(lines, "\n") + "\n"
}

func analyzePerformance(sample models.GameSample) string {
	var notes []string

	switch sample.Position {
	case "QB":
		if yards, ok := sample.Stats["passing_yards"]; ok {
			switch {
			case yards >= 300:
				notes = append(notes, "Big passing day with 300+ yards.")
			case yards < 175:
				notes = append(notes, "Limited passing production.")
			}
		}
		if ints, ok := sample.Stats["interceptions"]; ok && ints >= 2 {
			notes = append(notes, "Turnover-prone outing.")
		}
	case "RB":
		if yards, ok := sample.Stats["rushing_yards"]; ok && yards >= 100 {
			notes = append(notes, "100+ yard rushing performance.")
		}
		if rec, ok := sample.Stats["receptions"]; ok && rec >= 4 {
			notes = append(notes, "Heavily involved in the passing game.")
		}
	case "WR", "TE":
		targets, hasTargets := sample.Stats["targets"]
		receptions, hasRec := sample.Stats["receptions"]
		if hasTargets && hasRec && targets > 0 {
			rate := receptions / targets * 100
			notes = append(notes, fmt.Sprintf("Caught %s of %s targets (%.0f%%).",
				trimFloat(receptions), trimFloat(targets), rate))
		}
		if yards, ok := sample.Stats["receiving_yards"]; ok && yards >= 100 {
			notes = append(notes, "100+ yard receiving performance.")
		}
	}

	if len(notes) == 0 {
		return "Typical outing for the position."
	}
	return strings.Join(notes, " ")
}

func titleStat(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
