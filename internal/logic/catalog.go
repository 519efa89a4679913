package logic

// TrackedPositions are the positions covered by batch generation.
var TrackedPositions = []string{"QB", "RB", "WR", "TE"}

// NotableProp is one (stat, line) combination worth predicting in batch mode.
type NotableProp struct {
	StatType  string
	LineScore float64
}

// notableProps is the fixed position-keyed catalog of common prop lines.
var notableProps = map[string][]NotableProp{
	"QB": {
		{"passing_yards", 225.5}, {"passing_yards", 250.5}, {"passing_yards", 275.5},
		{"passing_touchdowns", 1.5}, {"passing_touchdowns", 2.5},
		{"interceptions", 0.5}, {"interceptions", 1.5},
	},
	"RB": {
		{"rushing_yards", 50.5}, {"rushing_yards", 75.5}, {"rushing_yards", 100.5},
		{"rushing_touchdowns", 0.5},
		{"receptions", 2.5}, {"receptions", 3.5}, {"receptions", 4.5},
	},
	"WR": {
		{"receiving_yards", 50.5}, {"receiving_yards", 75.5}, {"receiving_yards", 100.5},
		{"receptions", 3.5}, {"receptions", 4.5}, {"receptions", 5.5}, {"receptions", 6.5},
		{"receiving_touchdowns", 0.5},
	},
	"TE": {
		{"receiving_yards", 35.5}, {"receiving_yards", 50.5}, {"receiving_yards", 65.5},
		{"receptions", 2.5}, {"receptions", 3.5}, {"receptions", 4.5},
		{"receiving_touchdowns", 0.5},
	},
}

// PropsForPosition returns the notable-props catalog entries for a position.
// Positions outside the tracked set return nil.
func PropsForPosition(position string) []NotableProp {
	return notableProps[position]
}

// TrackedStatTypes returns the distinct stat types across the catalog. The
// retrieval corpus indexes these; other recorded stats stay queryable in the
// samples store but are not embedded.
func TrackedStatTypes() map[string]bool {
	types := make(map[string]bool)
	for _, props := range notableProps {
		for _, p := range props {
			types[p.StatType] = true
		}
	}
	return types
}
