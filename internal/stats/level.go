// Package stats defines the normalized combat-statistics model shared by the
// ingestion, query and advisory layers, together with the sentinel-aware cell
// parsers used to build it.
package stats

import "strings"

// Level identifies one partition of the dataset (one replay cycle).
type Level string

const (
	LevelNG  Level = "NG"
	LevelNG1 Level = "NG+"
	LevelNG2 Level = "NG+2"
	LevelNG3 Level = "NG+3"
	LevelNG4 Level = "NG+4"
	LevelNG5 Level = "NG+5"
	LevelNG6 Level = "NG+6"
	LevelNG7 Level = "NG+7"
)

// Levels is the fixed ingestion order. Sheet names in the source match these
// identifiers exactly.
var Levels = []Level{
	LevelNG, LevelNG1, LevelNG2, LevelNG3,
	LevelNG4, LevelNG5, LevelNG6, LevelNG7,
}

// DefaultLevel is used when a caller does not name one.
const DefaultLevel = LevelNG

// ParseLevel resolves a caller-supplied level identifier. Spaces are read as
// '+' because form encoding turns "NG+2" into "NG 2". An empty string selects
// DefaultLevel.
func ParseLevel(raw string) (Level, bool) {
	if raw == "" {
		return DefaultLevel, true
	}
	normalized := strings.ReplaceAll(raw, " ", "+")
	for _, l := range Levels {
		if string(l) == normalized {
			return l, true
		}
	}
	return "", false
}

func (l Level) String() string { return string(l) }
