package stats

import (
	"math"
	"strconv"
	"strings"
)

// Sentinel is the reserved integer that stands for "unknown/absent" in
// resistance columns and for "infinite" in effective poise.
const Sentinel = 999999

// absentMarker is the placeholder dash the source uses for empty stats.
const absentMarker = "-"

func isAbsent(s string) bool {
	return s == "" || s == absentMarker
}

// ParseNumber performs the crude numeric coercion applied to every numeric
// column. It reports false for blanks, the dash placeholder, text, NaN and
// infinities.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if isAbsent(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SafeFloat returns the numeric value of raw or def when the cell is absent,
// a dash, or not a number. It never fails.
func SafeFloat(raw string, def float64) float64 {
	if f, ok := ParseNumber(raw); ok {
		return f
	}
	return def
}

// SafeInt is SafeFloat truncated toward zero. Values outside the int range
// resolve to def.
func SafeInt(raw string, def int) int {
	f, ok := ParseNumber(raw)
	if !ok {
		return def
	}
	n, ok := truncate(f)
	if !ok {
		return def
	}
	return n
}

func truncate(f float64) (int, bool) {
	t := math.Trunc(f)
	if t > math.MaxInt64 || t < math.MinInt64 {
		return 0, false
	}
	return int(t), true
}

// ParseResistance converts a status-resistance cell. The literal "immune"
// (any case) is Immune; absent or unparseable cells are Unknown. The reserved
// Sentinel value itself also reads as Unknown so the two encodings never
// disagree.
func ParseResistance(raw string) Resistance {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unknown
	}
	if strings.EqualFold(s, "immune") {
		return Immune
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ok := ParseNumber(s)
		if !ok {
			return Unknown
		}
		if n, ok = truncate(f); !ok {
			return Unknown
		}
	}
	if n == Sentinel {
		return Unknown
	}
	return Known(n)
}

// ParseEffectivePoise converts an effective-poise cell. "∞" and "inf" (any
// case) are InfinitePoise; absent or unparseable cells are 0. Decimal text is
// accepted and truncated.
func ParseEffectivePoise(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if s == "∞" || strings.EqualFold(s, "inf") {
		return InfinitePoise
	}
	return SafeInt(s, 0)
}
