package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ResistanceKind tags the three states a status resistance can be in.
type ResistanceKind uint8

const (
	// ResistanceUnknown means the cell was absent or unparseable.
	ResistanceUnknown ResistanceKind = iota
	// ResistanceKnown carries a numeric threshold.
	ResistanceKnown
	// ResistanceImmune means the status can never be inflicted.
	ResistanceImmune
)

// Resistance is a status-resistance value. On the wire it keeps the legacy
// encoding: a number, the string "Immune", or Sentinel for unknown.
type Resistance struct {
	Kind  ResistanceKind
	Value int
}

var (
	Unknown = Resistance{Kind: ResistanceUnknown}
	Immune  = Resistance{Kind: ResistanceImmune}
)

// Known builds a numeric resistance.
func Known(n int) Resistance {
	return Resistance{Kind: ResistanceKnown, Value: n}
}

// IsKnown reports whether the resistance carries a usable number.
func (r Resistance) IsKnown() bool { return r.Kind == ResistanceKnown }

// IsImmune reports whether the resistance is the Immune marker.
func (r Resistance) IsImmune() bool { return r.Kind == ResistanceImmune }

// Int returns the legacy integer form. Immune and Unknown both map to
// Sentinel; use Kind to tell them apart.
func (r Resistance) Int() int {
	if r.Kind == ResistanceKnown {
		return r.Value
	}
	return Sentinel
}

func (r Resistance) String() string {
	switch r.Kind {
	case ResistanceImmune:
		return "Immune"
	case ResistanceKnown:
		return strconv.Itoa(r.Value)
	default:
		return strconv.Itoa(Sentinel)
	}
}

func (r Resistance) MarshalJSON() ([]byte, error) {
	if r.Kind == ResistanceImmune {
		return []byte(`"Immune"`), nil
	}
	return []byte(strconv.Itoa(r.Int())), nil
}

func (r *Resistance) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ParseResistance(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*r = Unknown
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("resistance: %w", err)
	}
	if n == Sentinel {
		*r = Unknown
		return nil
	}
	*r = Known(n)
	return nil
}
