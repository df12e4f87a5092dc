// Package query answers lookups against a loaded Dataset: name search,
// exact-name details with every instance, region membership and region
// averages.
package query

import (
	"strings"

	"golang.org/x/text/cases"

	"enemyintel/internal/dataset"
	"enemyintel/internal/logging"
	"enemyintel/internal/stats"
)

// Match is one search_by_name hit.
type Match struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	HP       int    `json:"hp"`
	ID       int    `json:"id"`
}

// RegionMember is one search_by_region hit.
type RegionMember struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Instance is one placement of a named enemy.
type Instance struct {
	Location string `json:"location"`
	HP       int    `json:"hp"`
}

// Details is the canonical record for a name plus all of its instances.
type Details struct {
	ID                int                     `json:"id"`
	Name              string                  `json:"name"`
	Location          string                  `json:"location"`
	HP                int                     `json:"hp"`
	Defense           stats.DamageProfile     `json:"defense"`
	DamageNegation    stats.DamageProfile     `json:"damage_negation"`
	Resistances       stats.Resistances       `json:"resistances"`
	Poise             stats.Poise             `json:"poise"`
	StatusMultipliers stats.StatusMultipliers `json:"status_multipliers"`
	HasWeakSpots      bool                    `json:"has_weak_spots"`
	AllInstances      []Instance              `json:"all_instances"`
}

// folded holds case-folded names and locations, index-aligned with the
// level's records.
type folded struct {
	names     []string
	locations []string
}

// Engine is immutable once built and safe for concurrent use.
type Engine struct {
	data   *dataset.Dataset
	folded map[stats.Level]folded
}

// NewEngine indexes d. d must not be modified afterwards.
func NewEngine(d *dataset.Dataset) *Engine {
	e := &Engine{data: d, folded: make(map[stats.Level]folded)}
	fold := cases.Fold()
	for _, level := range d.Levels() {
		recs := d.Records(level)
		f := folded{names: make([]string, len(recs)), locations: make([]string, len(recs))}
		for i, r := range recs {
			f.names[i] = fold.String(r.Name)
			f.locations[i] = fold.String(r.Location)
		}
		e.folded[level] = f
	}
	return e
}


func foldQuery(s string) string {
	return cases.Fold().String(s)
}

// matching returns indexes of records whose folded field contains the
// folded needle. The match is a literal substring test.
func matching(fields []string, needle string) []int {
	var out []int
	for i, f := range fields {
		if strings.Contains(f, needle) {
			out = append(out, i)
		}
	}
	return out
}

// SearchByName returns every record whose name contains query, ignoring
// case, in dataset order. Duplicated names are all returned.
func (e *Engine) SearchByName(query string, level stats.Level) []Match {
	f, ok := e.folded[level]
	if !ok {
		return []Match{}
	}
	recs := e.data.Records(level)
	idx := matching(f.names, foldQuery(query))
	out := make([]Match, 0, len(idx))
	for _, i := range idx {
		r := recs[i]
		out = append(out, Match{Name: r.Name, Location: r.Location, HP: r.WholeHP(), ID: r.ID})
	}
	logging.QueryDebug("search %q in %s: %d hits", query, level, len(out))
	return out
}

// Details looks a name up exactly (case-sensitive). A non-empty location
// narrows the canonical pick when some exact-name match has it; otherwise
// the first exact-name match is used. AllInstances always lists every
// exact-name match.
func (e *Engine) Details(name string, level stats.Level, location string) (Details, bool) {
	var (
		instances []Instance
		first     = -1
		located   = -1
	)
	recs := e.data.Records(level)
	for i, r := range recs {
		if r.Name != name {
			continue
		}
		if first < 0 {
			first = i
		}
		if location != "" && located < 0 && r.Location == location {
			located = i
		}
		instances = append(instances, Instance{Location: r.Location, HP: r.WholeHP()})
	}
	if first < 0 {
		return Details{}, false
	}
	pick := first
	if located >= 0 {
		pick = located
	}
	r := recs[pick]
	return Details{
		ID:                r.ID,
		Name:              r.Name,
		Location:          r.Location,
		HP:                r.WholeHP(),
		Defense:           r.Defense,
		DamageNegation:    r.DamageNegation,
		Resistances:       r.Resistances,
		Poise:             r.Poise,
		StatusMultipliers: r.StatusMultipliers,
		HasWeakSpots:      r.HasWeakSpots,
		AllInstances:      instances,
	}, true
}

// SearchByRegion returns every record whose location contains region,
// ignoring case.
func (e *Engine) SearchByRegion(region string, level stats.Level) []RegionMember {
	f, ok := e.folded[level]
	if !ok {
		return []RegionMember{}
	}
	recs := e.data.Records(level)
	idx := matching(f.locations, foldQuery(region))
	out := make([]RegionMember, 0, len(idx))
	for _, i := range idx {
		out = append(out, RegionMember{Name: recs[i].Name, Location: recs[i].Location})
	}
	return out
}
