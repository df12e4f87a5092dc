// Package dataset holds the normalized level → records mapping and the
// on-disk cache that lets a restart skip ingestion.
package dataset

import "enemyintel/internal/stats"

// LevelData is one ingested level: the normalized source column names, as
// seen after header detection, and the kept records in source order.
type LevelData struct {
	Columns []string            `json:"columns"`
	Records []stats.EnemyRecord `json:"records"`
}

// Dataset maps levels to their data, remembering insertion order. It is
// built once and treated as read-only afterwards.
type Dataset struct {
	order  []stats.Level
	levels map[stats.Level]LevelData
}

// New returns an empty Dataset.
func New() *Dataset {
	return &Dataset{levels: make(map[stats.Level]LevelData)}
}

// Set adds or replaces a level.
func (d *Dataset) Set(level stats.Level, data LevelData) {
	if _, exists := d.levels[level]; !exists {
		d.order = append(d.order, level)
	}
	d.levels[level] = data
}

// Level returns the data for a level.
func (d *Dataset) Level(level stats.Level) (LevelData, bool) {
	if d == nil {
		return LevelData{}, false
	}
	data, ok := d.levels[level]
	return data, ok
}

// Records is shorthand for the records of a level, nil when absent.
func (d *Dataset) Records(level stats.Level) []stats.EnemyRecord {
	data, _ := d.Level(level)
	return data.Records
}

// Levels returns the loaded levels in insertion order.
func (d *Dataset) Levels() []stats.Level {
	if d == nil {
		return nil
	}
	out := make([]stats.Level, len(d.order))
	copy(out, d.order)
	return out
}

// Len is the total record count across all levels.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, data := range d.levels {
		n += len(data.Records)
	}
	return n
}

// Empty reports whether no level holds any record.
func (d *Dataset) Empty() bool { return d.Len() == 0 }
