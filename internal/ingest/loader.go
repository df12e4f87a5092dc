// Package ingest turns the per-level sheets of the tabular source into a
// normalized Dataset. One bad level never fails the whole load.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"enemyintel/internal/dataset"
	"enemyintel/internal/logging"
	"enemyintel/internal/sheet"
	"enemyintel/internal/stats"
)

// Diagnostic records why a level was skipped.
type Diagnostic struct {
	Level stats.Level
	Err   error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Level, d.Err)
}

// Loader reads a fixed, ordered list of levels.
type Loader struct {
	levels []stats.Level
}

// NewLoader returns a Loader for levels, or for stats.Levels when empty.
func NewLoader(levels []stats.Level) *Loader {
	if len(levels) == 0 {
		levels = stats.Levels
	}
	return &Loader{levels: levels}
}

// Load reads every level from src. Levels that fail are left out of the
// Dataset and reported as diagnostics; levels that parse but keep no rows
// are included with zero records.
func (l *Loader) Load(src sheet.Source) (*dataset.Dataset, []Diagnostic) {
	d := dataset.New()
	var diags []Diagnostic
	for _, level := range l.levels {
		data, err := l.LoadLevel(src, level)
		if err != nil {
			logging.IngestWarn("skipping level %s: %v", level, err)
			diags = append(diags, Diagnostic{Level: level, Err: err})
			continue
		}
		logging.Ingest("loaded %s: %d records, %d columns", level, len(data.Records), len(data.Columns))
		d.Set(level, data)
	}
	return d, diags
}

// LoadLevel reads one level. A panic while parsing is converted to an error.
func (l *Loader) LoadLevel(src sheet.Source, level stats.Level) (data dataset.LevelData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("level %s: parse panic: %v", level, r)
		}
	}()

	rows, err := src.Rows(string(level))
	if errors.Is(err, sheet.ErrSheetNotFound) {
		return dataset.LevelData{}, fmt.Errorf("%w (workbook has: %s)", err, strings.Join(src.Sheets(), ", "))
	}
	if err != nil {
		return dataset.LevelData{}, err
	}
	cols, body, headerRow, err := detectHeader(rows)
	if err != nil {
		return dataset.LevelData{}, err
	}
	logging.IngestDebug("%s: header at row %d: %v", level, headerRow, cols)

	s := newSchema(cols)
	records := make([]stats.EnemyRecord, 0, len(body))
	dropped := 0
	for _, row := range body {
		rec, ok := s.record(row, len(records)+1)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if dropped > 0 {
		logging.IngestDebug("%s: dropped %d rows without a usable name", level, dropped)
	}
	return dataset.LevelData{Columns: cols, Records: records}, nil
}

// LoadWorkbook opens the workbook at path and loads it. When the workbook
// cannot be opened the returned error wraps sheet.ErrSourceUnavailable and
// the Dataset is empty.
func (l *Loader) LoadWorkbook(path string) (*dataset.Dataset, []Diagnostic, error) {
	wb, err := sheet.OpenWorkbook(path)
	if err != nil {
		logging.IngestError("workbook unavailable: %v", err)
		return dataset.New(), nil, err
	}
	defer wb.Close()
	d, diags := l.Load(wb)
	return d, diags, nil
}
