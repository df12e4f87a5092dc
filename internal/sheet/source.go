// Package sheet reads the tabular source: one sheet per level, each a grid
// of raw cell strings with the header row somewhere near the top.
package sheet

import (
	"errors"
	"sort"
)

var (
	// ErrSourceUnavailable means the workbook could not be opened at all.
	ErrSourceUnavailable = errors.New("tabular source unavailable")
	// ErrSheetNotFound means the workbook has no sheet with the given name.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Source yields the raw cell grid of a named sheet. Rows may be ragged;
// trailing empty cells are usually omitted.
type Source interface {
	Rows(sheet string) ([][]string, error)
	Sheets() []string
	Close() error
}

// Memory is an in-memory Source keyed by sheet name.
type Memory map[string][][]string

func (m Memory) Rows(sheet string) ([][]string, error) {
	rows, ok := m[sheet]
	if !ok {
		return nil, ErrSheetNotFound
	}
	return rows, nil
}

func (m Memory) Sheets() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (Memory) Close() error { return nil }
