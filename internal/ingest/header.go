package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"enemyintel/internal/stats"
)

// ErrNoNameColumn means no header candidate row produced a Name column.
var ErrNoNameColumn = errors.New("no Name column in any header candidate")

// headerCandidates lists the row indexes tried as the header, in order.
// Titles usually occupy row 0, so row 1 goes first.
var headerCandidates = []int{1, 0, 2}

// detectHeader picks the header row and returns the normalized columns, the
// data rows below it, and the chosen row index.
func detectHeader(rows [][]string) ([]string, [][]string, int, error) {
	for _, idx := range headerCandidates {
		if idx >= len(rows) {
			continue
		}
		cols := normalizeColumns(rows[idx])
		if indexOf(cols, stats.ColumnName) >= 0 {
			return cols, rows[idx+1:], idx, nil
		}
	}
	return nil, nil, -1, fmt.Errorf("%w (tried rows %v)", ErrNoNameColumn, headerCandidates)
}

// normalizeColumns trims every header cell, names blank cells "Unnamed: i"
// and suffixes repeated names with ".1", ".2", ... in order of appearance.
func normalizeColumns(raw []string) []string {
	cols := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	repeats := make(map[string]int)
	for i, cell := range raw {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if used[name] {
			base := name
			for used[name] {
				repeats[base]++
				name = base + "." + strconv.Itoa(repeats[base])
			}
		}
		used[name] = true
		cols[i] = name
	}
	return cols
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}
