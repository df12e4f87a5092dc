package sheet

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Workbook is an xlsx-backed Source.
type Workbook struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens the workbook at path. Any failure, including a missing
// file, wraps ErrSourceUnavailable.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceUnavailable, path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// Rows returns the sheet's cells as stored, without number formatting, so
// "12.5" stays "12.5" even when the cell displays "13".
func (w *Workbook) Rows(sheet string) ([][]string, error) {
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, w.path)
	}
	rows, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (w *Workbook) Sheets() []string {
	return w.file.GetSheetList()
}

func (w *Workbook) Close() error {
	return w.file.Close()
}
