package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestWorkbook_Rows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"NG": {
			{"Enemy table"},
			{"Name", "Location", "Health"},
			{"Runebear", "Limgrave", 1834},
			{"Godrick", "Stormveil", 6080.5},
		},
	})

	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"NG"}, wb.Sheets())

	rows, err := wb.Rows("NG")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Name", "Location", "Health"}, rows[1])
	assert.Equal(t, "1834", rows[2][2])
	assert.Equal(t, "6080.5", rows[3][2])
}

func TestWorkbook_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{"NG": {{"Name"}}})
	wb, err := OpenWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Rows("NG+3")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestOpenWorkbook_Unavailable(t *testing.T) {
	_, err := OpenWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestMemory(t *testing.T) {
	m := Memory{"NG+1": {{"Name"}}, "NG": {{"Name"}}}
	assert.Equal(t, []string{"NG", "NG+1"}, m.Sheets())
	_, err := m.Rows("NG+2")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}
