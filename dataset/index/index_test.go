package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/YuminosukeSato/synthasl/pkg/errors"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	want := []Record{
		{Path: "A/A_00000.png", Letter: 'A', Distance: 1.0},
		{Path: "A/A_00001.png", Letter: 'A', Distance: 4.123456789012345},
		{Path: "Z/Z_00000.png", Letter: 'Z', Distance: 2.5},
	}

	require.NoError(t, Write(path, want))

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Path, got[i].Path)
		assert.Equal(t, want[i].Letter, got[i].Letter)
		assert.InDelta(t, want[i].Distance, got[i].Distance, 1e-12)
	}
}

func TestWriteHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, Write(path, []Record{{Path: "B/B_00000.png", Letter: 'B', Distance: 3}}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"filepath", "letter", "distance"}, rows[0])
	assert.Equal(t, "B", rows[1][1])
}

func TestWriteHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, Write(path, nil))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriteFailureIsPersistenceError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", DefaultFileName)

	err := Write(path, nil)
	require.Error(t, err)
	var pe *errors.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.xlsx"))
	var pe *errors.PersistenceError
	assert.True(t, errors.As(err, &pe))
}

func TestReadEmptyTable(t *testing.T) {
	path := writeSheet(t, nil)

	_, err := Read(path)
	assert.True(t, errors.Is(err, errors.ErrEmptyIndex))
}

func TestReadMalformedRows(t *testing.T) {
	tests := []struct {
		name  string
		row   []interface{}
		field string
	}{
		{"missing filepath", []interface{}{"", "A", 2.0}, ColumnPath},
		{"missing letter", []interface{}{"A/A_00000.png"}, ColumnLetter},
		{"missing distance", []interface{}{"A/A_00000.png", "A"}, ColumnDistance},
		{"lower case letter", []interface{}{"a/a_00000.png", "a", 2.0}, ColumnLetter},
		{"two letters", []interface{}{"A/A_00000.png", "AB", 2.0}, ColumnLetter},
		{"distance not a number", []interface{}{"A/A_00000.png", "A", "far"}, ColumnDistance},
		{"distance negative", []interface{}{"A/A_00000.png", "A", -1.0}, ColumnDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSheet(t, [][]interface{}{
				{"filepath", "letter", "distance"},
				{"B/B_00000.png", "B", 1.5},
				tt.row,
			})

			_, err := Read(path)
			require.Error(t, err)
			var re *errors.IndexRowError
			require.True(t, errors.As(err, &re), "got %v", err)
			assert.Equal(t, 3, re.Row)
			assert.Equal(t, tt.field, re.Field)
		})
	}
}

func TestReadNormalizesSeparators(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"filepath", "letter", "distance"},
		{" C/C_00003.png ", "C", "2.25"},
	})

	got, err := Read(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "C/C_00003.png", got[0].Path)
	assert.Equal(t, 2.25, got[0].Distance)
}

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(SheetName, cell, &row))
	}
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, f.SaveAs(path))
	_, err := os.Stat(path)
	require.NoError(t, err)
	return path
}
