package csvfile

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merra2-wind-etl/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRows() []domain.Row {
	return []domain.Row{
		{
			Datetime:        "2014-01-01 00:30:00",
			SurfacePressure: 101325.0,
			U50:             3.0,
			V50:             4.0,
			Temp2M:          280.0,
			Density50M:      1.2578,
			WindSpeed50M:    5.0,
		},
		{
			Datetime:        "2014-01-01 01:30:00",
			SurfacePressure: 101300.5,
			U50:             -2.25,
			V50:             0.0,
			Temp2M:          279.5,
			Density50M:      1.2581,
			WindSpeed50M:    2.25,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merra2.csv")
	w := NewWriter(path, testLogger())
	rows := testRows()

	require.NoError(t, w.Write(rows))
	assert.Equal(t, path, w.Path())

	records := readCSV(t, path)
	require.Len(t, records, 3, "header plus one record per row")

	assert.Equal(t, domain.Columns, records[0])
	assert.Equal(t, "2014-01-01 00:30:00", records[1][0])
	assert.Equal(t, "2014-01-01 01:30:00", records[2][0])

	// Numeric columns round-trip exactly.
	u, err := strconv.ParseFloat(records[2][2], 64)
	require.NoError(t, err)
	assert.Equal(t, -2.25, u)
	ps, err := strconv.ParseFloat(records[1][1], 64)
	require.NoError(t, err)
	assert.Equal(t, 101325.0, ps)
}

func TestWrite_EmptyRowsStillWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	w := NewWriter(path, testLogger())

	require.NoError(t, w.Write(nil))

	records := readCSV(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, domain.Columns, records[0])
}

func TestWrite_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merra2.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	w := NewWriter(path, testLogger())
	require.NoError(t, w.Write(testRows()[:1]))

	records := readCSV(t, path)
	require.Len(t, records, 2)
}

func TestWrite_UnwritableDestination(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "missing", "merra2.csv"), testLogger())

	err := w.Write(testRows())
	assert.Error(t, err)
}

func TestWrite_FailureLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "merra2.csv")

	w := NewWriter(path, testLogger())
	require.Error(t, w.Write(testRows()))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
