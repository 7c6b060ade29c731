// Package csvfile persists the assembled table as a delimited text file.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"merra2-wind-etl/internal/domain"
)

// Writer writes the full row sequence to one destination file. The write is
// all-or-nothing: rows go to a temp file in the destination directory which
// is renamed into place only after a clean flush.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer for the given destination path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Path returns the destination the writer persists to.
func (w *Writer) Path() string { return w.path }

// Write persists the header and all rows. An empty row set still produces a
// header-only table.
func (w *Writer) Write(rows []domain.Row) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".tmp")
	if err != nil {
		return fmt.Errorf("write table %s: %w", w.path, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	cw := csv.NewWriter(tmp)
	if err := cw.Write(domain.Columns); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write table %s: header: %w", w.path, err)
	}
	for i, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write table %s: row %d: %w", w.path, i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write table %s: %w", w.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write table %s: %w", w.path, err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("write table %s: %w", w.path, err)
	}

	w.logger.Info("table written", "path", w.path, "rows", len(rows))
	return nil
}

func record(row domain.Row) []string {
	return []string{
		row.Datetime,
		formatFloat(row.SurfacePressure),
		formatFloat(row.U50),
		formatFloat(row.V50),
		formatFloat(row.Temp2M),
		formatFloat(row.Density50M),
		formatFloat(row.WindSpeed50M),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
