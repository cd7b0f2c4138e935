package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ChartFeed/internal/model"
	"ChartFeed/internal/session"
)

// Saver writes a batch of records to a file in one concrete format.
type Saver interface {
	Save(records []Record, path string) error
	Extension() string
}

// NewSaver returns the Saver for a format (json, csv, parquet), or nil if
// the format is not supported.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONSaver{}
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// Filename builds the archive file name for a symbol and date range,
// e.g. "SPY_2025-04-01_to_2025-06-27.parquet".
func Filename(symbol, from, to, ext string) string {
	return fmt.Sprintf("%s_%s_to_%s.%s", symbol, from, to, ext)
}

// Writer archives fetched windows under <Dir>/archive.
type Writer struct {
	Dir   string
	Saver Saver
}

// Archive writes the bars as one archive file named after the symbol and the
// date range the bars span. It returns the written path, or "" when there is
// nothing to write.
func (w *Writer) Archive(symbol string, bars []model.Bar) (string, error) {
	records := FromBars(bars)
	if len(records) == 0 {
		return "", nil
	}
	dir := filepath.Join(w.Dir, "archive")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	from := bars[0].Time.Format(session.DateLayout)
	to := bars[len(bars)-1].Time.Format(session.DateLayout)
	path := filepath.Join(dir, Filename(symbol, from, to, w.Saver.Extension()))
	if err := w.Saver.Save(records, path); err != nil {
		return "", fmt.Errorf("archive %s: %w", path, err)
	}
	return path, nil
}
