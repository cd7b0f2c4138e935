package collector

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"ChartFeed/internal/model"
	"ChartFeed/internal/session"
)

// FileFetcher implements Fetcher by replaying bars from a CSV file, for
// development and backfill runs without a live provider. Rows are
// "time,open,high,low,close,volume"; timestamps carry no zone and are read
// as session-local wall time, not UTC.
type FileFetcher struct {
	Path string
	Sess *session.Session
}

// NewFileFetcher creates a fetcher that reads bars from path.
func NewFileFetcher(path string, sess *session.Session) *FileFetcher {
	return &FileFetcher{Path: path, Sess: sess}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchIntradayBars(_, _, _ string) ([]model.Bar, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open bar file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read bar file: %w", err)
	}

	bars := make([]model.Bar, 0, len(rows))
	for i, row := range rows {
		if i == 0 && row[0] == "time" {
			continue // header row
		}
		if len(row) != 6 {
			return nil, fmt.Errorf("bar file row %d: expected 6 columns, got %d", i+1, len(row))
		}
		ts, err := f.Sess.ParseLocal(row[0])
		if err != nil {
			return nil, fmt.Errorf("bar file row %d: %w", i+1, err)
		}
		vals := make([]float64, 5)
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("bar file row %d: %w", i+1, err)
			}
			vals[j] = v
		}
		bars = append(bars, model.Bar{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
