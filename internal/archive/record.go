package archive

import (
	"math"

	"ChartFeed/internal/model"
)

// Record is the flat row shape written to archive files.
type Record struct {
	Timestamp int64   `json:"t" parquet:"t"`
	Open      float64 `json:"o" parquet:"o"`
	High      float64 `json:"h" parquet:"h"`
	Low       float64 `json:"l" parquet:"l"`
	Close     float64 `json:"c" parquet:"c"`
	Volume    float64 `json:"v" parquet:"v"`
}

// FromBars converts bars to archive records. Bars without a close are
// skipped so every format, JSON included, can encode the result.
func FromBars(bars []model.Bar) []Record {
	records := make([]Record, 0, len(bars))
	for _, b := range bars {
		if math.IsNaN(b.Close) {
			continue
		}
		records = append(records, Record{
			Timestamp: b.Time.Unix(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}
	return records
}
