package collector

import (
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

func TestParseTimeFrame(t *testing.T) {
	tests := []struct {
		interval string
		want     marketdata.TimeFrame
		wantErr  bool
	}{
		{interval: "5m", want: marketdata.NewTimeFrame(5, marketdata.Min)},
		{interval: "1m", want: marketdata.NewTimeFrame(1, marketdata.Min)},
		{interval: "1h", want: marketdata.NewTimeFrame(1, marketdata.Hour)},
		{interval: "1d", want: marketdata.NewTimeFrame(1, marketdata.Day)},
		{interval: "", wantErr: true},
		{interval: "m", wantErr: true},
		{interval: "0m", wantErr: true},
		{interval: "5x", wantErr: true},
		{interval: "-5m", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseTimeFrame(tt.interval)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseTimeFrame(%q): expected error", tt.interval)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseTimeFrame(%q): %v", tt.interval, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseTimeFrame(%q) = %+v, want %+v", tt.interval, got, tt.want)
		}
	}
}

func TestLookbackStart(t *testing.T) {
	now := time.Date(2025, 6, 27, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		rng     string
		want    time.Time
		wantErr bool
	}{
		{rng: "60d", want: now.AddDate(0, 0, -60)},
		{rng: "1d", want: now.AddDate(0, 0, -1)},
		{rng: "3mo", want: now.AddDate(0, -3, 0)},
		{rng: "1y", want: now.AddDate(-1, 0, 0)},
		{rng: "", wantErr: true},
		{rng: "60", wantErr: true},
		{rng: "d", wantErr: true},
		{rng: "0d", wantErr: true},
	}
	for _, tt := range tests {
		got, err := lookbackStart(now, tt.rng)
		if tt.wantErr {
			if err == nil {
				t.Errorf("lookbackStart(%q): expected error", tt.rng)
			}
			continue
		}
		if err != nil {
			t.Errorf("lookbackStart(%q): %v", tt.rng, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("lookbackStart(%q) = %v, want %v", tt.rng, got, tt.want)
		}
	}
}
