package collector

import (
	"errors"
	"testing"
	"time"

	"ChartFeed/internal/model"
)

func TestCollector_CollectPassesThrough(t *testing.T) {
	want := []model.Bar{
		{Time: time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC), Close: 591.1},
		{Time: time.Date(2025, 6, 2, 13, 35, 0, 0, time.UTC), Close: 591.2},
	}
	c := NewCollector(&MockFetcher{Bars: want}, "SPY", "5m", "60d")

	got, err := c.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d bars, got %d", len(want), len(got))
	}
	if got[0].Close != 591.1 {
		t.Errorf("got[0].Close = %v", got[0].Close)
	}
}

func TestCollector_CollectWrapsError(t *testing.T) {
	boom := errors.New("boom")
	c := NewCollector(&MockFetcher{Err: boom}, "SPY", "5m", "60d")

	if _, err := c.Collect(); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestCollector_CollectEmpty(t *testing.T) {
	c := NewCollector(&MockFetcher{}, "SPY", "5m", "60d")

	bars, err := c.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(bars) != 0 {
		t.Fatalf("expected no bars, got %d", len(bars))
	}
}
