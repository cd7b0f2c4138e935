package collector

import (
	"fmt"
	"log"

	"ChartFeed/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars []model.Bar
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntradayBars(_, _, _ string) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars, nil
}

// Collector orchestrates intraday data fetching for a single symbol.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Interval string
	Range    string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, interval, rng string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Interval: interval, Range: rng}
}

// Collect fetches the configured intraday window. It returns no bars and a
// nil error when the provider has nothing for the request; callers decide
// how to handle that.
func (c *Collector) Collect() ([]model.Bar, error) {
	log.Printf("[INFO] Fetching %s bars over %s for %s via %s",
		c.Interval, c.Range, c.Symbol, c.Fetcher.Name())

	bars, err := c.Fetcher.FetchIntradayBars(c.Symbol, c.Interval, c.Range)
	if err != nil {
		return nil, fmt.Errorf("fetch intraday bars: %w", err)
	}
	log.Printf("[INFO] Fetched %d bars for %s", len(bars), c.Symbol)
	return bars, nil
}
