package collector

import "ChartFeed/internal/model"

// Fetcher defines the interface for fetching intraday market data.
type Fetcher interface {
	// FetchIntradayBars returns bars for the symbol over the lookback range at
	// the given sampling interval (Yahoo-style strings, e.g. "5m" and "60d").
	// A nil error with no bars means the provider has no data for the request.
	FetchIntradayBars(symbol, interval, rng string) ([]model.Bar, error)
	Name() string
}
