package collector

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"ChartFeed/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	Client *marketdata.Client
	Feed   string
}

// NewAlpacaFetcher creates a fetcher authenticated with the given API key pair.
// feed selects the data feed ("iex" or "sip"); paper accounts only have iex.
func NewAlpacaFetcher(keyID, secret, feed string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    keyID,
			APISecret: secret,
		}),
		Feed: feed,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// parseTimeFrame converts a Yahoo-style interval string ("5m", "1h", "1d")
// into an Alpaca time frame.
func parseTimeFrame(interval string) (marketdata.TimeFrame, error) {
	var unit marketdata.TimeFrameUnit
	var digits string
	switch {
	case strings.HasSuffix(interval, "m"):
		unit, digits = marketdata.Min, strings.TrimSuffix(interval, "m")
	case strings.HasSuffix(interval, "h"):
		unit, digits = marketdata.Hour, strings.TrimSuffix(interval, "h")
	case strings.HasSuffix(interval, "d"):
		unit, digits = marketdata.Day, strings.TrimSuffix(interval, "d")
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("unsupported interval %q", interval)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return marketdata.TimeFrame{}, fmt.Errorf("unsupported interval %q", interval)
	}
	return marketdata.NewTimeFrame(n, unit), nil
}

// lookbackStart converts a Yahoo-style range string ("60d", "3mo", "1y")
// into the start of the fetch window.
func lookbackStart(now time.Time, rng string) (time.Time, error) {
	var digits string
	var mul func(n int) time.Time
	switch {
	case strings.HasSuffix(rng, "mo"):
		digits = strings.TrimSuffix(rng, "mo")
		mul = func(n int) time.Time { return now.AddDate(0, -n, 0) }
	case strings.HasSuffix(rng, "y"):
		digits = strings.TrimSuffix(rng, "y")
		mul = func(n int) time.Time { return now.AddDate(-n, 0, 0) }
	case strings.HasSuffix(rng, "d"):
		digits = strings.TrimSuffix(rng, "d")
		mul = func(n int) time.Time { return now.AddDate(0, 0, -n) }
	default:
		return time.Time{}, fmt.Errorf("unsupported range %q", rng)
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("unsupported range %q", rng)
	}
	return mul(n), nil
}

func (f *AlpacaFetcher) FetchIntradayBars(symbol, interval, rng string) ([]model.Bar, error) {
	tf, err := parseTimeFrame(interval)
	if err != nil {
		return nil, err
	}
	end := time.Now()
	start, err := lookbackStart(end, rng)
	if err != nil {
		return nil, err
	}

	raw, err := f.Client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: tf,
		Start:     start,
		End:       end,
		Feed:      marketdata.Feed(f.Feed),
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca fetch: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	bars := make([]model.Bar, len(raw))
	for i, ab := range raw {
		bars[i] = model.Bar{
			Time:   ab.Timestamp,
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: float64(ab.Volume),
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
