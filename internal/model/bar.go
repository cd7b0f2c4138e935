package model

import "time"

// Bar represents a single intraday candlestick bar.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TradingDay holds the ordered regular-session closing prices for one calendar date.
type TradingDay struct {
	Date   string // YYYY-MM-DD in the session time zone
	Prices []float64
}
