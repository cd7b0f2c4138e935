package session

import (
	"fmt"
	"math"
	"sort"
	"time"

	"ChartFeed/internal/model"
)

const (
	// DefaultLocation is the exchange-local time zone for US equity sessions.
	DefaultLocation = "America/New_York"
	// TimeLayout is the format layout for session open and close bounds.
	TimeLayout = "15:04"
	// DateLayout is the format layout for calendar dates in the session zone.
	DateLayout = "2006-01-02"
	// NaiveLayout is the format layout for zone-less timestamps.
	NaiveLayout = "2006-01-02 15:04:05"
)

// Session represents a regular trading window in a named time zone.
type Session struct {
	loc      *time.Location
	openMin  int // minutes after midnight, inclusive
	closeMin int // minutes after midnight, exclusive
}

// New creates a Session from a zone name and HH:MM open/close bounds.
func New(location, open, close string) (*Session, error) {
	loc, err := time.LoadLocation(location)
	if err != nil {
		return nil, fmt.Errorf("loading location %q: %w", location, err)
	}
	sessionOpen, err := time.Parse(TimeLayout, open)
	if err != nil {
		return nil, fmt.Errorf("parsing session open: %w", err)
	}
	sessionClose, err := time.Parse(TimeLayout, close)
	if err != nil {
		return nil, fmt.Errorf("parsing session close: %w", err)
	}
	s := &Session{
		loc:      loc,
		openMin:  sessionOpen.Hour()*60 + sessionOpen.Minute(),
		closeMin: sessionClose.Hour()*60 + sessionClose.Minute(),
	}
	if s.openMin >= s.closeMin {
		return nil, fmt.Errorf("session open %s must be before close %s", open, close)
	}
	return s, nil
}

// Location returns the session's time zone.
func (s *Session) Location() *time.Location {
	return s.loc
}

// Localize converts a zone-aware time into the session zone, preserving the instant.
func (s *Session) Localize(t time.Time) time.Time {
	return t.In(s.loc)
}

// ParseLocal parses a zone-less timestamp as session-local wall time.
// Bare timestamps are assumed to already be in the session zone, not UTC.
func (s *Session) ParseLocal(value string) (time.Time, error) {
	t, err := time.ParseInLocation(NaiveLayout, value, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing local time %q: %w", value, err)
	}
	return t, nil
}

// InWindow reports whether t falls inside the session window.
// The window is half-open: the open minute is included, the close minute is not.
func (s *Session) InWindow(t time.Time) bool {
	local := t.In(s.loc)
	m := local.Hour()*60 + local.Minute()
	return m >= s.openMin && m < s.closeMin
}

// FilterBars localizes every bar into the session zone and keeps only bars
// whose wall-clock time falls inside the session window. Order is preserved.
func (s *Session) FilterBars(bars []model.Bar) []model.Bar {
	kept := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		local := s.Localize(b.Time)
		if !s.InWindow(local) {
			continue
		}
		b.Time = local
		kept = append(kept, b)
	}
	return kept
}

// GroupByDay partitions bars by their calendar date in the session zone and
// returns one TradingDay per date with at least minBars usable closes, sorted
// ascending by date. Closes within a day are ordered by bar time; bars with a
// missing close (NaN or infinite) are dropped before the length check.
func (s *Session) GroupByDay(bars []model.Bar, minBars int) []model.TradingDay {
	byDate := make(map[string][]model.Bar)
	for _, b := range bars {
		if math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		b.Time = s.Localize(b.Time)
		date := b.Time.Format(DateLayout)
		byDate[date] = append(byDate[date], b)
	}

	dates := make([]string, 0, len(byDate))
	for date, dayBars := range byDate {
		if len(dayBars) >= minBars {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	days := make([]model.TradingDay, 0, len(dates))
	for _, date := range dates {
		dayBars := byDate[date]
		sort.Slice(dayBars, func(i, j int) bool { return dayBars[i].Time.Before(dayBars[j].Time) })
		prices := make([]float64, len(dayBars))
		for i, b := range dayBars {
			prices[i] = b.Close
		}
		days = append(days, model.TradingDay{Date: date, Prices: prices})
	}
	return days
}
