package notifier

import (
	"fmt"
	"strings"

	"ChartFeed/internal/model"
	"ChartFeed/internal/runstate"
)

// FormatRunReport formats a refresh outcome into a Telegram message.
func FormatRunReport(rep *model.RunReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>ChartFeed refresh</b> | %s\n\n", rep.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Symbol: %s via %s\n", rep.Symbol, rep.Provider))

	if rep.Status == model.RunEmpty {
		b.WriteString("\n⚠️ Provider returned no data; published files left untouched\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Bars fetched: %d (in session: %d)\n", rep.BarsFetched, rep.BarsInSession))
	b.WriteString(fmt.Sprintf("Days kept: %d | dropped: %d\n", rep.DaysKept, rep.DaysDropped))
	b.WriteString(fmt.Sprintf("Files written: %d\n", rep.FilesWritten))
	if rep.FirstDate != "" {
		b.WriteString(fmt.Sprintf("Date range: %s to %s\n", rep.FirstDate, rep.LastDate))
	}
	b.WriteString(fmt.Sprintf("\nDone in %.1fs ✅", rep.FinishedAt.Sub(rep.StartedAt).Seconds()))
	return b.String()
}

// FormatStatus formats the last recorded run for display.
func FormatStatus(state *runstate.State) string {
	if state.RunCount == 0 {
		return "📦 <b>ChartFeed status</b>\n\nNo runs recorded yet"
	}

	var b strings.Builder
	b.WriteString("📦 <b>ChartFeed status</b>\n\n")
	b.WriteString(fmt.Sprintf("Last run: %s\n", state.LastRunAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Status: %s\n", state.LastStatus))
	if state.LastError != "" {
		b.WriteString(fmt.Sprintf("Error: %s\n", state.LastError))
	}
	b.WriteString(fmt.Sprintf("Days kept: %d | files written: %d\n", state.DaysKept, state.FilesWritten))
	if state.FirstDate != "" {
		b.WriteString(fmt.Sprintf("Date range: %s to %s\n", state.FirstDate, state.LastDate))
	}
	b.WriteString(fmt.Sprintf("Total runs: %d\n", state.RunCount))
	return b.String()
}
