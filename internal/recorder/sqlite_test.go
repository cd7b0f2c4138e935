package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"ChartFeed/internal/model"
)

func testReport() *model.RunReport {
	now := time.Now()
	return &model.RunReport{
		ID:            uuid.NewString(),
		Symbol:        "SPY",
		Provider:      "yahoo",
		StartedAt:     now.Add(-3 * time.Second),
		FinishedAt:    now,
		BarsFetched:   4680,
		BarsInSession: 4212,
		DaysKept:      54,
		DaysDropped:   2,
		FilesWritten:  54,
		FirstDate:     "2025-04-01",
		LastDate:      "2025-06-27",
		Status:        model.RunOK,
	}
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	rep := testReport()
	if err := r.RecordRun(rep); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	var status, firstDate string
	var barsFetched, daysKept int
	err = r.db.QueryRow(
		"SELECT status, first_date, bars_fetched, days_kept FROM runs WHERE id = ?", rep.ID,
	).Scan(&status, &firstDate, &barsFetched, &daysKept)
	if err != nil {
		t.Fatalf("query run: %v", err)
	}
	if status != "OK" || firstDate != "2025-04-01" || barsFetched != 4680 || daysKept != 54 {
		t.Errorf("stored run = %s/%s/%d/%d", status, firstDate, barsFetched, daysKept)
	}
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	if err := r.RecordRun(testReport()); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopening migrates again without clobbering existing rows.
	r2, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()
	if err := r2.RecordRun(testReport()); err != nil {
		t.Fatalf("RecordRun after reopen: %v", err)
	}

	var count int
	if err := r2.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 runs, got %d", count)
	}
}
