package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"ChartFeed/internal/archive"
	"ChartFeed/internal/collector"
	"ChartFeed/internal/model"
	"ChartFeed/internal/notifier"
	"ChartFeed/internal/publisher"
	"ChartFeed/internal/recorder"
	"ChartFeed/internal/runstate"
	"ChartFeed/internal/session"
)

// Scheduler runs the refresh pipeline, either once or on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Session   *session.Session
	Publisher *publisher.Publisher
	Archive   *archive.Writer // nil disables archiving
	Recorder  recorder.Recorder
	RunState  *runstate.Manager
	Notifier  *notifier.TelegramNotifier // nil disables notifications
	MinBars   int
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sess *session.Session,
	pub *publisher.Publisher, arch *archive.Writer, rec recorder.Recorder,
	rs *runstate.Manager, tn *notifier.TelegramNotifier, minBars int) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Session:   sess,
		Publisher: pub,
		Archive:   arch,
		Recorder:  rec,
		RunState:  rs,
		Notifier:  tn,
		MinBars:   minBars,
		Ctx:       ctx,
	}
}

// RegisterRefresh registers the refresh task on a cron spec (with seconds field).
func (s *Scheduler) RegisterRefresh(cronSpec string) error {
	if _, err := s.Cron.AddFunc(cronSpec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

// refreshTask wraps RunRefresh for cron: errors are logged and reported, not fatal.
func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled refresh")
	if err := s.RunRefresh(); err != nil {
		log.Printf("[ERROR] refresh: %v", err)
		s.RunState.RecordFailure(err)
		s.trySend(fmt.Sprintf("❌ Refresh failed: %v", err))
	}
}

// RunRefresh executes one full refresh: fetch, normalize to the session time
// zone, filter to regular hours, group into complete days, then replace the
// published files. A provider returning no data is not an error: the run is
// reported as empty and the published files are left untouched.
func (s *Scheduler) RunRefresh() error {
	started := time.Now()

	if err := s.Publisher.EnsureDir(); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	bars, err := s.Collector.Collect()
	if err != nil {
		return err
	}

	rep := &model.RunReport{
		ID:          uuid.NewString(),
		Symbol:      s.Collector.Symbol,
		Provider:    s.Collector.Fetcher.Name(),
		StartedAt:   started,
		BarsFetched: len(bars),
	}

	if len(bars) == 0 {
		log.Printf("[WARN] No data returned from %s for %s", rep.Provider, rep.Symbol)
		rep.FinishedAt = time.Now()
		rep.Status = model.RunEmpty
		s.finishRun(rep)
		return nil
	}

	// Archive the window as fetched, before any session filtering.
	if s.Archive != nil {
		if path, err := s.Archive.Archive(s.Collector.Symbol, bars); err != nil {
			log.Printf("[WARN] archive failed: %v", err)
		} else if path != "" {
			log.Printf("[INFO] archived fetched bars to %s", path)
		}
	}

	inSession := s.Session.FilterBars(bars)
	days := s.Session.GroupByDay(inSession, s.MinBars)
	log.Printf("[INFO] Got %d complete trading days", len(days))

	saved, err := s.Publisher.Publish(days)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{})
	for _, b := range inSession {
		seen[b.Time.Format(session.DateLayout)] = struct{}{}
	}

	rep.FinishedAt = time.Now()
	rep.Status = model.RunOK
	rep.BarsInSession = len(inSession)
	rep.DaysKept = len(days)
	rep.DaysDropped = len(seen) - len(days)
	rep.FilesWritten = len(saved)
	if len(days) > 0 {
		rep.FirstDate = days[0].Date
		rep.LastDate = days[len(days)-1].Date
		log.Printf("[INFO] Date range: %s to %s", rep.FirstDate, rep.LastDate)
	}
	s.finishRun(rep)
	return nil
}

// finishRun persists the run outcome and notifies.
func (s *Scheduler) finishRun(rep *model.RunReport) {
	if err := s.Recorder.RecordRun(rep); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	s.RunState.RecordSuccess(rep)
	s.trySend(notifier.FormatRunReport(rep))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/refresh":
		s.refreshTask()
		return ""
	case "/status":
		state := s.RunState.Get()
		return notifier.FormatStatus(&state)
	default:
		return "Available commands:\n• /refresh\n• /status"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
