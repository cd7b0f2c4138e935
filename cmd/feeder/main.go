package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ChartFeed/internal/archive"
	"ChartFeed/internal/collector"
	"ChartFeed/internal/config"
	"ChartFeed/internal/notifier"
	"ChartFeed/internal/publisher"
	"ChartFeed/internal/recorder"
	"ChartFeed/internal/runstate"
	"ChartFeed/internal/scheduler"
	"ChartFeed/internal/session"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ChartFeed starting...")

	// .env is optional; deployments usually set env vars directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded environment from .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init trading session
	sess, err := session.New(cfg.Session.Location, cfg.Session.Open, cfg.Session.Close)
	if err != nil {
		log.Fatalf("[FATAL] init session: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "alpaca":
		fetcher = collector.NewAlpacaFetcher(cfg.DataSource.AlpacaKeyID, cfg.DataSource.AlpacaSecret, cfg.DataSource.AlpacaFeed)
	case "file":
		fetcher = collector.NewFileFetcher(cfg.DataSource.FilePath, sess)
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.Interval, cfg.DataSource.Range)

	// Init publisher
	pub := publisher.NewPublisher(cfg.Output.Dir, cfg.DataSource.Symbol, cfg.Output.Binding)

	// Init archive writer
	var arch *archive.Writer
	if cfg.Archive.Format != "" {
		saver := archive.NewSaver(cfg.Archive.Format)
		if saver == nil {
			log.Fatalf("[FATAL] unsupported archive format: %s", cfg.Archive.Format)
		}
		arch = &archive.Writer{Dir: cfg.Output.Dir, Saver: saver}
		log.Printf("[INFO] archiving enabled: %s", cfg.Archive.Format)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init run state
	rsm, err := runstate.NewManager(cfg.State.FilePath)
	if err != nil {
		log.Fatalf("[FATAL] init run state: %v", err)
	}
	if last := rsm.Get(); last.LastStatus == "FAILED" {
		log.Printf("[WARN] %s", last.Describe(time.Now()))
	} else {
		log.Printf("[INFO] %s", last.Describe(time.Now()))
	}

	// Init Telegram notifier (optional)
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, sess, pub, arch, rec, rsm, tn, cfg.Session.MinBars)

	// No cron spec: run one refresh and exit.
	if cfg.Schedule.RefreshCron == "" {
		if err := sched.RunRefresh(); err != nil {
			log.Fatalf("[FATAL] refresh: %v", err)
		}
		log.Println("[INFO] ChartFeed done")
		return
	}

	// Cron mode: schedule refreshes and serve bot commands until stopped.
	if err := sched.RegisterRefresh(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing refresh now")
		go sched.RunRefreshNow()
	}

	log.Println("[INFO] ChartFeed is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ChartFeed stopped")
}
