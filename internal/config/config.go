package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider     string `yaml:"provider"` // yahoo | alpaca | file
		Symbol       string `yaml:"symbol"`
		Interval     string `yaml:"interval"`  // e.g. 5m
		Range        string `yaml:"range"`     // e.g. 60d
		FilePath     string `yaml:"file_path"` // bar CSV for the file provider
		AlpacaKeyID  string `yaml:"alpaca_key_id"`
		AlpacaSecret string `yaml:"alpaca_secret"`
		AlpacaFeed   string `yaml:"alpaca_feed"`
	} `yaml:"data_source"`
	Output struct {
		Dir     string `yaml:"dir"`
		Binding string `yaml:"binding"` // global JS variable; default <SYMBOL>_DATA
	} `yaml:"output"`
	Session struct {
		Location string `yaml:"location"`
		Open     string `yaml:"open"`  // HH:MM, inclusive
		Close    string `yaml:"close"` // HH:MM, exclusive
		MinBars  int    `yaml:"min_bars"`
	} `yaml:"session"`
	Archive struct {
		Format string `yaml:"format"` // "" | json | csv | parquet
	} `yaml:"archive"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	State struct {
		FilePath string `yaml:"file_path"`
	} `yaml:"state"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"` // empty = run once and exit
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("DATA_FILE"); v != "" {
		cfg.DataSource.FilePath = v
	}
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.DataSource.AlpacaKeyID = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.DataSource.AlpacaSecret = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("SAVE_FORMAT"); v != "" {
		cfg.Archive.Format = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.State.FilePath = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("MIN_BARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.MinBars = n
		}
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "SPY"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "5m"
	}
	if cfg.DataSource.Range == "" {
		cfg.DataSource.Range = "60d"
	}
	if cfg.DataSource.AlpacaFeed == "" {
		cfg.DataSource.AlpacaFeed = "iex"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data"
	}
	if cfg.Session.Location == "" {
		cfg.Session.Location = "America/New_York"
	}
	if cfg.Session.Open == "" {
		cfg.Session.Open = "09:30"
	}
	if cfg.Session.Close == "" {
		cfg.Session.Close = "16:00"
	}
	if cfg.Session.MinBars == 0 {
		// 6.5 hours * 12 bars/hour = 78 bars expected; require at least 70.
		cfg.Session.MinBars = 70
	}
	if cfg.State.FilePath == "" {
		cfg.State.FilePath = filepath.Join(cfg.Output.Dir, "laststate.json")
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "alpaca":
		if c.DataSource.AlpacaKeyID == "" || c.DataSource.AlpacaSecret == "" {
			return fmt.Errorf("data_source: alpaca provider requires alpaca_key_id and alpaca_secret")
		}
	case "file":
		if c.DataSource.FilePath == "" {
			return fmt.Errorf("data_source: file provider requires file_path")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported (yahoo, alpaca, file)", c.DataSource.Provider)
	}
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	if c.Session.MinBars < 0 {
		return fmt.Errorf("session.min_bars must not be negative")
	}
	open, err := time.Parse("15:04", c.Session.Open)
	if err != nil {
		return fmt.Errorf("session.open: %w", err)
	}
	clos, err := time.Parse("15:04", c.Session.Close)
	if err != nil {
		return fmt.Errorf("session.close: %w", err)
	}
	if !open.Before(clos) {
		return fmt.Errorf("session.open %s must be before session.close %s", c.Session.Open, c.Session.Close)
	}
	switch c.Archive.Format {
	case "", "json", "csv", "parquet":
	default:
		return fmt.Errorf("archive.format %q is not supported (json, csv, parquet)", c.Archive.Format)
	}
	return nil
}
