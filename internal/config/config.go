package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Symbol  string `yaml:"symbol"`
		Days    int    `yaml:"days"`
		CSVPath string `yaml:"csv_path"` // when set, read the series from a local CSV instead of Yahoo
	} `yaml:"data_source"`
	Schedule struct {
		DailyCron  string `yaml:"daily_cron"`
		WeeklyCron string `yaml:"weekly_cron"`
	} `yaml:"schedule"`
	Profile struct {
		NumBins           int     `yaml:"num_bins"`
		ValueAreaFraction float64 `yaml:"value_area_fraction"`
		HVNThreshold      float64 `yaml:"hvn_threshold"`
		LVNThreshold      float64 `yaml:"lvn_threshold"`
	} `yaml:"profile"`
	Breakout struct {
		Variant          string  `yaml:"variant"` // "continuous" or "split"
		WarmupSize       int     `yaml:"warmup_size"`
		Lookback         int     `yaml:"lookback"`
		Differential     float64 `yaml:"differential"`
		SupportMinWeight float64 `yaml:"support_min_weight"`
	} `yaml:"breakout"`
	Simulation struct {
		Fee                 float64 `yaml:"fee"`
		TrailingFactor      float64 `yaml:"trailing_factor"`
		CutoffPercent       float64 `yaml:"cutoff_percent"`
		MinPointsAfterReset int     `yaml:"min_points_after_reset"`
		MinBarsAfterSell    int     `yaml:"min_bars_after_sell"`
	} `yaml:"simulation"`
	Channels struct {
		MinLength           int     `yaml:"min_length"`
		StartStep           int     `yaml:"start_step"`
		LengthStep          int     `yaml:"length_step"`
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		OverlapThreshold    float64 `yaml:"overlap_threshold"`
		Workers             int     `yaml:"workers"`
	} `yaml:"channels"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment
// variable overrides and defaults. Component-level tuning values keep
// their zero value here; each component applies its own defaults.
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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		cfg.DataSource.CSVPath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("BREAKOUT_VARIANT"); v != "" {
		cfg.Breakout.Variant = v
	}
	if v := os.Getenv("CHANNEL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Channels.Workers = n
		}
	}

	// Defaults
	if cfg.DataSource.Symbol == "" && cfg.DataSource.CSVPath == "" {
		cfg.DataSource.Symbol = "SPX500"
	}
	if cfg.DataSource.Days == 0 {
		cfg.DataSource.Days = 500
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 0 8 * * 6"
	}
	if cfg.Breakout.Variant == "" {
		cfg.Breakout.Variant = "continuous"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/volumescope.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.DataSource.Symbol == "" && c.DataSource.CSVPath == "" {
		return fmt.Errorf("data_source.symbol or data_source.csv_path is required")
	}
	if v := c.Breakout.Variant; v != "continuous" && v != "split" {
		return fmt.Errorf("breakout.variant must be continuous or split, got %q", v)
	}
	if c.Profile.NumBins < 0 {
		return fmt.Errorf("profile.num_bins must not be negative")
	}
	return nil
}
