package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Source struct {
		URL         string `yaml:"url"`
		File        string `yaml:"file"`
		Retries     int    `yaml:"retries"`
		RetryBaseMS int    `yaml:"retry_base_ms"`
		SaveOnExit  bool   `yaml:"save_on_exit"`
	} `yaml:"source"`
	Simulation struct {
		RateIntervalMS    int   `yaml:"rate_interval_ms"`
		TrackerIntervalMS int   `yaml:"tracker_interval_ms"`
		MockTxCount       int   `yaml:"mock_tx_count"`
		Seed              int64 `yaml:"seed"`
	} `yaml:"simulation"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	// zero is a meaningful retry count, so its default is set before parsing
	cfg := &Config{}
	cfg.Source.Retries = 3

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
	if v := os.Getenv("VAULTIUM_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("VAULTIUM_STATE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("VAULTIUM_STATE_FILE"); v != "" {
		cfg.Source.File = v
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
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("VAULTIUM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse VAULTIUM_SEED: %w", err)
		}
		cfg.Simulation.Seed = seed
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Source.RetryBaseMS == 0 {
		cfg.Source.RetryBaseMS = 1000
	}
	if cfg.Simulation.RateIntervalMS == 0 {
		cfg.Simulation.RateIntervalMS = 2200
	}
	if cfg.Simulation.TrackerIntervalMS == 0 {
		cfg.Simulation.TrackerIntervalMS = 1500
	}
	if cfg.Simulation.MockTxCount == 0 {
		cfg.Simulation.MockTxCount = 18
	}

	return cfg, nil
}

// Validate checks value ranges. Telegram is optional but needs both fields.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Source.Retries < 0 {
		return fmt.Errorf("source.retries must not be negative")
	}
	if c.Source.RetryBaseMS <= 0 {
		return fmt.Errorf("source.retry_base_ms must be positive")
	}
	if c.Simulation.RateIntervalMS <= 0 || c.Simulation.TrackerIntervalMS <= 0 {
		return fmt.Errorf("simulation intervals must be positive")
	}
	if c.Simulation.MockTxCount < 0 {
		return fmt.Errorf("simulation.mock_tx_count must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Source.SaveOnExit && c.Source.File == "" {
		return fmt.Errorf("source.save_on_exit needs source.file")
	}
	return nil
}

// TelegramEnabled reports whether Telegram notices are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// RateInterval is the rate-drift period.
func (c *Config) RateInterval() time.Duration {
	return time.Duration(c.Simulation.RateIntervalMS) * time.Millisecond
}

// TrackerInterval is the confirmation tracker period.
func (c *Config) TrackerInterval() time.Duration {
	return time.Duration(c.Simulation.TrackerIntervalMS) * time.Millisecond
}

// RetryBase is the first state-load backoff delay.
func (c *Config) RetryBase() time.Duration {
	return time.Duration(c.Source.RetryBaseMS) * time.Millisecond
}
