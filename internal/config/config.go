package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"NewsSentinel/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Tickers []string `yaml:"tickers"`
	Source  struct {
		BaseURL     string   `yaml:"base_url"`
		UserAgent   string   `yaml:"user_agent"`
		ContainerID string   `yaml:"container_id"`
		Timezone    string   `yaml:"timezone"`
		DateLayouts []string `yaml:"date_layouts"`
	} `yaml:"source"`
	Pipeline struct {
		FailurePolicy   string `yaml:"failure_policy"`
		Concurrency     int    `yaml:"concurrency"`
		AnnotateWorkers int    `yaml:"annotate_workers"`
	} `yaml:"pipeline"`
	Sentiment struct {
		Backend     string `yaml:"backend"`
		LexiconPath string `yaml:"lexicon_path"`
		Gemini      struct {
			APIKey string `yaml:"api_key"`
			Model  string `yaml:"model"`
		} `yaml:"gemini"`
	} `yaml:"sentiment"`
	Schedule struct {
		Cron       string `yaml:"cron"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Email struct {
		SMTPServer string `yaml:"smtp_server"`
		SMTPPort   int    `yaml:"smtp_port"`
		SMTPUser   string `yaml:"smtp_user"`
		SMTPPass   string `yaml:"smtp_pass"`
		From       string `yaml:"from"`
		To         string `yaml:"to"`
	} `yaml:"email"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging logging.Config `yaml:"logging"`
	Proxy   string         `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults fill the gaps.
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
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers = splitList(v)
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.Source.UserAgent = v
	}
	if v := os.Getenv("FAILURE_POLICY"); v != "" {
		cfg.Pipeline.FailurePolicy = v
	}
	if v := os.Getenv("SENTIMENT_BACKEND"); v != "" {
		cfg.Sentiment.Backend = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Sentiment.Gemini.APIKey = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SMTP_PASS"); v != "" {
		cfg.Email.SMTPPass = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = []string{"AMZN", "GOOG", "FB"}
	}
	if cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = "https://finviz.com/quote.ashx?t="
	}
	if cfg.Source.UserAgent == "" {
		cfg.Source.UserAgent = "my-app"
	}
	if cfg.Source.ContainerID == "" {
		cfg.Source.ContainerID = "news-table"
	}
	if cfg.Source.Timezone == "" {
		cfg.Source.Timezone = "America/New_York"
	}
	if cfg.Pipeline.FailurePolicy == "" {
		cfg.Pipeline.FailurePolicy = "skip"
	}
	if cfg.Pipeline.Concurrency == 0 {
		cfg.Pipeline.Concurrency = 4
	}
	if cfg.Pipeline.AnnotateWorkers == 0 {
		cfg.Pipeline.AnnotateWorkers = 8
	}
	if cfg.Sentiment.Backend == "" {
		cfg.Sentiment.Backend = "lexicon"
	}
	if cfg.Sentiment.Gemini.Model == "" {
		cfg.Sentiment.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.SMTPUser
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers must not be empty")
	}
	seen := make(map[string]bool, len(c.Tickers))
	for _, t := range c.Tickers {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("tickers must not contain blank entries")
		}
		if seen[t] {
			return fmt.Errorf("ticker %q is listed twice", t)
		}
		seen[t] = true
	}
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url is required")
	}
	if _, err := time.LoadLocation(c.Source.Timezone); err != nil {
		return fmt.Errorf("source.timezone: %w", err)
	}
	switch c.Pipeline.FailurePolicy {
	case "abort", "skip":
	default:
		return fmt.Errorf("pipeline.failure_policy must be abort or skip, got %q", c.Pipeline.FailurePolicy)
	}
	if c.Pipeline.Concurrency < 1 {
		return fmt.Errorf("pipeline.concurrency must be positive")
	}
	if c.Pipeline.AnnotateWorkers < 1 {
		return fmt.Errorf("pipeline.annotate_workers must be positive")
	}
	switch c.Sentiment.Backend {
	case "lexicon":
	case "gemini":
		if c.Sentiment.Gemini.APIKey == "" {
			return fmt.Errorf("sentiment.gemini.api_key is required for the gemini backend")
		}
	default:
		return fmt.Errorf("sentiment.backend must be lexicon or gemini, got %q", c.Sentiment.Backend)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Proxy != "" {
		if u, err := url.Parse(c.Proxy); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("proxy must be a URL with scheme and host, got %q", c.Proxy)
		}
	}
	return nil
}

// TelegramEnabled reports whether Telegram delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// EmailEnabled reports whether email delivery is configured.
func (c *Config) EmailEnabled() bool {
	return c.Email.SMTPServer != "" && c.Email.SMTPUser != "" && c.Email.SMTPPass != "" && c.Email.To != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
