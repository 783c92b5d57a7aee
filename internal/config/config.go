// Package config loads runtime configuration from environment variables.
// Every knob has a default, so a bare environment still yields a usable
// configuration for a dry run.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything a sync run needs.
type Config struct {
	// Source page and schedule selection.
	SourceURL   string `mapstructure:"SOURCE_URL"`
	OutageQueue string `mapstructure:"OUTAGE_QUEUE"`
	Timezone    string `mapstructure:"TZ"`

	// Persistence.
	StateFile string `mapstructure:"STATE_FILE"`

	// Headless browser.
	ChromiumExecutable      string `mapstructure:"CHROMIUM_EXECUTABLE"`
	ChromiumLaunchTimeoutMS int    `mapstructure:"CHROMIUM_LAUNCH_TIMEOUT_MS"`

	// Calendar.
	CalDAVURL      string `mapstructure:"CALDAV_URL"`
	CalDAVUser     string `mapstructure:"CALDAV_USER"`
	CalDAVPassword string `mapstructure:"CALDAV_PASSWORD"`
	CalendarName   string `mapstructure:"CALENDAR_NAME"`
	EventPrefix    string `mapstructure:"EVENT_PREFIX"`

	// E-mail notifications. Empty NotifyEmailTo disables them.
	NotifyEmailTo   string `mapstructure:"NOTIFY_EMAIL_TO"`
	NotifyEmailFrom string `mapstructure:"NOTIFY_EMAIL_FROM"`
	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        int    `mapstructure:"SMTP_PORT"`
	SMTPUser        string `mapstructure:"SMTP_USER"`
	SMTPPassword    string `mapstructure:"SMTP_PASSWORD"`
	SMTPUseTLS      bool   `mapstructure:"SMTP_USE_TLS"`

	// Telegram notifications. Empty TelegramBotToken disables them.
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `mapstructure:"TELEGRAM_CHAT_ID"`

	// Diagnostics.
	LogExtractedEvents bool   `mapstructure:"LOG_EXTRACTED_EVENTS"`
	Env                string `mapstructure:"ENV"`
}

// Load reads the configuration from the environment, applying defaults
// for anything unset.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SOURCE_URL", "https://poweron.loe.lviv.ua/")
	v.SetDefault("OUTAGE_QUEUE", "1")
	v.SetDefault("TZ", "Europe/Kyiv")
	v.SetDefault("STATE_FILE", "/data/state.txt")
	v.SetDefault("CHROMIUM_EXECUTABLE", "/usr/bin/chromium")
	v.SetDefault("CHROMIUM_LAUNCH_TIMEOUT_MS", 180000)
	v.SetDefault("CALDAV_URL", "https://caldav.icloud.com/")
	v.SetDefault("CALDAV_USER", "")
	v.SetDefault("CALDAV_PASSWORD", "")
	v.SetDefault("CALENDAR_NAME", "Power Outage")
	v.SetDefault("EVENT_PREFIX", "Power outage")
	v.SetDefault("NOTIFY_EMAIL_TO", "")
	v.SetDefault("NOTIFY_EMAIL_FROM", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_USE_TLS", true)
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_CHAT_ID", "")
	v.SetDefault("LOG_EXTRACTED_EVENTS", false)
	v.SetDefault("ENV", "development")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	cfg.SourceURL = strings.TrimSpace(cfg.SourceURL)
	cfg.OutageQueue = strings.TrimSpace(cfg.OutageQueue)
	cfg.CalDAVURL = strings.TrimSpace(cfg.CalDAVURL)
	cfg.ChromiumExecutable = strings.TrimSpace(cfg.ChromiumExecutable)

	if cfg.OutageQueue == "" {
		return nil, fmt.Errorf("OUTAGE_QUEUE must not be blank")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("resolving TZ %q: %w", cfg.Timezone, err)
	}
	return &cfg, nil
}

// Location resolves the configured IANA zone name.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// ChromiumLaunchTimeout returns the browser launch budget as a duration.
func (c *Config) ChromiumLaunchTimeout() time.Duration {
	return time.Duration(c.ChromiumLaunchTimeoutMS) * time.Millisecond
}

// EmailEnabled reports whether e-mail notifications are configured.
func (c *Config) EmailEnabled() bool {
	return c.NotifyEmailTo != "" && c.SMTPHost != ""
}

// TelegramEnabled reports whether Telegram notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// IsProduction reports whether the service should use production logging.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}
