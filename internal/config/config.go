package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "lunchbot"

// Environment variables consulted when a credential is missing from the file
const (
	EnvSlackToken     = "SLACK_API_TOKEN"
	EnvFacebookSecret = "FACEBOOK_API_SECRET"
	EnvFacebookID     = "FACEBOOK_API_ID"
)

// Post sources
const (
	SourceGraph  = "graph"
	SourceScrape = "scrape"
)

// Config holds all application configuration
type Config struct {
	Version    int              `toml:"version"`
	General    GeneralConfig    `toml:"general"`
	Facebook   FacebookConfig   `toml:"facebook"`
	Slack      SlackConfig      `toml:"slack"`
	Email      EmailConfig      `toml:"email"`
	Extraction ExtractionConfig `toml:"extraction"`
	Schedule   ScheduleConfig   `toml:"schedule"`
	Store      StoreConfig      `toml:"store"`
}

type GeneralConfig struct {
	LogLevel string `toml:"log_level"`
	Timezone string `toml:"timezone"`
}

type FacebookConfig struct {
	ID           string `toml:"id"`
	Secret       string `toml:"secret"`
	Page         string `toml:"page"`
	Source       string `toml:"source"`
	GraphURL     string `toml:"graph_url"`
	GraphVersion string `toml:"graph_version"`
	Headless     bool   `toml:"headless"`
	Limit        int    `toml:"limit"`
}

type SlackConfig struct {
	Token         string   `toml:"token"`
	Channels      []string `toml:"channels"`
	Username      string   `toml:"username"`
	IconEmoji     string   `toml:"icon_emoji"`
	RatePerSecond float64  `toml:"rate_per_second"`
}

// EmailConfig configures the optional SMTP announcer. It is off unless
// Enabled is set.
type EmailConfig struct {
	Enabled  bool   `toml:"enabled"`
	SMTPHost string `toml:"smtp_host"`
	SMTPPort int    `toml:"smtp_port"`
	SMTPUser string `toml:"smtp_user"`
	SMTPPass string `toml:"smtp_pass"`
	FromAddr string `toml:"from_address"`
	ToAddr   string `toml:"to_address"`
}

type ExtractionConfig struct {
	DailyWindowDays  int `toml:"daily_window_days"`
	WeeklyWindowDays int `toml:"weekly_window_days"`
}

type ScheduleConfig struct {
	Cron       string `toml:"cron"`
	TimeoutMin int    `toml:"timeout_minutes"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Version: 1,
		General: GeneralConfig{
			LogLevel: "INFO",
			Timezone: "Europe/Oslo",
		},
		Facebook: FacebookConfig{
			Page:         "technopolisitfornebu",
			Source:       SourceGraph,
			GraphURL:     "https://graph.facebook.com",
			GraphVersion: "v2.12",
			Headless:     true,
			Limit:        25,
		},
		Slack: SlackConfig{
			Channels:      []string{"lunch", "lunchbotdev"},
			Username:      "lunchbot",
			IconEmoji:     ":spaghetti:",
			RatePerSecond: 1,
		},
		Email: EmailConfig{
			SMTPPort: 587,
		},
		Extraction: ExtractionConfig{
			DailyWindowDays:  10,
			WeeklyWindowDays: 14,
		},
		Schedule: ScheduleConfig{
			Cron:       "0 10 * * 1-5",
			TimeoutMin: 10,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// ConfigPath returns the full path to the config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the directory for step caches and the default database
func CacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, appName), nil
}

// Load reads config from the default location. A missing file is not an
// error: defaults plus environment credentials are returned instead.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path on top of the defaults
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills credentials missing from the file from the environment
func (c *Config) applyEnv() {
	if c.Slack.Token == "" {
		c.Slack.Token = os.Getenv(EnvSlackToken)
	}
	if c.Facebook.Secret == "" {
		c.Facebook.Secret = os.Getenv(EnvFacebookSecret)
	}
	if c.Facebook.ID == "" {
		c.Facebook.ID = os.Getenv(EnvFacebookID)
	}
}

// Validate reports every missing credential in one error. Announcing
// requires a Slack token unless dryRun is set.
func (c *Config) Validate(dryRun bool) error {
	var missing []string
	if !dryRun && c.Slack.Token == "" {
		missing = append(missing, "slack.token ("+EnvSlackToken+")")
	}
	switch c.Facebook.Source {
	case SourceGraph:
		if c.Facebook.ID == "" {
			missing = append(missing, "facebook.id ("+EnvFacebookID+")")
		}
		if c.Facebook.Secret == "" {
			missing = append(missing, "facebook.secret ("+EnvFacebookSecret+")")
		}
	case SourceScrape:
	default:
		return fmt.Errorf("unknown post source: %q", c.Facebook.Source)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration value: %s", strings.Join(missing, ", "))
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", c.General.Timezone, err)
	}
	return loc, nil
}

// StorePath returns the database path, defaulting into the cache directory
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".db"), nil
}

// Save writes config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes config to path, readable by the owner only
func (c *Config) SaveTo(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
