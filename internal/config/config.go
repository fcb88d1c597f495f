package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ICSConfig describes one ICS subscription source.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for routing and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name" json:"name"`
}

// GoogleConfig describes one Google account (Calendar and/or Tasks).
type GoogleConfig struct {
	ID string `yaml:"id" json:"id"`

	// CredentialsFile is the OAuth client secrets JSON; TokenFile is the
	// cached user token.
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
	TokenFile       string `yaml:"token_file" json:"token_file"`

	// CalendarID selects the calendar ("primary" when empty).
	CalendarID string `yaml:"calendar_id" json:"calendar_id"`

	// Tasks enables the Google Tasks store for this account.
	Tasks bool `yaml:"tasks" json:"tasks"`
}

// AssistantConfig points at the AI completion backend.
type AssistantConfig struct {
	URL    string `yaml:"url" json:"url"`
	Model  string `yaml:"model" json:"model"`
	Locale string `yaml:"locale" json:"locale"`
	// Coordinates seed location-aware briefings ("lat,lon").
	Coordinates string `yaml:"coordinates" json:"coordinates"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone all calendar math runs in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is the first day of displayed weeks: "monday" or "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is a cron-style schedule (e.g. "*/15 * * * *") for
	// re-pulling all accounts into the snapshot.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// CacheDir holds the ICS fetch cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	ICS       []ICSConfig     `yaml:"ics" json:"ics"`
	Google    []GoogleConfig  `yaml:"google" json:"google"`
	Assistant AssistantConfig `yaml:"assistant" json:"assistant"`

	// BasicAuth, if non-nil, protects all endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		Timezone:    "Local",
		WeekStart:   "monday",
		RefreshCron: "*/15 * * * *",
		CacheDir:    "./var/cache",
		ICS:         []ICSConfig{},
		Google:      []GoogleConfig{},
		Assistant:   AssistantConfig{Locale: "en"},
	}
}

// Normalize fills missing/zero values with defaults so partially-filled
// configs from older versions still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = "monday"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.CacheDir == "" {
		c.CacheDir = "./var/cache"
	}
	if c.Assistant.Locale == "" {
		c.Assistant.Locale = "en"
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	if c.Google == nil {
		c.Google = []GoogleConfig{}
	}
}

// Location resolves the configured timezone, falling back to time.Local
// for empty, "Local" or unknown names.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// WeekStartDay maps the configured week start onto a weekday.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// Load loads configuration from the given YAML path. A missing file is
// created with defaults (0600) on first run.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Return cfg with the error so the caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".daydesk-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save for convenience.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
