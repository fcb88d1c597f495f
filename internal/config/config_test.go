package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daydesk/internal/config"
)

func TestLoadCreatesDefaultsOnFirstRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "monday", cfg.WeekStart)

	// The file was written with owner-only permissions.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Timezone = "Asia/Seoul"
	cfg.WeekStart = "sunday"
	cfg.ICS = []config.ICSConfig{{ID: "team", URL: "https://calendar.example/team.ics", Name: "Team"}}
	cfg.Google = []config.GoogleConfig{{ID: "work", CredentialsFile: "creds.json", TokenFile: "token.json", Tasks: true}}
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "desk", Password: "secret"}
	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Timezone, loaded.Timezone)
	assert.Equal(t, cfg.WeekStart, loaded.WeekStart)
	assert.Equal(t, cfg.ICS, loaded.ICS)
	assert.Equal(t, cfg.Google, loaded.Google)
	require.NotNil(t, loaded.BasicAuth)
	assert.Equal(t, "desk", loaded.BasicAuth.Username)
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{WeekStart: "someday"}
	cfg.Normalize()
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "monday", cfg.WeekStart)
	assert.Equal(t, "*/15 * * * *", cfg.RefreshCron)
	assert.Equal(t, "en", cfg.Assistant.Locale)
	assert.NotNil(t, cfg.ICS)
	assert.NotNil(t, cfg.Google)
}

func TestLocationFallsBackToLocal(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = "Asia/Seoul"
	assert.Equal(t, "Asia/Seoul", cfg.Location().String())
}

func TestWeekStartDay(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{WeekStart: "sunday"}
	assert.Equal(t, time.Sunday, cfg.WeekStartDay())
	cfg.WeekStart = "monday"
	assert.Equal(t, time.Monday, cfg.WeekStartDay())
}
