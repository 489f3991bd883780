package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.covid19api.com/live/country/united-states", cfg.SourceURL)
	assert.Equal(t, []string{"New York"}, cfg.DefaultRegions)
	assert.Equal(t, 1, cfg.FetchAttempts)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval)
	assert.Equal(t, ":8050", cfg.Addr())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("COVIDDASH_PORT", "9000")
	t.Setenv("COVIDDASH_DEFAULT_REGIONS", "Texas,Ohio")
	t.Setenv("COVIDDASH_REFRESH_INTERVAL", "15m")
	t.Setenv("COVIDDASH_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"Texas", "Ohio"}, cfg.DefaultRegions)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("COVIDDASH_COUNTRY_LABEL=Canada\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("COVIDDASH_COUNTRY_LABEL") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Canada", cfg.CountryLabel)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string][2]string{
		"bad url":      {"COVIDDASH_SOURCE_URL", "not a url"},
		"zero attempt": {"COVIDDASH_FETCH_ATTEMPTS", "0"},
		"bad level":    {"COVIDDASH_LOG_LEVEL", "verbose"},
		"bad port":     {"COVIDDASH_PORT", "70000"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
