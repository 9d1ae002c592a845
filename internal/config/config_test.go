package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isupersid/stalker-test-client/internal/config"
	"github.com/isupersid/stalker-test-client/pkg/constants"
	"github.com/isupersid/stalker-test-client/pkg/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
portal:
  base_url: http://portal.example.com
  timezone: Europe/Kiev
scan:
  pacing_interval: 2s
log:
  level: debug
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://portal.example.com", cfg.Portal.BaseURL)
	assert.Equal(t, "Europe/Kiev", cfg.Portal.Timezone)
	assert.Equal(t, 2*time.Second, cfg.Scan.PacingInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfigFile(t, `
portal:
  base_url: http://portal.example.com
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, constants.DefaultTimezone, cfg.Portal.Timezone)
	assert.Equal(t, constants.DefaultPacingInterval, cfg.Scan.PacingInterval)
	assert.Equal(t, constants.DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Portal.SerialNumber)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("STALKER_PORTAL_BASE_URL", "http://env.example.com")

	path := writeConfigFile(t, `
portal:
  base_url: http://file.example.com
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example.com", cfg.Portal.BaseURL)
}

func TestConfig_ValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing base url", func(c *config.Config) { c.Portal.BaseURL = "" }},
		{"not a url", func(c *config.Config) { c.Portal.BaseURL = "not a url" }},
		{"bad log level", func(c *config.Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Portal.BaseURL = "http://portal.example.com"
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindConfig))
		})
	}
}

func TestLoadConfig_MissingExplicitFileFails(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}
