package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 30*time.Second, cfg.Automation.PollInterval)
	assert.Equal(t, 60*time.Second, cfg.Automation.ErrorBackoff)
	assert.Equal(t, 100, cfg.Automation.BatchSize)
	assert.Equal(t, "dating", cfg.Hashtags.Theme)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carousel.yaml")

	content := `
data_dir: /var/lib/carousel
listen_addr: 0.0.0.0:9090
automation:
  poll_interval: 10s
  batch_size: 25
device:
  host_url: http://phone-host:4723
  udid: abc-123
hashtags:
  model: gpt-4o
logging:
  level: debug
  json_output: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/carousel", cfg.DataDir)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.Automation.PollInterval)
	assert.Equal(t, 25, cfg.Automation.BatchSize)
	assert.Equal(t, "http://phone-host:4723", cfg.Device.HostURL)
	assert.Equal(t, "abc-123", cfg.Device.UDID)
	assert.Equal(t, "gpt-4o", cfg.Hashtags.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSONOutput)

	// Unset fields keep defaults
	assert.Equal(t, 60*time.Second, cfg.Automation.ErrorBackoff)
	assert.Equal(t, "dating", cfg.Hashtags.Theme)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CAROUSEL_DEVICE_HOST_URL", "http://env-host:4723")
	t.Setenv("CAROUSEL_LOG_LEVEL", "warn")
	t.Setenv("CAROUSEL_POLL_INTERVAL", "5s")

	dir := t.TempDir()
	path := filepath.Join(dir, "carousel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: 127.0.0.1:7000\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env-host:4723", cfg.Device.HostURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 5*time.Second, cfg.Automation.PollInterval)
	assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddr)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"empty videos dir", func(c *Config) { c.VideosDir = "" }},
		{"zero poll interval", func(c *Config) { c.Automation.PollInterval = 0 }},
		{"zero backoff", func(c *Config) { c.Automation.ErrorBackoff = 0 }},
		{"zero batch size", func(c *Config) { c.Automation.BatchSize = 0 }},
		{"empty device host", func(c *Config) { c.Device.HostURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
