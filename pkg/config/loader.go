package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load builds the effective configuration:
//  1. defaults
//  2. YAML file (optional; required to exist only when a path is given)
//  3. environment variable overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		merge(cfg, fileCfg)
	} else if _, err := os.Stat("./carousel.yaml"); err == nil {
		fileCfg, err := loadFile("./carousel.yaml")
		if err != nil {
			return nil, err
		}
		merge(cfg, fileCfg)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// merge copies non-zero fields from src over dst.
func merge(dst, src *Config) {
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
	if src.VideosDir != "" {
		dst.VideosDir = src.VideosDir
	}
	if src.ScreenshotsDir != "" {
		dst.ScreenshotsDir = src.ScreenshotsDir
	}
	if src.ListenAddr != "" {
		dst.ListenAddr = src.ListenAddr
	}
	if src.Automation.PollInterval > 0 {
		dst.Automation.PollInterval = src.Automation.PollInterval
	}
	if src.Automation.ErrorBackoff > 0 {
		dst.Automation.ErrorBackoff = src.Automation.ErrorBackoff
	}
	if src.Automation.BatchSize > 0 {
		dst.Automation.BatchSize = src.Automation.BatchSize
	}
	if src.Device.HostURL != "" {
		dst.Device.HostURL = src.Device.HostURL
	}
	if src.Device.UDID != "" {
		dst.Device.UDID = src.Device.UDID
	}
	if src.Device.RequestTimeout > 0 {
		dst.Device.RequestTimeout = src.Device.RequestTimeout
	}
	if src.Hashtags.APIKey != "" {
		dst.Hashtags.APIKey = src.Hashtags.APIKey
	}
	if src.Hashtags.BaseURL != "" {
		dst.Hashtags.BaseURL = src.Hashtags.BaseURL
	}
	if src.Hashtags.Model != "" {
		dst.Hashtags.Model = src.Hashtags.Model
	}
	if src.Hashtags.Theme != "" {
		dst.Hashtags.Theme = src.Hashtags.Theme
	}
	if src.Hashtags.RequestTimeout > 0 {
		dst.Hashtags.RequestTimeout = src.Hashtags.RequestTimeout
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.JSONOutput {
		dst.Logging.JSONOutput = true
	}
}

// applyEnv overlays environment variables on top of the merged config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("CAROUSEL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CAROUSEL_VIDEOS_DIR"); v != "" {
		cfg.VideosDir = v
	}
	if v := os.Getenv("CAROUSEL_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("CAROUSEL_DEVICE_HOST_URL"); v != "" {
		cfg.Device.HostURL = v
	}
	if v := os.Getenv("CAROUSEL_DEVICE_UDID"); v != "" {
		cfg.Device.UDID = v
	}
	if v := os.Getenv("CAROUSEL_LLM_API_KEY"); v != "" {
		cfg.Hashtags.APIKey = v
	}
	if v := os.Getenv("CAROUSEL_LLM_BASE_URL"); v != "" {
		cfg.Hashtags.BaseURL = v
	}
	if v := os.Getenv("CAROUSEL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CAROUSEL_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Automation.PollInterval = d
		}
	}
}
