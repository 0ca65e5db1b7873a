package config

import (
	"fmt"
	"time"
)

// Config is the full daemon configuration.
type Config struct {
	// DataDir is where the BoltDB database lives.
	DataDir string `yaml:"data_dir"`

	// VideosDir is where uploaded media files are stored and watched.
	VideosDir string `yaml:"videos_dir"`

	// ScreenshotsDir receives device screenshots.
	ScreenshotsDir string `yaml:"screenshots_dir"`

	// ListenAddr is the REST API bind address.
	ListenAddr string `yaml:"listen_addr"`

	Automation AutomationConfig `yaml:"automation"`
	Device     DeviceConfig     `yaml:"device"`
	Hashtags   HashtagConfig    `yaml:"hashtags"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AutomationConfig tunes the session reconciliation loop.
type AutomationConfig struct {
	// PollInterval is the fixed delay between batch scans.
	PollInterval time.Duration `yaml:"poll_interval"`

	// ErrorBackoff is the longer delay applied after a loop-level error.
	ErrorBackoff time.Duration `yaml:"error_backoff"`

	// BatchSize bounds how many active sessions one tick processes.
	BatchSize int `yaml:"batch_size"`
}

// DeviceConfig points at the phone-automation host.
type DeviceConfig struct {
	// HostURL is the base URL of the automation host driving the phone.
	HostURL string `yaml:"host_url"`

	// UDID optionally pins a specific device.
	UDID string `yaml:"udid"`

	// RequestTimeout caps individual driver calls. UI automation is slow;
	// upload and delete runs take tens of seconds.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// HashtagConfig tunes hashtag generation.
type HashtagConfig struct {
	// APIKey authorizes the text-generation service. Empty disables the
	// generation path; selection degrades to templates and the fallback list.
	APIKey string `yaml:"api_key"`

	// BaseURL of the OpenAI-compatible completion endpoint.
	BaseURL string `yaml:"base_url"`

	// Model names the completion model.
	Model string `yaml:"model"`

	// Theme seeds generation prompts.
	Theme string `yaml:"theme"`

	// RequestTimeout caps generation calls.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// LoggingConfig controls process log output.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	JSONOutput bool   `yaml:"json_output"`
}

// Default returns the configuration used when no file or overrides are
// present.
func Default() *Config {
	return &Config{
		DataDir:        "./carousel-data",
		VideosDir:      "./carousel-data/videos",
		ScreenshotsDir: "./carousel-data/screenshots",
		ListenAddr:     "127.0.0.1:8080",
		Automation: AutomationConfig{
			PollInterval: 30 * time.Second,
			ErrorBackoff: 60 * time.Second,
			BatchSize:    100,
		},
		Device: DeviceConfig{
			HostURL:        "http://localhost:4723",
			RequestTimeout: 5 * time.Minute,
		},
		Hashtags: HashtagConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			Theme:          "dating",
			RequestTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.VideosDir == "" {
		return fmt.Errorf("videos_dir must not be empty")
	}
	if c.Automation.PollInterval <= 0 {
		return fmt.Errorf("automation.poll_interval must be positive")
	}
	if c.Automation.ErrorBackoff <= 0 {
		return fmt.Errorf("automation.error_backoff must be positive")
	}
	if c.Automation.BatchSize <= 0 {
		return fmt.Errorf("automation.batch_size must be positive")
	}
	if c.Device.HostURL == "" {
		return fmt.Errorf("device.host_url must not be empty")
	}
	return nil
}
