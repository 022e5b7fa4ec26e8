package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the grinder endpoints and the polling cadences.
type Config struct {
	// BaseURL is the root of the grinder data endpoints.
	BaseURL string `yaml:"base_url"`
	// LoginURL is the root of the login endpoint; it may differ from BaseURL.
	LoginURL string `yaml:"login_url"`
	// SessionFile is where the credential returned by login is kept.
	SessionFile string `yaml:"session_file"`
	// Timeout bounds a single HTTP call; zero disables the bound.
	Timeout time.Duration `yaml:"timeout"`
	// StateInterval is the grinder state polling period.
	StateInterval time.Duration `yaml:"state_interval"`
	// CountInterval is the alarm count polling period.
	CountInterval time.Duration `yaml:"count_interval"`
	// ResetMessageDuration is how long the reset outcome stays visible.
	ResetMessageDuration time.Duration `yaml:"reset_message_duration"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// MetricsAddress enables the Prometheus endpoint of the watch command when set.
	MetricsAddress string `yaml:"metrics_addr"`
}

const (
	// DefaultConfigFilename is the default filename for console settings.
	DefaultConfigFilename = "grinder-console-settings.yaml"

	// DefaultSessionFilename is the default filename for the saved credential.
	DefaultSessionFilename = "grinder-console-session.json"

	// DefaultTimeout is the default bound for one HTTP call.
	DefaultTimeout = 10 * time.Second

	// DefaultStateInterval is the grinder state polling period.
	DefaultStateInterval = 2 * time.Second

	// DefaultCountInterval is the alarm count polling period.
	DefaultCountInterval = 3 * time.Second

	// DefaultResetMessageDuration is how long a reset outcome is displayed.
	DefaultResetMessageDuration = 3 * time.Second

	// DefaultFilePermissions is the default file permission for settings and sessions.
	DefaultFilePermissions = 0o600
)

// Environment variables overriding file values.
const (
	EnvBaseURL     = "GRINDER_BASE_URL"
	EnvLoginURL    = "GRINDER_LOGIN_URL"
	EnvSessionFile = "GRINDER_SESSION_FILE"
	EnvLogLevel    = "GRINDER_LOG_LEVEL"
	EnvMetricsAddr = "GRINDER_METRICS_ADDR"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBaseURLRequired is returned when the data endpoint root is missing.
	errBaseURLRequired = errors.New("base url must be provided")
	// errNegativeInterval is returned for negative durations.
	errNegativeInterval = errors.New("intervals must not be negative")
)

// Load reads configuration from the provided path, applies environment
// overrides and validates essential fields. A missing file is fine as long as
// the environment supplies the base URL.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Environment only.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	// A missing .env file is the common case.
	_ = godotenv.Load()

	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills in defaults.
func Validate(settings *Config) error {
	if settings.BaseURL == "" {
		return errBaseURLRequired
	}

	if err := checkURL(settings.BaseURL); err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}

	// Login lives on the data host unless configured otherwise.
	if settings.LoginURL == "" {
		settings.LoginURL = settings.BaseURL
	}

	if err := checkURL(settings.LoginURL); err != nil {
		return fmt.Errorf("invalid login url: %w", err)
	}

	if settings.Timeout < 0 || settings.StateInterval < 0 ||
		settings.CountInterval < 0 || settings.ResetMessageDuration < 0 {
		return errNegativeInterval
	}

	if settings.Timeout == 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.StateInterval == 0 {
		settings.StateInterval = DefaultStateInterval
	}

	if settings.CountInterval == 0 {
		settings.CountInterval = DefaultCountInterval
	}

	if settings.ResetMessageDuration == 0 {
		settings.ResetMessageDuration = DefaultResetMessageDuration
	}

	if settings.SessionFile == "" {
		settings.SessionFile = DefaultSessionFilename
	}

	return nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		EnvBaseURL:     &cfg.BaseURL,
		EnvLoginURL:    &cfg.LoginURL,
		EnvSessionFile: &cfg.SessionFile,
		EnvLogLevel:    &cfg.LogLevel,
		EnvMetricsAddr: &cfg.MetricsAddress,
	}

	for key, target := range overrides {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			*target = value
		}
	}
}

func checkURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	return nil
}
