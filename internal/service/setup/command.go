package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/grinder-console/internal/config"
	"github.com/oshokin/grinder-console/internal/logger"
	"github.com/oshokin/grinder-console/internal/service/common"
)

// Options configures the init command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// BaseURL is the root of the grinder data endpoints.
	BaseURL string
	// LoginURL is the root of the login endpoint, BaseURL when empty.
	LoginURL string
	// SessionFile is where login keeps the credential.
	SessionFile string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// MetricsAddress enables the watch metrics endpoint when set.
	MetricsAddress string
	// Force overwrites an existing settings file.
	Force bool
	// Out receives the confirmation line.
	Out io.Writer
}

var (
	// errSettingsExist is returned when the file exists and Force is not set.
	errSettingsExist = errors.New("settings file already exists, use --force to overwrite it")
	// errUnknownLogLevel is returned for a log level zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Run validates the options and writes them as the settings file. Cadences
// and timeouts are written with their defaults so they can be tuned in place.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "init")

	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if !opts.Force {
		if _, err := os.Stat(filepath.Clean(path)); err == nil {
			return fmt.Errorf("%s: %w", path, errSettingsExist)
		}
	}

	if opts.LogLevel != "" {
		if _, ok := logger.ParseLogLevel(opts.LogLevel); !ok {
			return fmt.Errorf("%w: %q", errUnknownLogLevel, opts.LogLevel)
		}
	}

	cfg := &config.Config{
		BaseURL:        opts.BaseURL,
		LoginURL:       opts.LoginURL,
		SessionFile:    opts.SessionFile,
		LogLevel:       opts.LogLevel,
		MetricsAddress: opts.MetricsAddress,
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Settings written", "path", path, "base_url", cfg.BaseURL, "login_url", cfg.LoginURL)

	_, _ = fmt.Fprintf(common.Output(opts.Out), "Settings written to %s\n", path)

	return nil
}
