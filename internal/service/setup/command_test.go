package setup

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/grinder-console/internal/config"
)

// TestRun_WritesLoadableSettings writes a file that Load accepts with defaults filled in.
func TestRun_WritesLoadableSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	var out bytes.Buffer

	err := Run(context.Background(), &Options{
		ConfigPath:  path,
		BaseURL:     "http://grinder.local:3000",
		LoginURL:    "http://auth.local:3001",
		SessionFile: filepath.Join(dir, "session.json"),
		LogLevel:    "debug",
		Out:         &out,
	})
	require.NoError(t, err)
	require.Equal(t, "Settings written to "+path+"\n", out.String())
	require.FileExists(t, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://grinder.local:3000", cfg.BaseURL)
	require.Equal(t, "http://auth.local:3001", cfg.LoginURL)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, config.DefaultStateInterval, cfg.StateInterval)
	require.Equal(t, config.DefaultCountInterval, cfg.CountInterval)
	require.Equal(t, config.DefaultTimeout, cfg.Timeout)
}

// TestRun_ExistingFile refuses to overwrite unless forced.
func TestRun_ExistingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	opts := &Options{ConfigPath: path, BaseURL: "http://first.local"}

	require.NoError(t, Run(context.Background(), opts))

	opts.BaseURL = "http://second.local"
	require.ErrorIs(t, Run(context.Background(), opts), errSettingsExist)

	opts.Force = true
	require.NoError(t, Run(context.Background(), opts))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://second.local", cfg.BaseURL)
}

// TestRun_Invalid rejects settings the console could not use.
func TestRun_Invalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	require.Error(t, Run(context.Background(), &Options{ConfigPath: filepath.Join(dir, "a.yaml")}))
	require.Error(t, Run(context.Background(), &Options{
		ConfigPath: filepath.Join(dir, "b.yaml"),
		BaseURL:    "ftp://grinder.local",
	}))
	require.ErrorIs(t, Run(context.Background(), &Options{
		ConfigPath: filepath.Join(dir, "c.yaml"),
		BaseURL:    "http://grinder.local",
		LogLevel:   "loud",
	}), errUnknownLogLevel)

	require.NoFileExists(t, filepath.Join(dir, "a.yaml"))
	require.NoFileExists(t, filepath.Join(dir, "c.yaml"))
}
