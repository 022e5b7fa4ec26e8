//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/grinder-console/internal/api/rest"
	"github.com/oshokin/grinder-console/internal/config"
	"github.com/oshokin/grinder-console/internal/logger"
	"github.com/oshokin/grinder-console/internal/repository/session"
)

// Console bundles what every command needs.
type Console struct {
	// Config is the validated settings.
	Config *config.Config
	// Sessions persists the credential.
	Sessions session.Repository
	// Session is the credential the client reads on every call.
	Session *session.Store
	// API is the grinder backend client.
	API *rest.Client
}

// Open loads settings from configPath, restores the saved session and builds
// the REST client. A missing or unreadable session is not an error: calls
// are still sent and the server decides, and login or logout replace the file.
func Open(ctx context.Context, configPath string) (*Console, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	if cfg.LogLevel != "" {
		if err = logger.SetLevelName(cfg.LogLevel); err != nil {
			return nil, err
		}
	}

	sessions := session.NewFileRepository(cfg.SessionFile)

	credential, err := sessions.Load(ctx)
	switch {
	case err == nil:
		warnIfExpired(ctx, credential)
	case errors.Is(err, session.ErrNotFound):
		logger.WarnKV(ctx, "No saved session, requests are sent without a credential", "session_file", cfg.SessionFile)
	case errors.Is(err, session.ErrCorrupt):
		logger.WarnKV(ctx, "Saved session is unreadable, ignoring it", "session_file", cfg.SessionFile, "error", err)

		credential = nil
	default:
		return nil, fmt.Errorf("load session: %w", err)
	}

	store := session.NewStore(credential)

	api, err := rest.New(
		cfg.BaseURL,
		store,
		rest.WithLoginURL(cfg.LoginURL),
		rest.WithCallTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("build client: %w", err)
	}

	return &Console{
		Config:   cfg,
		Sessions: sessions,
		Session:  store,
		API:      api,
	}, nil
}

// warnIfExpired tells the operator early that the server will likely refuse
// the token. The console never refreshes it.
func warnIfExpired(ctx context.Context, credential *session.Credential) {
	expiresAt, ok := credential.ExpiresAt()
	if !ok || time.Now().Before(expiresAt) {
		return
	}

	logger.WarnKV(
		ctx,
		"Saved session looks expired, log in again if requests are refused",
		"user", credential.User.Username,
		"expired_at", expiresAt.Format(time.RFC3339),
	)
}

// Output returns w, or io.Discard when w is nil.
func Output(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}
