package login

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/oshokin/grinder-console/internal/logger"
	"github.com/oshokin/grinder-console/internal/service/common"
)

// Options configures the login command.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// Username defaults to the local system user when empty.
	Username string
	// Password is sent as is.
	Password string
	// Out receives the confirmation line.
	Out io.Writer
}

// errPasswordRequired is returned when no password is provided.
var errPasswordRequired = errors.New("password must be provided")

// Run logs in and saves the credential.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "login")

	if opts.Password == "" {
		return errPasswordRequired
	}

	console, err := common.Open(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	username := opts.Username
	if username == "" {
		if username, err = common.DetectOperator(); err != nil {
			return err
		}
	}

	credential, err := console.API.Login(ctx, username, opts.Password)
	if err != nil {
		return err
	}

	if err = console.Sessions.Save(ctx, credential); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	console.Session.Set(credential)

	logger.InfoKV(ctx, "Logged in", "user", credential.User.Username, "session_file", console.Config.SessionFile)

	name := credential.User.Username
	if name == "" {
		name = username
	}

	_, _ = fmt.Fprintf(common.Output(opts.Out), "Logged in as %s\n", name)

	return nil
}

// Logout forgets the saved credential.
func Logout(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "logout")

	console, err := common.Open(ctx, opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = console.Sessions.Remove(ctx); err != nil {
		return err
	}

	console.Session.Clear()

	logger.InfoKV(ctx, "Logged out", "session_file", console.Config.SessionFile)

	_, _ = fmt.Fprintln(common.Output(opts.Out), "Logged out")

	return nil
}
