package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/grinder-console/internal/service/login"
)

// passwordEnv is read when --password is not given.
const passwordEnv = "GRINDER_PASSWORD"

var (
	// password for the login command.
	password string

	loginCmd = &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and save the session.",
		Long: `Exchanges a username and password for a session token and saves it to the
session file from the configuration. The username defaults to the local system
user, the password may also come from the ` + passwordEnv + ` environment variable.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := notifyContext()
			defer stop()

			var username string
			if len(args) > 0 {
				username = args[0]
			}

			secret := password
			if secret == "" {
				secret = os.Getenv(passwordEnv)
			}

			return login.Run(ctx, &login.Options{
				ConfigPath: configPath,
				Username:   username,
				Password:   secret,
				Out:        cmd.OutOrStdout(),
			})
		},
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := notifyContext()
			defer stop()

			return login.Logout(ctx, &login.Options{
				ConfigPath: configPath,
				Out:        cmd.OutOrStdout(),
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "password, defaults to $"+passwordEnv)
}
