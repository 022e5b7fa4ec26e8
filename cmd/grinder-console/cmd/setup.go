package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/grinder-console/internal/service/setup"
)

var (
	// setupOptions collects the init flags.
	setupOptions setup.Options

	initCmd = &cobra.Command{
		Use:   "init <base-url>",
		Short: "Write the settings file.",
		Long: `Writes the settings file named by --config with the grinder base URL and
the default polling cadences. An existing file is kept unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := notifyContext()
			defer stop()

			opts := setupOptions
			opts.ConfigPath = configPath
			opts.BaseURL = args[0]
			opts.Out = cmd.OutOrStdout()

			return setup.Run(ctx, &opts)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := initCmd.Flags()
	flags.StringVar(&setupOptions.LoginURL, "login-url", "", "root of the login endpoint, defaults to the base URL")
	flags.StringVar(&setupOptions.SessionFile, "session-file", "", "where login keeps the credential")
	flags.StringVar(&setupOptions.LogLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&setupOptions.MetricsAddress, "metrics-addr", "", "address of the watch metrics endpoint")
	flags.BoolVarP(&setupOptions.Force, "force", "f", false, "overwrite an existing settings file")
}
