package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/grinder-console/internal/config"
	"github.com/oshokin/grinder-console/internal/service/console"
	"github.com/oshokin/grinder-console/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// showAlarms keeps the alarm panel open while watching.
	showAlarms bool

	// rootCmd represents the base command, without a subcommand it prints help.
	rootCmd = &cobra.Command{
		Use:   "grinder-console",
		Short: "Operator console for the grinder controller.",
		Long: `Operator console for a remote grinder controller.

Keeps the indicator lamps and the unacknowledged alarm count fresh by polling
the controller, lets the operator acknowledge or delete alarms, and sends the
reset command. Log in once with "grinder-console login", the session is kept
in a local file until "grinder-console logout".`,
		SilenceUsage: true,
	}

	// watchCmd polls the controller until interrupted.
	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch grinder state and alarms.",
		Long: `Polls the grinder state every 2 seconds and the alarm count every 3 seconds,
printing every change. Operator commands are read from standard input, type
"help" to list them. Stops on "quit", SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := notifyContext()
			defer stop()

			return console.Watch(ctx, &console.Options{
				ConfigPath: configPath,
				Out:        cmd.OutOrStdout(),
				In:         cmd.InOrStdin(),
				ShowAlarms: showAlarms,
			})
		},
	}

	// resetCmd sends the reset command once.
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Send the reset command to the grinder.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := notifyContext()
			defer stop()

			return console.Reset(ctx, consoleOptions(cmd))
		},
	}
)

// Execute runs the grinder-console CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// notifyContext is cancelled on SIGTERM or SIGINT.
func notifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

func consoleOptions(cmd *cobra.Command) *console.Options {
	return &console.Options{
		ConfigPath: configPath,
		Out:        cmd.OutOrStdout(),
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	watchCmd.Flags().BoolVarP(&showAlarms, "alarms", "a", false, "keep the alarm panel open")

	rootCmd.AddCommand(initCmd, watchCmd, resetCmd, alarmsCmd, loginCmd, logoutCmd)
}
