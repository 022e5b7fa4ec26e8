package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/grinder-console/internal/service/console"
)

var (
	// alarmsCmd groups the one-shot alarm operations.
	alarmsCmd = &cobra.Command{
		Use:   "alarms",
		Short: "List and manage alarms.",
		Long: `One-shot alarm operations. Every mutation refetches the alarm list and the
unacknowledged count and prints them afterwards.`,
	}

	alarmsListCmd = &cobra.Command{
		Use:   "list",
		Short: "Print the alarm panel.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := notifyContext()
			defer stop()

			return console.ListAlarms(ctx, consoleOptions(cmd))
		},
	}

	alarmsCountCmd = &cobra.Command{
		Use:   "count",
		Short: "Print the unacknowledged alarm count.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := notifyContext()
			defer stop()

			return console.AlarmCount(ctx, consoleOptions(cmd))
		},
	}

	alarmsAckCmd = &cobra.Command{
		Use:   "ack <id>",
		Short: "Acknowledge one alarm.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := notifyContext()
			defer stop()

			return console.Acknowledge(ctx, consoleOptions(cmd), args[0])
		},
	}

	alarmsAckAllCmd = &cobra.Command{
		Use:   "ack-all",
		Short: "Acknowledge every alarm.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := notifyContext()
			defer stop()

			return console.AcknowledgeAll(ctx, consoleOptions(cmd))
		},
	}

	alarmsDeleteCmd = &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"del"},
		Short:   "Delete one alarm.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := notifyContext()
			defer stop()

			return console.Delete(ctx, consoleOptions(cmd), args[0])
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	alarmsCmd.AddCommand(alarmsListCmd, alarmsCountCmd, alarmsAckCmd, alarmsAckAllCmd, alarmsDeleteCmd)
}
