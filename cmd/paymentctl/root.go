package main

import (
	"github.com/spf13/cobra"

	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

var version = "1.0.0"

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "paymentctl",
		Short: "Operate the payment tracker from the command line",
		Long: `paymentctl checks and loads bulk payment files (.csv, .xlsx) and follows
the payment event stream.

Store, broker and cache settings come from the same environment variables
as the server (DATABASE_URL, DB_DRIVER, KAFKA_BROKERS, NATS_URL, ...).
A .env file in the working directory is loaded when present.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// logs go to stderr, reports to stdout
			if logLevel == "" {
				return nil
			}
			return telemetry.InitTelemetry("paymentctl", "", logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Enable structured logs at this level (debug, info, warn, error)")

	root.AddCommand(newValidateCmd(), newImportCmd(), newWatchCmd())
	return root
}
