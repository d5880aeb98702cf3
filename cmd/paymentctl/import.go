package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-tracker/internal/app"
	"github.com/akylbek/payment-system/payment-tracker/internal/config"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

func newImportCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bulk payment file into the configured store",
		Long: `import normalizes a .csv or .xlsx payment file and inserts the surviving
rows in a single transaction. Nothing is inserted when the file has a fatal
problem. A payments.imported event is published when a broker is configured.`,
		Example: `  DB_DRIVER=sqlite DATABASE_URL=payments.db paymentctl import payments.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := application.Service.ImportBatch(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			telemetry.Logger.Info("Import finished", zap.Int("inserted", result.Inserted))

			return writeReport(cmd.OutOrStdout(), report{
				File:        filepath.Base(args[0]),
				Accepted:    result.Inserted,
				DroppedRows: result.DroppedRows,
				Issues:      result.Issues,
				Inserted:    result.Inserted,
			}, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
