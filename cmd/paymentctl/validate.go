package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/akylbek/payment-system/payment-tracker/internal/importer"
	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/payments"
)

type report struct {
	File        string              `json:"file"`
	Accepted    int                 `json:"accepted"`
	DroppedRows []int               `json:"dropped_rows"`
	Issues      []payments.RowIssue `json:"issues"`
	Inserted    int                 `json:"inserted,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var (
		asJSON bool
		today  string
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Normalize a bulk payment file and report what an import would do",
		Long: `validate reads a .csv or .xlsx payment file and runs it through the same
normalization as an import, without touching any store. Rows that would be
dropped and fields that would be nulled are listed; a fatal problem (missing
column, unreadable due_amount) is returned as an error.`,
		Example: `  paymentctl validate payments.csv
  paymentctl validate payments.xlsx --json --today 2024-03-15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseToday(today)
			if err != nil {
				return err
			}
			result, err := normalizeFile(args[0], day)
			if err != nil {
				return err
			}
			rep := report{
				File:        filepath.Base(args[0]),
				Accepted:    len(result.Records),
				DroppedRows: result.DroppedRows,
				Issues:      result.Issues,
			}
			return writeReport(cmd.OutOrStdout(), rep, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&today, "today", "", "Date used for status derivation (YYYY-MM-DD, default: today in UTC)")
	return cmd
}

func normalizeFile(path string, today models.Date) (*payments.BatchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	batch, err := importer.Read(path, f)
	if err != nil {
		return nil, err
	}
	return payments.Normalize(batch, today)
}

func parseToday(raw string) (models.Date, error) {
	if raw == "" {
		return models.DateOf(time.Now()), nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid --today %q, use YYYY-MM-DD: %w", raw, err)
	}
	return d, nil
}

func writeReport(w io.Writer, rep report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(w, "%s: %d accepted, %d dropped, %d issues\n", rep.File, rep.Accepted, len(rep.DroppedRows), len(rep.Issues))
	if rep.Inserted > 0 {
		fmt.Fprintf(w, "inserted: %d\n", rep.Inserted)
	}
	for _, line := range rep.DroppedRows {
		fmt.Fprintf(w, "  line %d: dropped, missing mandatory field\n", line)
	}
	for _, issue := range rep.Issues {
		fmt.Fprintf(w, "  line %d: %s %q: %s\n", issue.Row, issue.Field, issue.Value, issue.Reason)
	}
	return nil
}
