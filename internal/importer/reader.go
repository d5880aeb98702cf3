package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/akylbek/payment-system/payment-tracker/internal/payments"
)

var errNoHeader = errors.New("file has no header row")

// Read parses an uploaded batch, picking the format from the file extension.
func Read(filename string, r io.Reader) (*payments.Batch, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, payments.Malformed("unsupported import file type %q (expected .csv or .xlsx)", ext)
	}
}

// ReadCSV reads a header row followed by data rows. Blank lines are skipped;
// Row.Line is the line the record starts on.
func ReadCSV(r io.Reader) (*payments.Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, payments.Malformed("%v", errNoHeader)
	}
	if err != nil {
		return nil, payments.Malformed("invalid CSV: %v", err)
	}

	batch := &payments.Batch{Header: cleanHeader(header)}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, payments.Malformed("invalid CSV: %v", err)
		}
		line, _ := cr.FieldPos(0)
		batch.Rows = append(batch.Rows, toRow(batch.Header, record, line))
	}
	return batch, nil
}

// ReadXLSX reads the first sheet of a workbook the same way as ReadCSV.
func ReadXLSX(r io.Reader) (*payments.Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, payments.Malformed("invalid XLSX: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, payments.Malformed("invalid XLSX: %v", err)
	}

	start := -1
	for i, row := range rows {
		if !blank(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, payments.Malformed("%v", errNoHeader)
	}

	batch := &payments.Batch{Header: cleanHeader(rows[start])}
	for i := start + 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		batch.Rows = append(batch.Rows, toRow(batch.Header, rows[i], i+1))
	}
	return batch, nil
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func toRow(header, record []string, line int) payments.Row {
	values := make(map[string]string, len(header))
	for i, col := range header {
		if col == "" || i >= len(record) {
			continue
		}
		values[col] = record[i]
	}
	return payments.Row{Line: line, Values: values}
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
