package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akylbek/payment-system/payment-tracker/internal/config"
	"github.com/akylbek/payment-system/payment-tracker/internal/service"
)

const batch = `payee_address_line_1,payee_city,payee_country,payee_postal_code,payee_phone_number,payee_email,currency,due_amount
1 Main St,Springfield,US,12345,+14155552671,a@example.com,USD,100
`

func TestNew_MemoryStore(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverMemory, EvidenceDir: t.TempDir()}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	result, err := a.Service.ImportBatch(context.Background(), "batch.csv", strings.NewReader(batch))
	if err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	if result.Inserted != 1 {
		t.Errorf("expected 1 inserted, got %d", result.Inserted)
	}
}

func TestNew_SQLiteStorePersists(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DBDriver:    "sqlite",
		DatabaseURL: filepath.Join(dir, "payments.db"),
		EvidenceDir: filepath.Join(dir, "evidence"),
	}

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Service.ImportBatch(context.Background(), "batch.csv", strings.NewReader(batch)); err != nil {
		t.Fatalf("ImportBatch: %v", err)
	}
	a.Close()

	reopened, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	list, err := reopened.Service.ListPayments(context.Background(), service.ListOptions{})
	if err != nil {
		t.Fatalf("ListPayments: %v", err)
	}
	if list.Total != 1 || list.Payments[0].PayeeEmail != "a@example.com" {
		t.Errorf("expected the imported payment after reopening, got %+v", list.Payments)
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &config.Config{DBDriver: "mongo", DatabaseURL: "mongodb://localhost", EvidenceDir: t.TempDir()}
	if _, err := New(context.Background(), cfg); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}
