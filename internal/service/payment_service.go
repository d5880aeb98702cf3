package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/payment-tracker/internal/events"
	"github.com/akylbek/payment-system/payment-tracker/internal/importer"
	"github.com/akylbek/payment-system/payment-tracker/internal/interfaces"
	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/payments"
	"github.com/akylbek/payment-system/payment-tracker/internal/telemetry"
)

// PaymentService runs every payment operation through the validation and
// derivation pipeline before touching the store.
type PaymentService struct {
	repo      interfaces.PaymentRepository
	evidence  interfaces.EvidenceStore
	publisher interfaces.EventPublisher
	now       func() time.Time
}

type Option func(*PaymentService)

// WithClock replaces time.Now; "today" for status derivation is its UTC calendar day.
func WithClock(now func() time.Time) Option {
	return func(s *PaymentService) { s.now = now }
}

func WithPublisher(p interfaces.EventPublisher) Option {
	return func(s *PaymentService) { s.publisher = p }
}

func NewPaymentService(repo interfaces.PaymentRepository, evidence interfaces.EvidenceStore, opts ...Option) *PaymentService {
	s := &PaymentService{
		repo:      repo,
		evidence:  evidence,
		publisher: events.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ListOptions struct {
	Page     int
	PageSize int
	Search   string
}

type ListResult struct {
	Payments []*models.Payment
	Total    int
}

// ImportResult summarises a committed bulk import.
type ImportResult struct {
	Inserted    int                 `json:"inserted"`
	IDs         []string            `json:"ids"`
	DroppedRows []int               `json:"dropped_rows"`
	Issues      []payments.RowIssue `json:"issues"`
}

func (s *PaymentService) today() models.Date {
	return models.DateOf(s.now().UTC())
}

// resolved returns a copy of p with status and total derived for today.
func (s *PaymentService) resolved(p *models.Payment) *models.Payment {
	out := p.Clone()
	payments.Resolve(out, s.today())
	return out
}

// ListPayments returns payments in insertion order. Search matches payee
// names, email, city and id case-insensitively; PageSize 0 returns everything.
func (s *PaymentService) ListPayments(ctx context.Context, opts ListOptions) (_ *ListResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.list")
	defer endSpan(span, &err)

	all, err := s.repo.Find(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(opts.Search))
	matched := make([]*models.Payment, 0, len(all))
	for _, p := range all {
		if query == "" || matches(p, query) {
			matched = append(matched, s.resolved(p))
		}
	}

	result := &ListResult{Payments: matched, Total: len(matched)}
	if opts.PageSize > 0 {
		page := opts.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * opts.PageSize
		if start > len(matched) {
			start = len(matched)
		}
		end := start + opts.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		result.Payments = matched[start:end]
	}
	span.SetAttributes(attribute.Int("payments.total", result.Total))
	return result, nil
}

func matches(p *models.Payment, query string) bool {
	for _, field := range []string{p.ID, p.PayeeFirstName, p.PayeeLastName, p.PayeeEmail, p.PayeeCity} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (_ *models.Payment, err error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.get", attribute.String("payment.id", id))
	defer endSpan(span, &err)

	if err := checkID(id); err != nil {
		return nil, err
	}
	p, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolved(p), nil
}

// CreatePayment validates a full record, derives total and status, and
// stores it. Evidence references cannot be set here.
func (s *PaymentService) CreatePayment(ctx context.Context, payload payments.Payload) (_ *models.Payment, err error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.create")
	defer endSpan(span, &err)

	payload = payload.Without(payments.EvidenceFields...)
	if err := payments.Check(payload, payments.Strict, true); err != nil {
		telemetry.ValidationFailures.WithLabelValues("create").Inc()
		return nil, err
	}

	record := payments.NewPayment(payload, s.now())
	id, err := s.repo.InsertOne(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = id

	telemetry.Logger.Info("Payment created",
		zap.String("payment_id", id),
		zap.String("total_due", record.TotalDue.String()),
		zap.String("trace_id", span.SpanContext().TraceID().String()),
	)
	s.publish(ctx, events.New(models.EventPaymentCreated, id, record))
	return record, nil
}

// UpdatePayment validates the whole payload but only writes the editable
// fields. "completed" is accepted only if evidence is already attached.
func (s *PaymentService) UpdatePayment(ctx context.Context, id string, payload payments.Payload) (_ *models.Payment, err error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.update", attribute.String("payment.id", id))
	defer endSpan(span, &err)

	if err := checkID(id); err != nil {
		return nil, err
	}
	current, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	payload = payload.Without(payments.EvidenceFields...)
	if current.HasEvidence() {
		payload = payload.With(payments.FieldEvidenceFile, current.EvidenceFile)
	}
	if err := payments.Check(payload, payments.Strict, false); err != nil {
		telemetry.ValidationFailures.WithLabelValues("update").Inc()
		return nil, err
	}

	if err := s.repo.UpdateOne(ctx, id, payments.UpdateFields(payload, current)); err != nil {
		return nil, err
	}
	updated, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	updated = s.resolved(updated)

	telemetry.Logger.Info("Payment updated", zap.String("payment_id", id))
	s.publish(ctx, events.New(models.EventPaymentUpdated, id, updated))
	return updated, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, id string) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.delete", attribute.String("payment.id", id))
	defer endSpan(span, &err)

	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repo.DeleteOne(ctx, id); err != nil {
		return err
	}

	telemetry.Logger.Info("Payment deleted", zap.String("payment_id", id))
	s.publish(ctx, events.New(models.EventPaymentDeleted, id, nil))
	return nil
}

// AttachEvidence stores the file and marks the payment completed. The file
// write and the record update are separate steps; repeating the call with the
// same file converges on the same state.
func (s *PaymentService) AttachEvidence(ctx context.Context, id, filename string, r io.Reader) (_ *models.Payment, err error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.attach_evidence", attribute.String("payment.id", id))
	defer endSpan(span, &err)

	if err := checkID(id); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindOne(ctx, id); err != nil {
		return nil, err
	}

	ref, err := s.evidence.Save(id, filename, r)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOne(ctx, id, payments.EvidenceFieldsFor(ref, strings.TrimPrefix(filepath.Base(ref), id+"_"))); err != nil {
		telemetry.Logger.Error("Evidence saved but payment not updated",
			zap.String("payment_id", id),
			zap.String("evidence_file", ref),
			zap.Error(err),
		)
		return nil, err
	}

	updated, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	updated = s.resolved(updated)

	telemetry.Logger.Info("Evidence attached",
		zap.String("payment_id", id),
		zap.String("evidence_file", ref),
	)
	s.publish(ctx, events.New(models.EventPaymentEvidenceAttached, id, updated))
	return updated, nil
}

// OpenEvidence returns the stored evidence path and the name to serve it under.
func (s *PaymentService) OpenEvidence(ctx context.Context, id string) (path, name string, err error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.open_evidence", attribute.String("payment.id", id))
	defer endSpan(span, &err)

	if err := checkID(id); err != nil {
		return "", "", err
	}
	p, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return "", "", err
	}
	path, err = s.evidence.Locate(p.EvidenceFile)
	if err != nil {
		return "", "", err
	}
	name = p.EvidenceFilename
	if name == "" {
		name = filepath.Base(path)
	}
	return path, name, nil
}

// PreviewImport parses and normalizes a batch without storing anything.
func (s *PaymentService) PreviewImport(ctx context.Context, filename string, r io.Reader) (_ *payments.BatchResult, err error) {
	_, span := telemetry.StartSpan(ctx, "payments.preview_import", attribute.String("import.filename", filename))
	defer endSpan(span, &err)

	batch, err := importer.Read(filename, r)
	if err != nil {
		return nil, err
	}
	return payments.Normalize(batch, s.today())
}

// ImportBatch normalizes a file and inserts the surviving rows in one call to
// InsertMany. Any fatal row aborts the import before the store is touched.
func (s *PaymentService) ImportBatch(ctx context.Context, filename string, r io.Reader) (_ *ImportResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "payments.import", attribute.String("import.filename", filename))
	defer endSpan(span, &err)

	batch, err := importer.Read(filename, r)
	if err != nil {
		return nil, err
	}
	normalized, err := payments.Normalize(batch, s.today())
	if err != nil {
		telemetry.ImportRows.WithLabelValues("aborted").Add(float64(len(batch.Rows)))
		telemetry.Logger.Warn("Import aborted", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}

	result := &ImportResult{
		DroppedRows: normalized.DroppedRows,
		Issues:      normalized.Issues,
	}
	if len(normalized.Records) > 0 {
		ids, err := s.repo.InsertMany(ctx, normalized.Records)
		if err != nil {
			return nil, err
		}
		result.IDs = ids
		result.Inserted = len(ids)
	}

	telemetry.ImportRows.WithLabelValues("inserted").Add(float64(result.Inserted))
	telemetry.ImportRows.WithLabelValues("dropped").Add(float64(len(result.DroppedRows)))
	telemetry.Logger.Info("Import completed",
		zap.String("filename", filename),
		zap.Int("inserted", result.Inserted),
		zap.Int("dropped", len(result.DroppedRows)),
		zap.Int("issues", len(result.Issues)),
	)

	event := events.New(models.EventPaymentsImported, "", nil)
	event.Count = result.Inserted
	s.publish(ctx, event)
	return result, nil
}

func (s *PaymentService) publish(ctx context.Context, event models.PaymentEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		telemetry.Logger.Error("Failed to publish payment event",
			zap.String("type", event.Type),
			zap.String("payment_id", event.PaymentID),
			zap.Error(err),
		)
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return payments.Malformed("invalid payment id %q", id)
	}
	return nil
}

func endSpan(span trace.Span, err *error) {
	telemetry.RecordError(span, *err)
	span.End()
}
