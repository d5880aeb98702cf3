package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/payments"
)

// PaymentRepository stores each payment as a JSON document keyed by id.
// Rows keep insertion order through the seq column.
type PaymentRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewPaymentRepository(db *sql.DB, dialect Dialect) *PaymentRepository {
	return &PaymentRepository{db: db, dialect: dialect}
}

func (r *PaymentRepository) InitDB() error {
	var query string
	switch r.dialect {
	case SQLite:
		query = `CREATE TABLE IF NOT EXISTS payments (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			document TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`
	default:
		query = `CREATE TABLE IF NOT EXISTS payments (
			seq BIGSERIAL,
			id VARCHAR(36) PRIMARY KEY,
			document JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`
	}
	_, err := r.db.Exec(query)
	return err
}

func (r *PaymentRepository) Find(ctx context.Context) ([]*models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, document FROM payments ORDER BY seq`)
	if err != nil {
		return nil, payments.WrapStorage("find", err)
	}
	defer rows.Close()

	var result []*models.Payment
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, payments.WrapStorage("find", err)
		}
		p, err := decodeDocument(id, doc)
		if err != nil {
			return nil, payments.WrapStorage("find", err)
		}
		result = append(result, p)
	}
	return result, payments.WrapStorage("find", rows.Err())
}

func (r *PaymentRepository) FindOne(ctx context.Context, id string) (*models.Payment, error) {
	doc, err := r.document(ctx, r.db, id)
	if err != nil {
		return nil, payments.WrapStorage("find_one", err)
	}
	p, err := decodeDocument(id, doc)
	return p, payments.WrapStorage("find_one", err)
}

func (r *PaymentRepository) InsertOne(ctx context.Context, payment *models.Payment) (string, error) {
	id, doc, err := newDocument(payment)
	if err != nil {
		return "", payments.WrapStorage("insert_one", err)
	}
	_, err = r.db.ExecContext(ctx,
		r.dialect.rebind(`INSERT INTO payments (id, document) VALUES (?, ?)`), id, string(doc))
	if err != nil {
		return "", payments.WrapStorage("insert_one", err)
	}
	return id, nil
}

func (r *PaymentRepository) InsertMany(ctx context.Context, batch []*models.Payment) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, payments.WrapStorage("insert_many", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, r.dialect.rebind(`INSERT INTO payments (id, document) VALUES (?, ?)`))
	if err != nil {
		return nil, payments.WrapStorage("insert_many", err)
	}
	defer stmt.Close()

	ids := make([]string, 0, len(batch))
	for _, payment := range batch {
		id, doc, err := newDocument(payment)
		if err != nil {
			return nil, payments.WrapStorage("insert_many", err)
		}
		if _, err := stmt.ExecContext(ctx, id, string(doc)); err != nil {
			return nil, payments.WrapStorage("insert_many", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, payments.WrapStorage("insert_many", err)
	}
	return ids, nil
}

// UpdateOne merges partial into the stored document. A nil value removes the field.
func (r *PaymentRepository) UpdateOne(ctx context.Context, id string, partial map[string]interface{}) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return payments.WrapStorage("update_one", err)
	}
	defer tx.Rollback()

	doc, err := r.document(ctx, tx, id)
	if err != nil {
		return payments.WrapStorage("update_one", err)
	}
	merged, err := mergeDocument(doc, partial)
	if err != nil {
		return payments.WrapStorage("update_one", err)
	}
	_, err = tx.ExecContext(ctx, r.dialect.rebind(
		`UPDATE payments SET document = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`), string(merged), id)
	if err != nil {
		return payments.WrapStorage("update_one", err)
	}
	return payments.WrapStorage("update_one", tx.Commit())
}

func (r *PaymentRepository) DeleteOne(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind(`DELETE FROM payments WHERE id = ?`), id)
	if err != nil {
		return payments.WrapStorage("delete_one", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return payments.WrapStorage("delete_one", err)
	}
	if n == 0 {
		return payments.ErrNotFound
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *PaymentRepository) document(ctx context.Context, q queryer, id string) ([]byte, error) {
	var doc []byte
	err := q.QueryRowContext(ctx, r.dialect.rebind(`SELECT document FROM payments WHERE id = ?`), id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, payments.ErrNotFound
	}
	return doc, err
}

func newDocument(payment *models.Payment) (string, []byte, error) {
	p := payment.Clone()
	p.ID = uuid.New().String()
	doc, err := json.Marshal(p)
	return p.ID, doc, err
}

func decodeDocument(id string, doc []byte) (*models.Payment, error) {
	var p models.Payment
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func mergeDocument(doc []byte, partial map[string]interface{}) ([]byte, error) {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, err
	}
	for key, value := range partial {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if string(raw) == "null" {
			delete(fields, key)
			continue
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}
