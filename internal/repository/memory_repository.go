package repository

import (
	"context"
	"sync"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/payments"
)

// MemoryPaymentRepository keeps payments in process memory. It backs
// DB_DRIVER=memory and the service tests.
type MemoryPaymentRepository struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	order []string
}

func NewMemoryPaymentRepository() *MemoryPaymentRepository {
	return &MemoryPaymentRepository{docs: make(map[string][]byte)}
}

func (r *MemoryPaymentRepository) Find(ctx context.Context) ([]*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Payment, 0, len(r.order))
	for _, id := range r.order {
		p, err := decodeDocument(id, r.docs[id])
		if err != nil {
			return nil, payments.WrapStorage("find", err)
		}
		result = append(result, p)
	}
	return result, nil
}

func (r *MemoryPaymentRepository) FindOne(ctx context.Context, id string) (*models.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, payments.ErrNotFound
	}
	p, err := decodeDocument(id, doc)
	return p, payments.WrapStorage("find_one", err)
}

func (r *MemoryPaymentRepository) InsertOne(ctx context.Context, payment *models.Payment) (string, error) {
	ids, err := r.InsertMany(ctx, []*models.Payment{payment})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (r *MemoryPaymentRepository) InsertMany(ctx context.Context, batch []*models.Payment) ([]string, error) {
	ids := make([]string, 0, len(batch))
	docs := make([][]byte, 0, len(batch))
	for _, payment := range batch {
		id, doc, err := newDocument(payment)
		if err != nil {
			return nil, payments.WrapStorage("insert_many", err)
		}
		ids = append(ids, id)
		docs = append(docs, doc)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range ids {
		r.docs[id] = docs[i]
		r.order = append(r.order, id)
	}
	return ids, nil
}

func (r *MemoryPaymentRepository) UpdateOne(ctx context.Context, id string, partial map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return payments.ErrNotFound
	}
	merged, err := mergeDocument(doc, partial)
	if err != nil {
		return payments.WrapStorage("update_one", err)
	}
	r.docs[id] = merged
	return nil
}

func (r *MemoryPaymentRepository) DeleteOne(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return payments.ErrNotFound
	}
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored payments.
func (r *MemoryPaymentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
