package service

import (
	"context"
	"errors"
	"sync"

	"github.com/akylbek/payment-system/payment-tracker/internal/models"
	"github.com/akylbek/payment-system/payment-tracker/internal/repository"
)

var ErrMockStorage = errors.New("mock storage error")

// MockPaymentRepository falls back to an in-memory store for any method
// whose Func field is nil.
type MockPaymentRepository struct {
	*repository.MemoryPaymentRepository

	FindFunc       func(ctx context.Context) ([]*models.Payment, error)
	InsertManyFunc func(ctx context.Context, payments []*models.Payment) ([]string, error)
	UpdateOneFunc  func(ctx context.Context, id string, partial map[string]interface{}) error
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{MemoryPaymentRepository: repository.NewMemoryPaymentRepository()}
}

func (m *MockPaymentRepository) Find(ctx context.Context) ([]*models.Payment, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx)
	}
	return m.MemoryPaymentRepository.Find(ctx)
}

func (m *MockPaymentRepository) InsertMany(ctx context.Context, payments []*models.Payment) ([]string, error) {
	if m.InsertManyFunc != nil {
		return m.InsertManyFunc(ctx, payments)
	}
	return m.MemoryPaymentRepository.InsertMany(ctx, payments)
}

func (m *MockPaymentRepository) UpdateOne(ctx context.Context, id string, partial map[string]interface{}) error {
	if m.UpdateOneFunc != nil {
		return m.UpdateOneFunc(ctx, id, partial)
	}
	return m.MemoryPaymentRepository.UpdateOne(ctx, id, partial)
}

// MockPublisher records published events.
type MockPublisher struct {
	mu     sync.Mutex
	Events []models.PaymentEvent
	Err    error
}

func (m *MockPublisher) Publish(ctx context.Context, event models.PaymentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return m.Err
}

func (m *MockPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}
