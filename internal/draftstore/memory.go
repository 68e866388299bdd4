package draftstore

import (
	"context"
	"sync"

	"github.com/margaritastailoring/booking-platform/internal/booking/model"
)

// MemoryStore is an in-process draft store, used in tests and when Redis is
// not configured.
type MemoryStore struct {
	mu   sync.Mutex
	list []model.StoredBooking
}

// NewMemoryStore creates an empty in-memory draft store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds b to the list.
func (s *MemoryStore) Append(_ context.Context, b model.StoredBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, b)
	return nil
}

// ListAll returns a copy of the list in append order.
func (s *MemoryStore) ListAll(_ context.Context) ([]model.StoredBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StoredBooking, len(s.list))
	copy(out, s.list)
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
