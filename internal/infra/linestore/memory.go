package linestore

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/barber-desk/internal/domain/lineitem"
)

// MemoryStore keeps attachments in process. Used when no Redis is
// configured and by the agenda client.
type MemoryStore struct {
	mu    sync.Mutex
	items map[uint]*lineitem.Attachments
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[uint]*lineitem.Attachments)}
}

func (s *MemoryStore) Get(_ context.Context, appointmentID uint) (*lineitem.Attachments, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.items[appointmentID]; ok {
		return a.Clone(), nil
	}
	return lineitem.New(appointmentID), nil
}

func (s *MemoryStore) Update(
	_ context.Context,
	appointmentID uint,
	fn func(*lineitem.Attachments) error,
) (*lineitem.Attachments, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := lineitem.New(appointmentID)
	if a, ok := s.items[appointmentID]; ok {
		cur = a.Clone()
	}

	if err := fn(cur); err != nil {
		return nil, err
	}

	if cur.Disposable() {
		delete(s.items, appointmentID)
	} else {
		s.items[appointmentID] = cur.Clone()
	}
	return cur, nil
}

func (s *MemoryStore) Delete(_ context.Context, appointmentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, appointmentID)
	return nil
}

var _ lineitem.Store = (*MemoryStore)(nil)
