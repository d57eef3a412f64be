package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps slots in process memory. It is the default backend
// and the one used by unit tests.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory slot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{namespaces: make(map[string]map[string]string)}
}

// Get returns the slot value and whether it exists.
func (s *MemoryStore) Get(_ context.Context, namespace, key string) (string, bool, error) {
	if err := ValidateSlotKey(key); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.namespaces[namespace][key]
	return v, ok, nil
}

// Commit applies the mutations under a single lock.
func (s *MemoryStore) Commit(ctx context.Context, namespace string, mutations ...Mutation) error {
	if err := ValidateMutations(mutations); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.namespaces[namespace]
	if slots == nil {
		slots = make(map[string]string)
		s.namespaces[namespace] = slots
	}
	for _, m := range mutations {
		if m.Delete {
			delete(slots, m.Key)
			continue
		}
		slots[m.Key] = m.Value
	}
	if len(slots) == 0 {
		delete(s.namespaces, namespace)
	}
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len returns the number of namespaces holding at least one slot.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.namespaces)
}
