package storage

import (
	"errors"
	"sync"
)

// ErrInjected is returned by a MemoryStore whose FailWrites flag is set.
var ErrInjected = errors.New("injected write failure")

// MemoryStore is an in-process Store, used by tests and the memory backend.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte

	// FailWrites makes every SetMany and Delete fail without changing state.
	FailWrites bool
}

func NewMemory() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) SetMany(entries map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrInjected
	}
	for k, v := range entries {
		s.values[k] = append([]byte(nil), v...)
	}
	return nil
}

func (s *MemoryStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrInjected
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }
