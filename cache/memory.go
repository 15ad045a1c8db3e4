package cache

import (
	"context"
	"slices"
	"sync"
)

// MemoryStorage keeps the namespaces in memory. It is safe for concurrent use.
type MemoryStorage struct {
	mu     sync.RWMutex
	names  []string
	spaces map[string]*memoryNamespace
}

// NewMemoryStorage creates an empty storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{spaces: make(map[string]*memoryNamespace)}
}

// Open implements Storage.
func (s *MemoryStorage) Open(_ context.Context, name string) (Namespace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.spaces[name]
	if !ok {
		ns = &memoryNamespace{entries: make(map[string]*Entry)}
		s.spaces[name] = ns
		s.names = append(s.names, name)
	}
	return ns, nil
}

// Has implements Storage.
func (s *MemoryStorage) Has(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.spaces[name]
	return ok, nil
}

// Keys implements Storage.
func (s *MemoryStorage) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.names), nil
}

// Delete implements Storage.
func (s *MemoryStorage) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spaces[name]; !ok {
		return false, nil
	}
	delete(s.spaces, name)
	s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == name })
	return true, nil
}

type memoryNamespace struct {
	mu      sync.RWMutex
	keys    []string
	entries map[string]*Entry
}

func (n *memoryNamespace) Match(_ context.Context, key string) (*Entry, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	e, ok := n.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (n *memoryNamespace) Put(_ context.Context, key string, e *Entry) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.entries[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.entries[key] = e
	return nil
}

func (n *memoryNamespace) Keys(_ context.Context) ([]string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return slices.Clone(n.keys), nil
}
