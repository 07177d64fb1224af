package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store. Files are enumerated in creation order.
// It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
	order []string
}

var (
	_ Store   = (*MemoryStore)(nil)
	_ Creator = (*MemoryStore)(nil)
)

// NewMemory returns an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

func (m *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok, nil
}

func (m *MemoryStore) Read(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(b), nil
}

func (m *MemoryStore) Write(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(name, data)
	return nil
}

func (m *MemoryStore) Create(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; ok {
		return ErrExists
	}
	m.put(name, data)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return ErrNotFound
	}
	delete(m.files, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order), nil
}

// put must be called with mu held for writing.
func (m *MemoryStore) put(name string, data []byte) {
	if _, ok := m.files[name]; !ok {
		m.order = append(m.order, name)
	}
	if data == nil {
		data = []byte{}
	}
	m.files[name] = slices.Clone(data)
}
