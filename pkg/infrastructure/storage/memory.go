package storage

import (
	"sync"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/cache"
)

// Memory is a capacity-bounded in-memory cache backend.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]cache.Entry
	maxEntries int
}

// NewMemory creates a backend holding at most maxEntries entries; zero means
// unbounded.
func NewMemory(maxEntries int) *Memory {
	return &Memory{
		entries:    make(map[string]cache.Entry),
		maxEntries: maxEntries,
	}
}

func (m *Memory) Get(key string) (cache.Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	return entry, ok, nil
}

func (m *Memory) Put(entry cache.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxEntries > 0 {
		if _, exists := m.entries[entry.Key]; !exists && len(m.entries) >= m.maxEntries {
			return cache.ErrStoreFull
		}
	}
	m.entries[entry.Key] = entry
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) Entries() ([]cache.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]cache.Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, entry)
	}
	return entries, nil
}
