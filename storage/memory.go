package storage

import "sync"

// Memory is an in-process backend for tests and throwaway sites.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
	closed  bool
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.records[key] = append([]byte(nil), value...)
	return nil
}

// SetMany stores every record under one lock.
func (m *Memory) SetMany(records map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for k, v := range records {
		m.records[k] = append([]byte(nil), v...)
	}
	return nil
}

// Delete removes key. Tests use it to simulate data written by older
// versions of the site.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.records, key)
	m.mu.Unlock()
}

// Close marks the backend unusable.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
