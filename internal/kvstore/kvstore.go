// Package kvstore provides the key-value persistence capability the client
// uses for its session and token, with an in-memory implementation for tests
// and a file-backed one for the CLI.
package kvstore

import "sync"

// Store is the key-value persistence capability. The client keeps exactly two
// keys in it: "user" (the serialized session) and "jwt" (the login token).
// Writes replace the previous value wholesale.
type Store interface {
	// GetItem returns the value stored under key, and whether it exists.
	GetItem(key string) (string, bool)

	// SetItem stores value under key, overwriting any previous value.
	SetItem(key, value string) error
}

// Memory is an in-memory Store. Useful for tests and for running the client
// without persisted state.
type Memory struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

// GetItem returns the value stored under key.
func (m *Memory) GetItem(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// SetItem stores value under key.
func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}
