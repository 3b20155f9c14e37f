package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a Store persisted as a single JSON file. It is the CLI's analog of
// browser local storage: contents survive restarts, and each SetItem rewrites
// the file atomically via a temp-file rename so readers never observe a
// partial write.
type File struct {
	path string

	mu    sync.Mutex
	items map[string]string
}

// OpenFile loads the store at path, creating parent directories as needed.
// A missing file yields an empty store.
func OpenFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	f := &File{path: path, items: make(map[string]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(data, &f.items); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	return f, nil
}

// GetItem returns the value stored under key.
func (f *File) GetItem(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[key]
	return v, ok
}

// SetItem stores value under key and flushes the whole store to disk.
func (f *File) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items[key] = value

	data, err := json.MarshalIndent(f.items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
