package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"
)

// MemoryObjectStorage keeps objects in process memory. Used in development and tests.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	// FailPut makes Put fail, for exercising cleanup paths
	FailPut error
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{objects: make(map[string][]byte)}
}

func (m *MemoryObjectStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if key == "" {
		return errEmptyKey
	}
	if m.FailPut != nil {
		return m.FailPut
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	m.mu.Lock()
	m.objects[key] = buf.Bytes()
	m.mu.Unlock()
	return nil
}

func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// DownloadURL returns a memory:// pseudo URL
func (m *MemoryObjectStorage) DownloadURL(_ context.Context, key, fileName string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	expiresAt := time.Now().Add(15 * time.Minute)
	q := url.Values{"filename": {fileName}, "expires": {expiresAt.Format(time.RFC3339)}}
	return "memory:///" + key + "?" + q.Encode(), expiresAt, nil
}

// Get returns a stored object
func (m *MemoryObjectStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.objects[key]
	return b, ok
}

// Len returns the number of stored objects
func (m *MemoryObjectStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
