// Package memory persists session state between suspend and resume.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrNotFound is returned when a session key has no stored record
var ErrNotFound = errors.New("session record not found")

// Store is the persistence interface for session state, keyed by
// session identifier
type Store interface {
	// Save stores the serialized state for a session
	Save(ctx context.Context, key string, value []byte) error

	// Load retrieves the serialized state for a session
	Load(ctx context.Context, key string) ([]byte, error)

	// List returns all stored session keys
	List(ctx context.Context) ([]string, error)

	// Delete removes a session record
	Delete(ctx context.Context, key string) error
}

// record is the on-disk envelope around one session's state
type record struct {
	Key       string          `json:"key"`
	State     json.RawMessage `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FileStore implements Store using one JSON file per session
type FileStore struct {
	BasePath string
	mutex    sync.RWMutex
	cache    map[string]*record
}

// NewFileStore creates a file-backed session store
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := &FileStore{
		BasePath: basePath,
		cache:    make(map[string]*record),
	}
	if err := store.loadFromDisk(); err != nil {
		return nil, err
	}
	return store, nil
}

// loadFromDisk loads all session records from disk
func (s *FileStore) loadFromDisk() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.cache = make(map[string]*record)

	return filepath.Walk(s.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read session file %s: %w", path, err)
		}

		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("failed to parse session file %s: %w", path, err)
		}
		s.cache[rec.Key] = &rec
		return nil
	})
}

// getFilePath returns the file path for a session key
func (s *FileStore) getFilePath(key string) string {
	sanitized := filepath.Base(key)
	return filepath.Join(s.BasePath, sanitized+".json")
}

// Save stores the serialized state for a session
func (s *FileStore) Save(ctx context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec, exists := s.cache[key]
	if !exists {
		rec = &record{
			Key:       key,
			CreatedAt: time.Now(),
		}
	}
	rec.State = append([]byte(nil), value...)
	rec.UpdatedAt = time.Now()
	s.cache[key] = rec

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}
	if err := os.WriteFile(s.getFilePath(key), data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load retrieves the serialized state for a session
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rec, exists := s.cache[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), rec.State...), nil
}

// List returns all stored session keys
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	keys := make([]string, 0, len(s.cache))
	for key := range s.cache {
		keys = append(keys, key)
	}
	return keys, nil
}

// Delete removes a session record
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.cache[key]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(s.cache, key)

	if err := os.Remove(s.getFilePath(key)); err != nil {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// InMemoryStore implements Store without any durability. Useful for
// tests and single-process interactive runs.
type InMemoryStore struct {
	mutex sync.RWMutex
	items map[string]*record
}

// NewInMemoryStore creates an in-memory session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		items: make(map[string]*record),
	}
}

// Save stores the serialized state for a session
func (s *InMemoryStore) Save(ctx context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec, exists := s.items[key]
	if !exists {
		rec = &record{
			Key:       key,
			CreatedAt: time.Now(),
		}
	}
	rec.State = append([]byte(nil), value...)
	rec.UpdatedAt = time.Now()
	s.items[key] = rec
	return nil
}

// Load retrieves the serialized state for a session
func (s *InMemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rec, exists := s.items[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), rec.State...), nil
}

// List returns all stored session keys
func (s *InMemoryStore) List(ctx context.Context) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	keys := make([]string, 0, len(s.items))
	for key := range s.items {
		keys = append(keys, key)
	}
	return keys, nil
}

// Delete removes a session record
func (s *InMemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.items[key]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	delete(s.items, key)
	return nil
}
