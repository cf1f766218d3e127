// Package filestore provides a storage implementation persisted to a
// single JSON file, the closest thing to browser local storage a CLI has.
//
// Every write rewrites the whole file atomically. It is meant for small
// amounts of client state such as the session token and the cart.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/bluescreen10/reqx"
)

var _ reqx.Store = &FileStore{}

// FileStore is a file backed storage for client state.
// It is safe for concurrent use by multiple goroutines of one process.
type FileStore struct {
	mu      sync.Mutex
	path    string
	records map[string]record
}

type record struct {
	Data      []byte     `json:"data"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (r record) expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// New opens the store kept at path. A missing file is treated as an
// empty store and is created on the first write.
func New(path string) (*FileStore, error) {
	s := &FileStore{path: path, records: map[string]record{}}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.records); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Get retrieves the data associated with the given key. Expired records
// are reported as not found and dropped on the next write.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[key]
	if !ok || r.expired(time.Now()) {
		return []byte{}, false, nil
	}
	return r.Data, true, nil
}

// Set stores the data under the given key. A zero expiresAt never expires.
func (s *FileStore) Set(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := record{Data: data}
	if !expiresAt.IsZero() {
		r.ExpiresAt = &expiresAt
	}
	s.records[key] = r
	return s.flush()
}

// Delete removes the data associated with the given key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; !ok {
		return nil
	}
	delete(s.records, key)
	return s.flush()
}

// Clear removes every record and truncates the file to an empty object.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[string]record{}
	return s.flush()
}

// flush writes the live records to disk. Callers must hold mu.
func (s *FileStore) flush() error {
	now := time.Now()
	for k, r := range s.records {
		if r.expired(now) {
			delete(s.records, k)
		}
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return writeJSONAtomic(s.path, s.records)
}

func writeJSONAtomic(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err == nil {
		return nil
	}

	defer os.Remove(tmp)

	if runtime.GOOS == "windows" {
		_ = os.Remove(path)
	}
	return os.Rename(tmp, path)
}
