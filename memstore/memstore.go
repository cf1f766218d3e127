// Package memstore provides an in-memory storage implementation.
//
// Memstore allows storing, retrieving, and deleting values keyed by a
// string. Each record may carry an expiration time, and the store
// supports periodic cleanup of expired records.
//
// This package is suitable for single-process applications or testing
// scenarios. It is not persistent and does not share state across
// processes.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/bluescreen10/reqx"
)

var _ reqx.Store = &Memstore{}

// Memstore is an in-memory storage for client state.
// It is safe for concurrent use by multiple goroutines.
type Memstore struct {
	records sync.Map
}

// record represents a single stored value, containing the data and its
// expiration time. A zero expiresAt never expires.
type record struct {
	expiresAt time.Time
	data      []byte
}

func (r record) expired(now time.Time) bool {
	return !r.expiresAt.IsZero() && now.After(r.expiresAt)
}

// New creates and returns a new Memstore instance.
func New() *Memstore {
	return &Memstore{}
}

// Get retrieves the data associated with the given key. Returns the data,
// a boolean indicating whether the key was found and not expired, and an
// error. If the record has expired, it is automatically deleted and Get
// returns false.
func (m *Memstore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	r, ok := m.records.Load(key)
	if !ok {
		return []byte{}, false, nil
	}

	rec := r.(record)
	if rec.expired(time.Now()) {
		m.records.Delete(key)
		return []byte{}, false, nil
	}

	return rec.data, true, nil
}

// Set stores the data under the given key with an expiration time. If a
// record with the same key already exists, it is overwritten.
func (m *Memstore) Set(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	m.records.Store(key, record{expiresAt: expiresAt, data: data})
	return nil
}

// Delete removes the data associated with the given key. If the key does
// not exist, this is a no-op.
func (m *Memstore) Delete(ctx context.Context, key string) error {
	m.records.Delete(key)
	return nil
}

// Clear removes every record.
func (m *Memstore) Clear(ctx context.Context) error {
	m.records.Clear()
	return nil
}

// Count returns the number of records currently held, expired or not.
func (m *Memstore) Count() int {
	n := 0
	m.records.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// PeriodicCleanUp runs a loop that periodically deletes expired records.
// The cleanup runs every interval duration until a value is received on
// the stop channel, at which point the loop returns.
//
// Example usage:
//
//	stop := make(chan struct{})
//	go store.PeriodicCleanUp(time.Minute, stop)
//	...
//	close(stop) // stop the cleanup
func (m *Memstore) PeriodicCleanUp(interval time.Duration, stop <-chan (struct{})) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.deleteExpired()
		case <-stop:
			return
		}
	}
}

// deleteExpired removes all expired records from the Memstore.
func (m *Memstore) deleteExpired() {
	now := time.Now()
	m.records.Range(func(key, value any) bool {
		if value.(record).expired(now) {
			m.records.Delete(key)
		}
		return true
	})
}
