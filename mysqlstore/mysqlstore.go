// Package mysqlstore provides a mysql storage implementation.
//
// MySQLStore allows storing, retrieving, and deleting values keyed by a
// string. Each record may carry an expiration time, and the store
// supports periodic cleanup of expired records.
package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bluescreen10/reqx"
)

var _ reqx.Store = &MySQLStore{}

type MySQLStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// New creates the storage_entries table if needed and returns a store
// backed by db.
func New(db *sql.DB) (*MySQLStore, error) {
	err := createTable(db)
	return &MySQLStore{db: db, log: zerolog.Nop()}, err
}

// SetLogger sets the logger used to report cleanup failures.
func (s *MySQLStore) SetLogger(log zerolog.Logger) {
	s.log = log
}

// Get retrieves the data associated with the given key. Returns the data,
// a boolean indicating whether the key was found and not expired, and an
// error.
func (s *MySQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	stmt := "SELECT data FROM storage_entries WHERE storage_key = ? AND (expires_at IS NULL OR UTC_TIMESTAMP(6) < expires_at)"
	row := s.db.QueryRowContext(ctx, stmt, key)

	var data []byte
	err := row.Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set stores the data under the given key. If a record with the same key
// already exists, it is overwritten. A zero expiresAt never expires.
func (s *MySQLStore) Set(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	var exp sql.NullTime
	if !expiresAt.IsZero() {
		exp = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}

	stmt := "INSERT INTO storage_entries(storage_key, data, expires_at) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data), expires_at = VALUES(expires_at)"
	_, err := s.db.ExecContext(ctx, stmt, key, data, exp)
	return err
}

// Delete removes the data associated with the given key.
func (s *MySQLStore) Delete(ctx context.Context, key string) error {
	stmt := "DELETE FROM storage_entries WHERE storage_key = ?"
	_, err := s.db.ExecContext(ctx, stmt, key)
	return err
}

// Clear removes every stored record.
func (s *MySQLStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM storage_entries")
	return err
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
func (s *MySQLStore) PeriodicCleanUp(interval time.Duration, stop <-chan (struct{})) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.deleteExpired()
		case <-stop:
			return
		}
	}
}

func (s *MySQLStore) deleteExpired() {
	stmt := "DELETE FROM storage_entries WHERE expires_at IS NOT NULL AND UTC_TIMESTAMP(6) > expires_at"
	if _, err := s.db.Exec(stmt); err != nil {
		s.log.Err(err).Msg("Failed to delete expired storage entries")
	}
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS storage_entries (
			storage_key VARCHAR(191) COLLATE utf8mb4_bin PRIMARY KEY,
			data BLOB NOT NULL,
			expires_at DATETIME(6) NULL DEFAULT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS storage_entries_expires_at_idx ON storage_entries (expires_at)`)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}
