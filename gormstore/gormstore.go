// Package gormstore provides a gorm storage implementation.
//
// GORMStore allows storing, retrieving, and deleting values keyed by a
// string. Each record may carry an expiration time, and the store
// supports periodic cleanup of expired records.
package gormstore

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bluescreen10/reqx"
)

var _ reqx.Store = &GORMStore{}

// GORMStore is a gorm backed storage for client state.
type GORMStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// entry represents a single stored value. A nil ExpiresAt never expires.
type entry struct {
	StorageKey string `gorm:"primaryKey;size:191"`
	Data       []byte
	ExpiresAt  *time.Time `gorm:"index"`
}

func (entry) TableName() string {
	return "storage_entries"
}

// New creates and returns a new GORMStore instance.
// If the storage_entries table doesn't exist it is created.
func New(db *gorm.DB) (*GORMStore, error) {
	s := &GORMStore{db: db, log: zerolog.Nop()}
	return s, db.AutoMigrate(&entry{})
}

// SetLogger sets the logger used to report cleanup failures.
func (s *GORMStore) SetLogger(log zerolog.Logger) {
	s.log = log
}

// Get retrieves the data associated with the given key. Returns the data,
// a boolean indicating whether the key was found and not expired, and an
// error.
func (s *GORMStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e := &entry{}
	tx := s.db.WithContext(ctx).
		Where("storage_key = ? AND (expires_at IS NULL OR expires_at >= ?)", key, time.Now()).
		Limit(1).
		Find(e)
	if tx.Error != nil || tx.RowsAffected == 0 {
		return nil, false, tx.Error
	}

	return e.Data, true, nil
}

// Set stores the data under the given key. If a record with the same key
// already exists, it is overwritten. A zero expiresAt never expires.
func (s *GORMStore) Set(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	e := &entry{StorageKey: key, Data: data}
	if !expiresAt.IsZero() {
		e.ExpiresAt = &expiresAt
	}

	tx := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(e)
	return tx.Error
}

// Delete removes the data associated with the given key.
func (s *GORMStore) Delete(ctx context.Context, key string) error {
	tx := s.db.WithContext(ctx).Delete(&entry{}, "storage_key = ?", key)
	return tx.Error
}

// Clear removes every stored record.
func (s *GORMStore) Clear(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entry{})
	return tx.Error
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
func (s *GORMStore) PeriodicCleanUp(interval time.Duration, stop <-chan (struct{})) {
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

// deleteExpired removes all expired records.
func (s *GORMStore) deleteExpired() {
	tx := s.db.Delete(&entry{}, "expires_at IS NOT NULL AND expires_at < ?", time.Now())
	if tx.Error != nil {
		s.log.Err(tx.Error).Msg("Failed to delete expired storage entries")
	}
}
