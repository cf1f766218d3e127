package reqx

import (
	"context"
	"time"
)

// Store defines the interface for persisted client state. A Store keeps
// opaque values keyed by a string, the way a browser keeps localStorage.
// Implementations may keep data in memory, on disk, in a cache or in a
// database.
//
// An expiresAt equal to the zero time means the value never expires.
type Store interface {
	// Get retrieves the data stored under key. It returns the raw data,
	// a boolean indicating whether the key was found and not expired,
	// and an error if the lookup failed.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Set stores data under key until expiresAt. An existing value for
	// the same key is overwritten.
	Set(ctx context.Context, key string, data []byte, expiresAt time.Time) error

	// Delete removes the value stored under key. It must not return an
	// error if the key does not exist.
	Delete(ctx context.Context, key string) error

	// Clear removes every value owned by the store. It is used when the
	// server invalidates the session and all local state must go.
	Clear(ctx context.Context) error
}
