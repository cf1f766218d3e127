package state

import (
	"context"
	"sync"

	"github.com/bluescreen10/reqx"
)

// User is the signed in user state. The token is read from storage when
// the state is created.
type User struct {
	storage *reqx.Storage

	mu    sync.RWMutex
	token string
}

// NewUser returns the user state backed by storage.
func NewUser(ctx context.Context, storage *reqx.Storage) *User {
	return &User{storage: storage, token: storage.Token(ctx)}
}

// Token returns the session token, or "" when signed out.
func (u *User) Token() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.token
}

// LoggedIn reports whether a token is present.
func (u *User) LoggedIn() bool {
	return u.Token() != ""
}

// SetToken stores the token in memory and persists it.
func (u *User) SetToken(ctx context.Context, token string) error {
	if err := u.storage.SetToken(ctx, token); err != nil {
		return err
	}

	u.mu.Lock()
	u.token = token
	u.mu.Unlock()
	return nil
}

// Logout removes the token from memory and storage.
func (u *User) Logout(ctx context.Context) error {
	if err := u.storage.ClearToken(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	u.token = ""
	u.mu.Unlock()
	return nil
}

// Reset reloads the token from storage, which is empty after a forced
// session reset.
func (u *User) Reset(ctx context.Context) {
	token := u.storage.Token(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()
	u.token = token
}
