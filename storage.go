package reqx

import (
	"context"
	"time"
)

// TokenKey is the storage key under which the session token is kept.
const TokenKey = "ACCESS-TOKEN"

// Storage is a typed accessor over a Store. Values are wrapped with a
// Codec so any gob-encodable value can be kept under a key.
//
// Usage:
//
//	st := reqx.NewStorage(memstore.New())
//	st.Set(ctx, reqx.TokenKey, "Bearer abc", 0)
//	token := st.GetString(ctx, reqx.TokenKey)
type Storage struct {
	store    Store
	codec    Codec
	tokenKey string
}

// NewStorage returns a Storage backed by store using the GobCodec.
func NewStorage(store Store) *Storage {
	return &Storage{store: store, codec: GobCodec{}, tokenKey: TokenKey}
}

// SetTokenKey changes the key used by Token and SetToken. (default
// TokenKey)
func (s *Storage) SetTokenKey(key string) {
	s.tokenKey = key
}

// SetCodec replaces the codec used to wrap values.
func (s *Storage) SetCodec(codec Codec) {
	s.codec = codec
}

// Store returns the underlying Store.
func (s *Storage) Store() Store {
	return s.store
}

// Get retrieves the value stored under key. Returns nil and false if the
// key doesn't exist or has expired.
func (s *Storage) Get(ctx context.Context, key string) (any, bool, error) {
	data, found, err := s.store.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	_, value, err := s.codec.Decode(data)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key. A ttl of zero keeps the value until it is
// removed or the storage is cleared.
func (s *Storage) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	now := time.Now()
	data, err := s.codec.Encode(now, value)
	if err != nil {
		return err
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}
	return s.store.Set(ctx, key, data, expiresAt)
}

// Remove deletes the value stored under key.
func (s *Storage) Remove(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

// Clear removes every value from the underlying store.
func (s *Storage) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// GetString retrieves a string value. Returns "" if not found, on lookup
// errors or on type mismatch.
func (s *Storage) GetString(ctx context.Context, key string) string {
	v, _, _ := s.Get(ctx, key)
	str, _ := v.(string)
	return str
}

// GetInt retrieves an int value. Returns 0 if not found or type mismatch.
func (s *Storage) GetInt(ctx context.Context, key string) int {
	v, _, _ := s.Get(ctx, key)
	i, _ := v.(int)
	return i
}

// GetBool retrieves a bool value. Returns false if not found or type
// mismatch.
func (s *Storage) GetBool(ctx context.Context, key string) bool {
	v, _, _ := s.Get(ctx, key)
	b, _ := v.(bool)
	return b
}

// Token returns the stored session token, or "" when there is none.
func (s *Storage) Token(ctx context.Context) string {
	return s.GetString(ctx, s.tokenKey)
}

// SetToken persists the session token.
func (s *Storage) SetToken(ctx context.Context, token string) error {
	return s.Set(ctx, s.tokenKey, token, 0)
}

// ClearToken removes the session token only.
func (s *Storage) ClearToken(ctx context.Context) error {
	return s.Remove(ctx, s.tokenKey)
}
