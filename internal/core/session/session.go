package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// AccessTokenCookie carries the bearer token.
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie carries the refresh token.
	RefreshTokenCookie = "refresh_token"
	// DefaultMaxAge is the lifetime of both token cookies.
	DefaultMaxAge = 7 * 24 * time.Hour
)

// Store keeps the access and refresh tokens of one session.
type Store interface {
	// AccessToken returns the current access token or "".
	AccessToken() string
	// RefreshToken returns the current refresh token or "".
	RefreshToken() string
	// SetTokens stores the given tokens. Empty values leave the stored token unchanged.
	SetTokens(accessToken, refreshToken string)
	// Clear removes both tokens.
	Clear()
}

type ctxKey struct{}

// WithStore attaches a session store to ctx.
func WithStore(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store attached to ctx, if any.
func FromContext(ctx context.Context) (Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(Store)
	return s, ok && s != nil
}

// AccessTokenFrom returns the access token of the session attached to ctx.
func AccessTokenFrom(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.AccessToken()
	}
	return ""
}

// cacheNamespace scopes the derived cache keys.
var cacheNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("shipment-dashboard/session"))

// CacheKey derives a stable cache key from a token without exposing it.
// It returns "" for an empty token.
func CacheKey(token string) string {
	if token == "" {
		return ""
	}
	return uuid.NewSHA1(cacheNamespace, []byte(token)).String()
}

// MemoryStore is an in-process Store used by the console.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore creates a MemoryStore seeded with the given tokens.
func NewMemoryStore(accessToken, refreshToken string) *MemoryStore {
	return &MemoryStore{access: accessToken, refresh: refreshToken}
}

// AccessToken implements Store.
func (m *MemoryStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access
}

// RefreshToken implements Store.
func (m *MemoryStore) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh
}

// SetTokens implements Store.
func (m *MemoryStore) SetTokens(accessToken, refreshToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if accessToken != "" {
		m.access = accessToken
	}
	if refreshToken != "" {
		m.refresh = refreshToken
	}
}

// Clear implements Store.
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
}
