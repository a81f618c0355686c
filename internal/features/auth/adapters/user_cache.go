package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipment-dashboard/internal/core/cache"
	"shipment-dashboard/internal/features/auth/domain"
)

const userKeyPrefix = "user:"

// CacheUserStore implements ports.UserCache on the shared cache.
type CacheUserStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheUserStore creates a user cache whose entries live for ttl.
func NewCacheUserStore(c cache.Cache, ttl time.Duration) *CacheUserStore {
	return &CacheUserStore{cache: c, ttl: ttl}
}

// Get retrieves the cached user.
func (s *CacheUserStore) Get(ctx context.Context, key string) (*domain.User, error) {
	data, err := s.cache.Get(ctx, userKeyPrefix+key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// Set stores the user.
func (s *CacheUserStore) Set(ctx context.Context, key string, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := s.cache.Set(ctx, userKeyPrefix+key, data, s.ttl); err != nil {
		return fmt.Errorf("failed to save user to cache: %w", err)
	}
	return nil
}

// Delete removes the cached user.
func (s *CacheUserStore) Delete(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, userKeyPrefix+key); err != nil {
		return fmt.Errorf("failed to delete user from cache: %w", err)
	}
	return nil
}
