package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shipment-dashboard/internal/core/cache"
	"shipment-dashboard/internal/features/shipments/domain"
)

const lastResultPrefix = "shipments:last:"

// CacheLastResultStore implements ports.LastResultStore on the shared cache.
type CacheLastResultStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheLastResultStore creates a store keeping collections for ttl.
func NewCacheLastResultStore(c cache.Cache, ttl time.Duration) *CacheLastResultStore {
	return &CacheLastResultStore{
		cache: c,
		ttl:   ttl,
	}
}

// Save stores the collection of the session.
func (s *CacheLastResultStore) Save(ctx context.Context, sessionKey string, records []domain.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal shipments: %w", err)
	}

	if err := s.cache.Set(ctx, lastResultPrefix+sessionKey, data, s.ttl); err != nil {
		return fmt.Errorf("failed to save shipments to cache: %w", err)
	}
	return nil
}

// Load retrieves the collection of the session.
func (s *CacheLastResultStore) Load(ctx context.Context, sessionKey string) ([]domain.Record, bool, error) {
	data, err := s.cache.Get(ctx, lastResultPrefix+sessionKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get shipments from cache: %w", err)
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal shipments: %w", err)
	}
	return records, true, nil
}
