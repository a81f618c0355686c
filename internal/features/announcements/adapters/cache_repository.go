package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shipment-dashboard/internal/core/cache"
	"shipment-dashboard/internal/features/announcements/domain"
)

const announcementCacheKey = "site_announcement"

// CacheAnnouncementRepository implements ports.AnnouncementRepository on the cache.
type CacheAnnouncementRepository struct {
	cache cache.Cache
}

// NewCacheAnnouncementRepository creates a new CacheAnnouncementRepository.
func NewCacheAnnouncementRepository(c cache.Cache) *CacheAnnouncementRepository {
	return &CacheAnnouncementRepository{
		cache: c,
	}
}

// Save stores the announcement; its duration becomes the key TTL.
func (r *CacheAnnouncementRepository) Save(ctx context.Context, a *domain.Announcement) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal announcement: %w", err)
	}

	if err := r.cache.Set(ctx, announcementCacheKey, data, a.TTL()); err != nil {
		return fmt.Errorf("failed to save announcement to cache: %w", err)
	}

	return nil
}

// Get retrieves the announcement from the cache.
func (r *CacheAnnouncementRepository) Get(ctx context.Context) (*domain.Announcement, error) {
	data, err := r.cache.Get(ctx, announcementCacheKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get announcement from cache: %w", err)
	}

	var a domain.Announcement
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal announcement: %w", err)
	}

	return &a, nil
}

// Delete removes the announcement from the cache.
func (r *CacheAnnouncementRepository) Delete(ctx context.Context) error {
	if err := r.cache.Delete(ctx, announcementCacheKey); err != nil {
		return fmt.Errorf("failed to delete announcement from cache: %w", err)
	}
	return nil
}
