package ports

import (
	"context"

	"shipment-dashboard/internal/features/announcements/domain"
)

// AnnouncementService defines the primary port for announcement operations.
type AnnouncementService interface {
	Publish(ctx context.Context, title, description string, variant domain.Variant, duration int) error
	// Current returns the active announcement, or nil when there is none.
	Current(ctx context.Context) (*domain.Announcement, error)
	Withdraw(ctx context.Context) error
}

// AnnouncementRepository defines the secondary port for announcement storage.
type AnnouncementRepository interface {
	Save(ctx context.Context, a *domain.Announcement) error
	// Get returns nil, nil when nothing is stored.
	Get(ctx context.Context) (*domain.Announcement, error)
	Delete(ctx context.Context) error
}
