package service

import (
	"context"
	"fmt"

	"shipment-dashboard/internal/features/announcements/domain"
	"shipment-dashboard/internal/features/announcements/ports"
)

// AnnouncementService implements ports.AnnouncementService.
type AnnouncementService struct {
	repo ports.AnnouncementRepository
}

// NewAnnouncementService creates a new AnnouncementService.
func NewAnnouncementService(repo ports.AnnouncementRepository) *AnnouncementService {
	return &AnnouncementService{
		repo: repo,
	}
}

// Publish creates and saves an announcement, replacing the current one.
func (s *AnnouncementService) Publish(ctx context.Context, title, description string, variant domain.Variant, duration int) error {
	a, err := domain.NewAnnouncement(title, description, variant, duration)
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return fmt.Errorf("service: failed to save announcement: %w", err)
	}

	return nil
}

// Current retrieves the active announcement.
func (s *AnnouncementService) Current(ctx context.Context) (*domain.Announcement, error) {
	a, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get announcement: %w", err)
	}

	return a, nil
}

// Withdraw deletes the active announcement.
func (s *AnnouncementService) Withdraw(ctx context.Context) error {
	if err := s.repo.Delete(ctx); err != nil {
		return fmt.Errorf("service: failed to remove announcement: %w", err)
	}

	return nil
}
