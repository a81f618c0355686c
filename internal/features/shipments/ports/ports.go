package ports

import (
	"context"
	"net/url"

	"shipment-dashboard/internal/features/shipments/domain"
)

// ShipmentSource fetches the raw shipment response of the configured account.
// This is a Secondary Port (Driven Port).
type ShipmentSource interface {
	// List returns the response body for the given filter query.
	List(ctx context.Context, query url.Values) ([]byte, error)
}

// PayloadSource fetches the raw payload rendered by the payload table.
type PayloadSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// LastResultStore keeps the last successful collection of each session.
type LastResultStore interface {
	Save(ctx context.Context, sessionKey string, records []domain.Record) error
	// Load returns the stored collection and whether one exists.
	Load(ctx context.Context, sessionKey string) ([]domain.Record, bool, error)
}

// ShipmentLister is the primary port used by the live controller and the handlers.
type ShipmentLister interface {
	List(ctx context.Context, filters domain.Filters) ([]domain.Record, error)
}

// ShipmentService is the primary port used by the web handlers.
type ShipmentService interface {
	ShipmentLister
	// ListForSession lists and falls back to the session's last good collection.
	ListForSession(ctx context.Context, sessionKey string, filters domain.Filters) domain.ListResult
}

// PayloadService produces the rows of the payload table.
type PayloadService interface {
	Table(ctx context.Context) domain.PayloadResult
}
