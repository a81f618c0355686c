package service

import (
	"context"

	"shipment-dashboard/internal/core/httpclient"
	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/metrics"
	"shipment-dashboard/internal/features/shipments/domain"
	"shipment-dashboard/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// DefaultErrorMessage is shown when a failed fetch carries no backend message.
const DefaultErrorMessage = "Failed to load shipments."

// ErrorMessage returns the user-facing text of a fetch failure.
func ErrorMessage(err error) string {
	return httpclient.Message(err, DefaultErrorMessage)
}

// ShipmentService fetches and normalizes the account's shipments.
type ShipmentService struct {
	source  ports.ShipmentSource
	store   ports.LastResultStore
	metrics *metrics.Metrics
}

// NewShipmentService creates a new instance of ShipmentService. store may be nil,
// which disables the per-session fallback.
func NewShipmentService(source ports.ShipmentSource, store ports.LastResultStore, m *metrics.Metrics) *ShipmentService {
	return &ShipmentService{
		source:  source,
		store:   store,
		metrics: m,
	}
}

// List fetches the collection matching the effective filters.
func (s *ShipmentService) List(ctx context.Context, filters domain.Filters) ([]domain.Record, error) {
	payload, err := s.source.List(ctx, filters.Query())
	if err != nil {
		s.metrics.Fetch(metrics.OutcomeFailed)
		return nil, err
	}
	return domain.Normalize(payload), nil
}

// ListForSession lists shipments and keeps the last good collection of the
// session. On failure the previous collection is returned alongside the
// error text. An empty sessionKey skips the store.
func (s *ShipmentService) ListForSession(ctx context.Context, sessionKey string, filters domain.Filters) domain.ListResult {
	records, err := s.List(ctx, filters)
	if err == nil {
		s.metrics.Fetch(metrics.OutcomeCommitted)
		if s.store != nil && sessionKey != "" {
			if err := s.store.Save(ctx, sessionKey, records); err != nil {
				logger.Get().Warn("Failed to keep last shipments", zap.Error(err))
			}
		}
		return domain.ListResult{Records: records}
	}

	logger.Get().Error("Failed to fetch shipments", zap.Error(err))
	res := domain.ListResult{Records: []domain.Record{}, Error: ErrorMessage(err)}

	if s.store == nil || sessionKey == "" {
		return res
	}
	last, ok, loadErr := s.store.Load(ctx, sessionKey)
	if loadErr != nil {
		logger.Get().Warn("Failed to load last shipments", zap.Error(loadErr))
		return res
	}
	if ok {
		res.Records = last
		res.Stale = true
	}
	return res
}
