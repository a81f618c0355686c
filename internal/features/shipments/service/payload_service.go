package service

import (
	"context"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/features/shipments/domain"
	"shipment-dashboard/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// PayloadService reads the raw payload endpoint for the payload table.
type PayloadService struct {
	source ports.PayloadSource
}

// NewPayloadService creates a new instance of PayloadService.
func NewPayloadService(source ports.PayloadSource) *PayloadService {
	return &PayloadService{source: source}
}

// Table fetches and normalizes the payload. A failed fetch yields no
// records and the failure text.
func (s *PayloadService) Table(ctx context.Context) domain.PayloadResult {
	data, err := s.source.Fetch(ctx)
	if err != nil {
		logger.Get().Warn("Payload fetch failed", zap.Error(err))
		return domain.PayloadResult{Records: []domain.Record{}, Error: err.Error()}
	}
	return domain.PayloadResult{Records: domain.Normalize(data)}
}
