package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shipment-dashboard/internal/core/httpclient"
)

// PayloadAdapter implements ports.PayloadSource with a plain GET, no credentials.
type PayloadAdapter struct {
	api *httpclient.API
}

// NewPayloadAdapter creates an adapter for the absolute endpoint URL.
func NewPayloadAdapter(endpoint string, client *http.Client) *PayloadAdapter {
	return &PayloadAdapter{
		api: httpclient.NewAPI(endpoint, client),
	}
}

// Fetch returns the payload body.
func (a *PayloadAdapter) Fetch(ctx context.Context) ([]byte, error) {
	data, err := a.api.Do(ctx, httpclient.Request{Method: http.MethodGet})
	if err != nil {
		var apiErr *httpclient.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("request failed with status %d", apiErr.Status)
		}
		return nil, err
	}
	return data, nil
}
