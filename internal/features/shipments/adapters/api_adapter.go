package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"shipment-dashboard/internal/core/httpclient"
)

// ShipmentAPIAdapter implements ports.ShipmentSource against the backend REST API.
type ShipmentAPIAdapter struct {
	api       *httpclient.API
	accountID string
}

// NewShipmentAPIAdapter creates an adapter listing the shipments of accountID.
func NewShipmentAPIAdapter(api *httpclient.API, accountID string) *ShipmentAPIAdapter {
	return &ShipmentAPIAdapter{
		api:       api,
		accountID: accountID,
	}
}

// Path returns the collection path of the configured account.
func (a *ShipmentAPIAdapter) Path() string {
	return fmt.Sprintf("/accounts/%s/shipments", url.PathEscape(a.accountID))
}

// List issues GET /accounts/{accountId}/shipments with the given query.
// The bearer token is attached by the client from the request context.
func (a *ShipmentAPIAdapter) List(ctx context.Context, query url.Values) ([]byte, error) {
	return a.api.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   a.Path(),
		Query:  query,
	})
}
