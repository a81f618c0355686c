package handler

import (
	"net/http"
	"net/url"

	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/core/web"
	"shipment-dashboard/internal/features/shipments/domain"
	"shipment-dashboard/internal/features/shipments/grid"
	"shipment-dashboard/internal/features/shipments/ports"

	"github.com/gofiber/fiber/v2"
)

// ShipmentHandler serves the shipment list and the payload table.
type ShipmentHandler struct {
	shipments ports.ShipmentService
	payload   ports.PayloadService
	formatter *grid.Formatter
	renderer  *web.Renderer
}

// NewShipmentHandler creates a new instance of ShipmentHandler.
func NewShipmentHandler(s ports.ShipmentService, p ports.PayloadService, f *grid.Formatter, r *web.Renderer) *ShipmentHandler {
	return &ShipmentHandler{
		shipments: s,
		payload:   p,
		formatter: f,
		renderer:  r,
	}
}

// ListView is the shipment list as served by /shipments and /api/shipments.
type ListView struct {
	// Filters are the values from the query, as typed.
	Filters domain.Filters `json:"-"`
	// Effective are the filters the backend was queried with.
	Effective EffectiveFilters `json:"filters"`
	Location  string           `json:"location"`
	Grid      grid.Grid        `json:"grid"`
	Error     string           `json:"error,omitempty"`
	Stale     bool             `json:"stale"`
}

// EffectiveFilters is the JSON shape of the applied filters.
type EffectiveFilters struct {
	Status      string `json:"status,omitempty"`
	InvoiceCode string `json:"invoiceCode,omitempty"`
	ExternalID  string `json:"externalId,omitempty"`
}

// PayloadView is the payload table page.
type PayloadView struct {
	Grid  grid.Grid
	Error string
}

func requestQuery(c *fiber.Ctx) url.Values {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return q
}

func sessionKey(c *fiber.Ctx) string {
	store := session.FromFiber(c)
	if t := store.RefreshToken(); t != "" {
		return session.CacheKey(t)
	}
	return session.CacheKey(store.AccessToken())
}

func (h *ShipmentHandler) list(c *fiber.Ctx, filters domain.Filters, location string) ListView {
	eff := filters.Effective()
	res := h.shipments.ListForSession(c.UserContext(), sessionKey(c), eff)
	return ListView{
		Filters:   filters,
		Effective: EffectiveFilters{Status: eff.Status, InvoiceCode: eff.InvoiceCode, ExternalID: eff.ExternalID},
		Location:  location,
		Grid:      grid.Build(res.Records, h.formatter),
		Error:     res.Error,
		Stale:     res.Stale,
	}
}

// ListPage renders the shipment list. A query whose filter parameters are
// not canonical (inactive values present, untrimmed values) is answered
// with a redirect to the canonical location; other parameters are kept.
func (h *ShipmentHandler) ListPage(c *fiber.Ctx) error {
	current := requestQuery(c)
	filters := domain.FiltersFromQuery(current)

	canonical := domain.SyncQuery(current, filters)
	if canonical.Encode() != current.Encode() {
		return c.Redirect(domain.Location(c.Path(), canonical), http.StatusFound)
	}

	return h.renderer.Render(c, http.StatusOK, "shipments", web.Page{
		Title: "Pedidos e fretes",
		Data:  h.list(c, filters, domain.Location(c.Path(), canonical)),
	})
}

// ListJSON returns the shipment grid.
// @Summary List shipments
// @Tags shipments
// @Description Lists the account's shipments as display-ready columns and rows. Filters shorter than four characters are ignored. Fetch failures are reported in the error field and the session's last collection is returned.
// @Produce json
// @Param status query string false "Status filter"
// @Param invoiceCode query string false "Invoice code filter"
// @Param externalId query string false "Order number filter"
// @Success 200 {object} ListView
// @Router /api/shipments [get]
func (h *ShipmentHandler) ListJSON(c *fiber.Ctx) error {
	current := requestQuery(c)
	filters := domain.FiltersFromQuery(current)
	canonical := domain.SyncQuery(current, filters)
	return c.Status(http.StatusOK).JSON(h.list(c, filters, domain.Location("/shipments", canonical)))
}

// PayloadPage renders the raw payload table.
func (h *ShipmentHandler) PayloadPage(c *fiber.Ctx) error {
	res := h.payload.Table(c.UserContext())
	return h.renderer.Render(c, http.StatusOK, "payload", web.Page{
		Title: "Shipment Payload",
		Data: PayloadView{
			Grid:  grid.BuildPayload(res.Records, h.formatter),
			Error: res.Error,
		},
	})
}
