package handler

import (
	"errors"
	"net/http"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/web"
	"shipment-dashboard/internal/features/announcements/domain"
	"shipment-dashboard/internal/features/announcements/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const adminPath = "/admin/announcement"

// AnnouncementHandler handles HTTP requests for the site announcement.
type AnnouncementHandler struct {
	service  ports.AnnouncementService
	renderer *web.Renderer
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(service ports.AnnouncementService, r *web.Renderer) *AnnouncementHandler {
	return &AnnouncementHandler{
		service:  service,
		renderer: r,
	}
}

// AnnouncementForm is the body of POST /admin/announcement.
type AnnouncementForm struct {
	Title       string         `form:"title" json:"title"`
	Description string         `form:"description" json:"description"`
	Variant     domain.Variant `form:"variant" json:"variant"`
	Duration    int            `form:"duration" json:"duration"` // Seconds
}

// AdminView is the data of the announcement page.
type AdminView struct {
	Current *domain.Announcement
	Form    AnnouncementForm
}

func isValidation(err error) bool {
	return errors.Is(err, domain.ErrInvalidVariant) ||
		errors.Is(err, domain.ErrMissingTitle) ||
		errors.Is(err, domain.ErrInvalidDuration)
}

func (h *AnnouncementHandler) render(c *fiber.Ctx, status int, form AnnouncementForm, notice *web.Notice) error {
	current, err := h.service.Current(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to get announcement", zap.Error(err))
	}
	return h.renderer.Render(c, status, "announcement", web.Page{
		Title:  "Announcement",
		Notice: notice,
		Data:   AdminView{Current: current, Form: form},
	})
}

// AdminPage renders the announcement editor.
func (h *AnnouncementHandler) AdminPage(c *fiber.Ctx) error {
	return h.render(c, http.StatusOK, AnnouncementForm{Variant: domain.VariantInfo}, nil)
}

// Publish handles POST /admin/announcement.
func (h *AnnouncementHandler) Publish(c *fiber.Ctx) error {
	var form AnnouncementForm
	if err := c.BodyParser(&form); err != nil {
		return h.render(c, http.StatusBadRequest, form, web.Failure("Oops!", "Invalid request body"))
	}

	err := h.service.Publish(c.UserContext(), form.Title, form.Description, form.Variant, form.Duration)
	if err != nil {
		if isValidation(err) {
			return h.render(c, http.StatusBadRequest, form, web.Failure("Oops!", err.Error()))
		}
		logger.Get().Error("Failed to publish announcement", zap.Error(err))
		return h.render(c, http.StatusInternalServerError, form, web.Failure("Oops!", "Failed to publish announcement"))
	}

	web.Flash(c, web.Info("Announcement published", form.Title))
	return c.Redirect(adminPath, http.StatusSeeOther)
}

// Withdraw handles POST /admin/announcement/delete.
func (h *AnnouncementHandler) Withdraw(c *fiber.Ctx) error {
	if err := h.service.Withdraw(c.UserContext()); err != nil {
		logger.Get().Error("Failed to withdraw announcement", zap.Error(err))
		web.Flash(c, web.Failure("Oops!", "Failed to withdraw announcement"))
	} else {
		web.Flash(c, web.Info("Announcement withdrawn", "Nothing is showing now"))
	}
	return c.Redirect(adminPath, http.StatusSeeOther)
}

// CurrentJSON handles GET /api/announcement.
// @Summary Get the current announcement
// @Description Retrieves the active site-wide announcement.
// @Tags announcement
// @Produce json
// @Success 200 {object} domain.Announcement
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/announcement [get]
func (h *AnnouncementHandler) CurrentJSON(c *fiber.Ctx) error {
	a, err := h.service.Current(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to get announcement", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if a == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "No active announcement",
		})
	}

	return c.Status(http.StatusOK).JSON(a)
}

// Banner resolves the layout banner. Lookup failures hide it.
func (h *AnnouncementHandler) Banner(c *fiber.Ctx) *web.Banner {
	a, err := h.service.Current(c.UserContext())
	if err != nil {
		logger.Get().Warn("Failed to get announcement", zap.Error(err))
		return nil
	}
	if a == nil {
		return nil
	}
	return &web.Banner{Title: a.Title, Description: a.Description, Variant: string(a.Variant)}
}
