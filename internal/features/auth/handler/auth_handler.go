package handler

import (
	"errors"
	"net/http"

	"shipment-dashboard/internal/core/httpclient"
	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/core/web"
	"shipment-dashboard/internal/features/auth/domain"
	"shipment-dashboard/internal/features/auth/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler serves the sign-in, registration, logout and profile pages.
type AuthHandler struct {
	service  ports.AuthService
	renderer *web.Renderer
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(s ports.AuthService, r *web.Renderer) *AuthHandler {
	return &AuthHandler{
		service:  s,
		renderer: r,
	}
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// RegisterForm is the registration form.
type RegisterForm struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// RefreshResponse is the body of POST /session/refresh.
type RefreshResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	RayID   string `json:"ray_id,omitempty"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// Home renders the landing page.
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	return h.renderer.Render(c, http.StatusOK, "home", web.Page{})
}

// LoginPage renders the sign-in form.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.renderer.Render(c, http.StatusOK, "login", web.Page{Title: "Sign In", Data: LoginForm{}})
}

// Login handles the sign-in form. On success the tokens are stored in
// cookies and the browser is sent home with a welcome notice.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form LoginForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderer.Render(c, http.StatusBadRequest, "login", web.Page{
			Title:  "Sign In",
			Notice: web.Failure("Oops!", "Login failed"),
			Data:   form,
		})
	}

	user, err := h.service.Login(c.UserContext(), session.FromFiber(c), domain.LoginRequest{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		logger.Get().Warn("Login failed", zap.String("ray_id", rayID(c)), zap.Error(err))
		form.Password = ""
		return h.renderer.Render(c, failureStatus(err), "login", web.Page{
			Title:  "Sign In",
			Notice: web.Failure("Oops!", httpclient.Message(err, "Login failed")),
			Data:   form,
		})
	}

	web.Flash(c, web.Info("Welcome back!", "Signed in as "+user.Email))
	return c.Redirect("/", http.StatusSeeOther)
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return h.renderer.Render(c, http.StatusOK, "register", web.Page{Title: "Create account", Data: RegisterForm{}})
}

// Register handles the registration form.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderer.Render(c, http.StatusBadRequest, "register", web.Page{
			Title:  "Create account",
			Notice: web.Failure("Oops!", "Registration failed"),
			Data:   form,
		})
	}

	_, err := h.service.Register(c.UserContext(), session.FromFiber(c), domain.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		logger.Get().Warn("Registration failed", zap.String("ray_id", rayID(c)), zap.Error(err))
		form.Password = ""
		return h.renderer.Render(c, failureStatus(err), "register", web.Page{
			Title:  "Create account",
			Notice: web.Failure("Oops!", httpclient.Message(err, "Registration failed")),
			Data:   form,
		})
	}

	web.Flash(c, web.Info("Welcome!", "Account created successfully"))
	return c.Redirect("/", http.StatusSeeOther)
}

// Logout signs out. The cookies are cleared even when the backend fails.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), session.FromFiber(c)); err != nil {
		logger.Get().Warn("Logout failed", zap.String("ray_id", rayID(c)), zap.Error(err))
		web.Flash(c, web.Failure("Oops!", httpclient.Message(err, "Logout failed")))
	} else {
		web.Flash(c, web.Info("Signed out", "You have been signed out"))
	}
	return c.Redirect("/", http.StatusSeeOther)
}

// Profile renders the signed-in user.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.service.Profile(c.UserContext(), session.FromFiber(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return c.Redirect("/login", http.StatusFound)
		}
		logger.Get().Error("Failed to fetch profile", zap.String("ray_id", rayID(c)), zap.Error(err))
		return h.renderer.Render(c, http.StatusBadGateway, "error", web.Page{
			Title: "Profile",
			Data:  httpclient.Message(err, "Failed to load profile."),
		})
	}

	return h.renderer.Render(c, http.StatusOK, "profile", web.Page{
		Title:  "Profile",
		Viewer: viewerOf(user),
		Data:   user,
	})
}

// Refresh renews the session tokens.
// @Summary Refresh session
// @Tags auth
// @Description Exchanges the refresh_token cookie for a new token pair and rewrites both cookies.
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} RefreshResponse
// @Router /session/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	if err := h.service.Refresh(c.UserContext(), session.FromFiber(c)); err != nil {
		return c.Status(http.StatusUnauthorized).JSON(RefreshResponse{
			Success: false,
			Message: "Refresh failed",
			RayID:   rayID(c),
		})
	}
	return c.Status(http.StatusOK).JSON(RefreshResponse{Success: true})
}

// RequireAuth sends visitors without a session to the sign-in page.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	store := session.FromFiber(c)
	if store.AccessToken() == "" && store.RefreshToken() == "" {
		return c.Redirect("/login", http.StatusFound)
	}
	return c.Next()
}

// RequireAdmin lets only admins through; visitors go to the sign-in page.
func (h *AuthHandler) RequireAdmin(c *fiber.Ctx) error {
	viewer := h.Viewer(c)
	if viewer == nil {
		return c.Redirect("/login", http.StatusFound)
	}
	if !viewer.IsAdmin {
		return h.renderer.Render(c, http.StatusForbidden, "error", web.Page{
			Title:  "Forbidden",
			Viewer: viewer,
			Data:   "This page is only available to admins.",
		})
	}
	return c.Next()
}

// Viewer resolves the header user of a request; visitors without tokens
// never reach the backend.
func (h *AuthHandler) Viewer(c *fiber.Ctx) *web.Viewer {
	store := session.FromFiber(c)
	if store.AccessToken() == "" && store.RefreshToken() == "" {
		return nil
	}
	user, err := h.service.Profile(c.UserContext(), store)
	if err != nil {
		return nil
	}
	return viewerOf(user)
}

func viewerOf(u *domain.User) *web.Viewer {
	if u == nil {
		return nil
	}
	return &web.Viewer{Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

// failureStatus maps a backend failure to the status of the re-rendered form.
func failureStatus(err error) int {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}
