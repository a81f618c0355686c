package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shipment-dashboard/internal/core/cache"
	"shipment-dashboard/internal/core/config"
	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/metrics"
	"shipment-dashboard/internal/core/session"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "shipment-dashboard/docs/swagger"
)

// RayIDHeader carries the request ID on requests and responses.
const RayIDHeader = "X-Ray-ID"

// ErrorResponse is the JSON error body of API routes.
type ErrorResponse struct {
	Message string `json:"message"`
	RayID   string `json:"ray_id"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// Options are the shared components the server exposes.
type Options struct {
	// Metrics is served on /metrics when set.
	Metrics *metrics.Metrics
	// Cache is pinged by /healthz when set.
	Cache cache.Cache
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig, opts Options) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "shipment-dashboard",
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header: RayIDHeader,
	}))

	app.Use(recover.New(recover.Config{
		EnableStackTrace: cfg.Environment == "development",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
		SkipURIs: []string{
			"/healthz",
			"/metrics",
		},
	}))

	app.Use(session.Middleware(cfg.Session.TokenMaxAge(), cfg.Session.CookieSecure))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", healthHandler(opts.Cache))
	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// healthHandler godoc
// @Summary Health check
// @Description Reports whether the dashboard and its cache are reachable.
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func healthHandler(c cache.Cache) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		resp := HealthResponse{Status: "ok", Cache: "disabled"}
		if c == nil {
			return ctx.JSON(resp)
		}
		if err := c.Ping(ctx.UserContext()); err != nil {
			logger.Get().Warn("Cache health check failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Cache = "unreachable"
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
		resp.Cache = "ok"
		return ctx.JSON(resp)
	}
}

// errorHandler answers API routes with ErrorResponse and pages with plain text.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	rayID, _ := c.Locals("requestid").(string)
	if code >= fiber.StatusInternalServerError {
		logger.Get().Error("Request failed",
			zap.String("ray_id", rayID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	if strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/session/") {
		return c.Status(code).JSON(ErrorResponse{Message: err.Error(), RayID: rayID})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(err.Error())
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Get().Info("Shutting down server")
	return s.App.ShutdownWithContext(ctx)
}
