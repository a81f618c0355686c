package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/server"
	"shipment-dashboard/internal/core/web"
	announcementadapter "shipment-dashboard/internal/features/announcements/adapters"
	announcementhandler "shipment-dashboard/internal/features/announcements/handler"
	announcementservice "shipment-dashboard/internal/features/announcements/service"
	authhandler "shipment-dashboard/internal/features/auth/handler"
	shipmenthandler "shipment-dashboard/internal/features/shipments/handler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd runs the web dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cache.Ping(cmd.Context()); err != nil {
		l.Warn("Cache is unreachable", zap.Error(err))
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}

	authHdl := authhandler.NewAuthHandler(a.auth, renderer)
	shipmentHdl := shipmenthandler.NewShipmentHandler(a.shipments, a.payload, a.formatter, renderer)
	announcementHdl := announcementhandler.NewAnnouncementHandler(
		announcementservice.NewAnnouncementService(announcementadapter.NewCacheAnnouncementRepository(a.cache)),
		renderer,
	)
	renderer.SetViewer(authHdl.Viewer)
	renderer.SetBanner(announcementHdl.Banner)

	srv := server.New(cfg, server.Options{Metrics: a.metrics, Cache: a.cache})

	// Register Routes
	srv.App.Get("/", authHdl.Home)
	srv.App.Get("/login", authHdl.LoginPage)
	srv.App.Post("/login", authHdl.Login)
	srv.App.Get("/register", authHdl.RegisterPage)
	srv.App.Post("/register", authHdl.Register)
	srv.App.Post("/logout", authHdl.Logout)
	srv.App.Get("/profile", authHdl.Profile)
	srv.App.Post("/session/refresh", authHdl.Refresh)
	srv.App.Get("/shipments", authHdl.RequireAuth, shipmentHdl.ListPage)
	srv.App.Get("/api/shipments", authHdl.RequireAuth, shipmentHdl.ListJSON)
	srv.App.Get("/payload-table", shipmentHdl.PayloadPage)
	srv.App.Get("/api/announcement", announcementHdl.CurrentJSON)

	admin := srv.App.Group("/admin", authHdl.RequireAdmin)
	admin.Get("/announcement", announcementHdl.AdminPage)
	admin.Post("/announcement", announcementHdl.Publish)
	admin.Post("/announcement/delete", announcementHdl.Withdraw)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("Server failed to start", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
