package main

import (
	"context"
	"os"
	"os/signal"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/session"
	"shipment-dashboard/internal/features/shipments/console"
	"shipment-dashboard/internal/features/shipments/domain"
	"shipment-dashboard/internal/features/shipments/live"

	"github.com/spf13/cobra"
)

var consoleFlags struct {
	credentials
	location string
	logFile  string
	filters  map[string]string
}

// consoleCmd browses shipments in the terminal
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Browse shipments with live filters in the terminal",
	Long: `Opens a terminal view of the shipment list. Text filters apply after a
short pause in typing and the status filter applies immediately; the
footer shows the equivalent dashboard location.`,
	RunE: runConsole,
}

func init() {
	f := consoleCmd.Flags()
	addCredentialFlags(f, &consoleFlags.credentials)
	f.StringVar(&consoleFlags.location, "location", "/shipments", "Initial location, e.g. /shipments?status=delivered")
	f.StringVar(&consoleFlags.logFile, "log-file", "dashboard-console.log", "File receiving log output while the console runs")
	consoleFlags.filters = addFilterFlags(f)
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(consoleFlags.logFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	store, err := a.signIn(ctx, consoleFlags.credentials)
	if err != nil {
		return err
	}
	ctx = session.WithStore(ctx, store)

	loc, err := filterLocation(consoleFlags.location, consoleFlags.filters)
	if err != nil {
		return err
	}
	nav, err := live.NewMemoryNavigator(domain.Location(loc.Path, loc.Query()))
	if err != nil {
		return err
	}

	return console.Run(ctx, console.Options{
		Lister:    sessionLister{a: a, store: store},
		Navigator: nav,
		Formatter: a.formatter,
		Debounce:  cfg.Shipments.Debounce(),
		Metrics:   a.metrics,
	})
}

// sessionLister lists shipments with the console's session, renewing the
// access token once when the backend rejects it.
type sessionLister struct {
	a     *app
	store session.Store
}

func (s sessionLister) List(ctx context.Context, filters domain.Filters) ([]domain.Record, error) {
	ctx = session.WithStore(ctx, s.store)
	records, err := s.a.shipments.List(ctx, filters)
	if err == nil || !isUnauthorized(err) || s.store.RefreshToken() == "" {
		return records, err
	}
	if rerr := s.a.auth.Refresh(ctx, s.store); rerr != nil {
		return nil, err
	}
	return s.a.shipments.List(ctx, filters)
}
