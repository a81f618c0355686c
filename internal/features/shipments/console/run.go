package console

import (
	"context"
	"fmt"
	"io"
	"time"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/metrics"
	"shipment-dashboard/internal/features/shipments/domain"
	"shipment-dashboard/internal/features/shipments/grid"
	"shipment-dashboard/internal/features/shipments/live"
	"shipment-dashboard/internal/features/shipments/ports"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Options configures the console.
type Options struct {
	Lister    ports.ShipmentLister
	Navigator live.Navigator
	Formatter *grid.Formatter
	Debounce  time.Duration
	Metrics   *metrics.Metrics
	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
}

// Run drives the live shipment list in the terminal until the user quits
// or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	log := logger.Named("console")

	var program *tea.Program
	ctrl := live.New(live.Options{
		Lister:    opts.Lister,
		Navigator: opts.Navigator,
		Debounce:  opts.Debounce,
		Metrics:   opts.Metrics,
		OnChange: func(s live.Snapshot) {
			// Send blocks until the program reads it; callbacks can run
			// inside Update through Set.
			go program.Send(SnapshotMsg(s))
		},
	})
	defer ctrl.Close()

	start := func() tea.Msg {
		ctrl.Start(ctx)
		return StartMsg{}
	}

	initial := domain.FiltersFromQuery(opts.Navigator.Query())
	model := NewModel(ctrl, opts.Formatter, initial, start)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	} else {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	program = tea.NewProgram(model, progOpts...)

	log.Info("Console started", zap.String("location", opts.Navigator.Path()))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("console: %w", err)
	}
	log.Info("Console stopped")
	return nil
}
