package live

import (
	"context"
	"sync"
	"time"

	"shipment-dashboard/internal/core/logger"
	"shipment-dashboard/internal/core/metrics"
	"shipment-dashboard/internal/features/shipments/domain"
	"shipment-dashboard/internal/features/shipments/ports"
	"shipment-dashboard/internal/features/shipments/service"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a text filter applies.
const DefaultDebounce = 400 * time.Millisecond

// Snapshot is the visible state of the list at one point.
type Snapshot struct {
	// Version increases with every change; consumers drop older snapshots.
	Version uint64
	// Filters are the values as typed.
	Filters domain.Filters
	// Effective are the filters the current collection was requested with.
	Effective domain.Filters
	Records   []domain.Record
	Error     string
	Loading   bool
	Location  string
}

// Options configures a Controller.
type Options struct {
	Lister    ports.ShipmentLister
	Navigator Navigator
	// Clock defaults to RealClock.
	Clock Clock
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	Metrics  *metrics.Metrics
	// OnChange receives every new snapshot. It runs outside the controller
	// lock and may be called from several goroutines.
	OnChange func(Snapshot)
}

// Controller owns the filter state of the shipment list: it debounces the
// text filters, mirrors active filters into the location and fetches the
// collection whenever the effective filters change. Only the latest fetch
// may commit.
type Controller struct {
	lister   ports.ShipmentLister
	nav      Navigator
	clock    Clock
	debounce time.Duration
	metrics  *metrics.Metrics
	onChange func(Snapshot)
	log      *zap.Logger

	mu sync.Mutex
	// raw holds typed values; applied holds the values after debounce.
	raw     domain.Filters
	applied domain.Filters
	// current is the effective filter set of the latest fetch.
	current    domain.Filters
	timers     map[domain.Field]pending
	timerSeq   uint64
	generation uint64
	version    uint64
	records    []domain.Record
	errText    string
	loading    bool
	started    bool
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// pending is a scheduled debounce; seq identifies it so a late callback
// cannot settle or untrack a newer one.
type pending struct {
	timer Timer
	seq   uint64
}

// New creates a Controller seeded from the navigator's query.
func New(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	seed := domain.FiltersFromQuery(opts.Navigator.Query())
	return &Controller{
		lister:   opts.Lister,
		nav:      opts.Navigator,
		clock:    opts.Clock,
		debounce: opts.Debounce,
		metrics:  opts.Metrics,
		onChange: opts.OnChange,
		log:      logger.Named("live"),
		raw:      seed,
		applied:  seed,
		timers:   make(map[domain.Field]pending),
		records:  []domain.Record{},
	}
}

// Start syncs the location and issues the initial fetch. Fetches run under
// ctx until Close. Calling Start twice is a no-op.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)

	eff := c.applied.Effective()
	c.syncLocationLocked(eff)
	c.fetchLocked(eff)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// Set records a keystroke. Status applies immediately; invoice code and
// external id apply after the debounce period, each keystroke restarting
// its timer.
func (c *Controller) Set(field domain.Field, value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.raw = c.raw.With(field, value)

	if field == domain.FieldStatus {
		c.applied = c.applied.With(field, value)
		c.applyLocked()
	} else {
		if p, ok := c.timers[field]; ok {
			p.timer.Stop()
		}
		c.timerSeq++
		seq := c.timerSeq
		c.timers[field] = pending{
			timer: c.clock.AfterFunc(c.debounce, func() {
				c.settle(field, seq, value)
			}),
			seq: seq,
		}
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// settle applies a debounced value once its timer fires.
func (c *Controller) settle(field domain.Field, seq uint64, value string) {
	c.mu.Lock()
	if p, ok := c.timers[field]; c.closed || !ok || p.seq != seq {
		c.mu.Unlock()
		return
	}
	delete(c.timers, field)
	c.applied = c.applied.With(field, value)
	if !c.applyLocked() {
		c.mu.Unlock()
		return
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// applyLocked syncs and refetches when the effective filters changed. It
// reports whether anything happened.
func (c *Controller) applyLocked() bool {
	if !c.started {
		return false
	}
	eff := c.applied.Effective()
	if eff == c.current {
		return false
	}
	c.syncLocationLocked(eff)
	c.fetchLocked(eff)
	return true
}

func (c *Controller) syncLocationLocked(eff domain.Filters) {
	current := c.nav.Query()
	next := domain.SyncQuery(current, eff)
	if next.Encode() == current.Encode() {
		return
	}
	c.nav.Replace(domain.Location(c.nav.Path(), next))
}

func (c *Controller) fetchLocked(eff domain.Filters) {
	c.generation++
	gen := c.generation
	c.current = eff
	c.loading = true

	ctx := c.ctx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		records, err := c.lister.List(ctx, eff)
		c.resolve(gen, records, err)
	}()
}

// resolve commits a fetch result if it is still the latest one.
func (c *Controller) resolve(gen uint64, records []domain.Record, err error) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		c.metrics.Fetch(metrics.OutcomeDiscarded)
		c.log.Debug("Discarded stale shipment fetch", zap.Uint64("generation", gen))
		return
	}

	c.loading = false
	if err != nil {
		// the collection already on screen is kept
		c.errText = service.ErrorMessage(err)
		c.log.Error("Failed to fetch shipments", zap.Error(err))
	} else {
		c.records = records
		c.errText = ""
		c.metrics.Fetch(metrics.OutcomeCommitted)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

func (c *Controller) snapshotLocked() Snapshot {
	c.version++
	return c.stateLocked()
}

func (c *Controller) stateLocked() Snapshot {
	return Snapshot{
		Version:   c.version,
		Filters:   c.raw,
		Effective: c.current,
		Records:   c.records,
		Error:     c.errText,
		Loading:   c.loading,
		Location:  domain.Location(c.nav.Path(), c.nav.Query()),
	}
}

func (c *Controller) emit(s Snapshot) {
	if c.onChange != nil {
		c.onChange(s)
	}
}

// Snapshot returns the current state without bumping the version.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Close stops pending timers, cancels in-flight fetches and waits for them.
// No result commits after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for field, p := range c.timers {
		p.timer.Stop()
		delete(c.timers, field)
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	c.wg.Wait()
}
