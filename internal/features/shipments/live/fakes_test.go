package live

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"shipment-dashboard/internal/features/shipments/domain"
)

// manualClock fires timers only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock *manualClock
	at    time.Duration
	f     func()
	done  bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.done
	t.done = true
	return active
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs due callbacks in deadline order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.done && t.at <= c.now {
			t.done = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.f()
	}
}

// lateClock never stops a timer in time: Stop always reports false and
// callbacks run only when the test fires them, in any order.
type lateClock struct {
	mu    sync.Mutex
	funcs []func()
}

type lateTimer struct{}

func (lateTimer) Stop() bool { return false }

func (c *lateClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
	return lateTimer{}
}

func (c *lateClock) fire(i int) {
	c.mu.Lock()
	f := c.funcs[i]
	c.mu.Unlock()
	f()
}

// instantLister answers every call at once with one record echoing the filters.
type instantLister struct {
	mu    sync.Mutex
	calls []domain.Filters
	err   error
}

func (l *instantLister) List(_ context.Context, f domain.Filters) ([]domain.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, f)
	if l.err != nil {
		return nil, l.err
	}
	return []domain.Record{{
		"status":      domain.String(f.Status),
		"invoiceCode": domain.String(f.InvoiceCode),
		"externalId":  domain.String(f.ExternalID),
	}}, nil
}

func (l *instantLister) setErr(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *instantLister) Calls() []domain.Filters {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.Filters(nil), l.calls...)
}

// gatedLister blocks every call until the test replies to it.
type gatedLister struct {
	calls chan *pendingCall
}

type pendingCall struct {
	filters domain.Filters
	reply   chan reply
}

type reply struct {
	records []domain.Record
	err     error
}

func newGatedLister() *gatedLister {
	return &gatedLister{calls: make(chan *pendingCall, 8)}
}

func (l *gatedLister) List(ctx context.Context, f domain.Filters) ([]domain.Record, error) {
	p := &pendingCall{filters: f, reply: make(chan reply, 1)}
	select {
	case l.calls <- p:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case r := <-p.reply:
		return r.records, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *gatedLister) next(t *testing.T) *pendingCall {
	t.Helper()
	select {
	case p := <-l.calls:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch")
		return nil
	}
}
