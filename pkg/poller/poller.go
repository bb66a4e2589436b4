// Package poller keeps the project snapshot fresh while renders are in
// flight. It owns a background ticker that asks the backend to reconcile
// pending renders, reloads the full project list afterwards, and publishes
// what happened as events. The poller arms itself only when the snapshot
// contains unfinished work and disarms as soon as everything settles, so an
// idle dashboard makes no background requests at all.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reelkithq/reelkit/pkg/client"
	"github.com/reelkithq/reelkit/pkg/domain"
)

// API is the slice of the dashboard client the poller drives.
type API interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	CheckPendingVideos(ctx context.Context) (*client.ReconcileResult, error)
}

// EventKind classifies poller events.
type EventKind int

const (
	// EventSnapshot carries a freshly loaded project list.
	EventSnapshot EventKind = iota
	// EventCompleted reports that one or more renders finished this tick.
	EventCompleted
	// EventLoadFailed reports a failed user-driven load.
	EventLoadFailed
	// EventExpired reports that the poller hit its wall-clock ceiling and
	// stopped itself. A fresh Refresh re-arms it.
	EventExpired
)

// Event is a single poller notification.
type Event struct {
	Kind      EventKind
	Projects  []domain.Project
	Completed int
	Err       error
}

// Options tune the poller. Zero values fall back to production defaults.
type Options struct {
	// Interval between reconcile ticks while armed.
	Interval time.Duration
	// Ceiling is the maximum continuous time the poller stays armed. Past
	// it, the poller expires rather than polling a stuck render forever.
	Ceiling time.Duration
	// Grace is the pause between a reconcile call and the follow-up reload,
	// giving the backend time to commit what it just updated.
	Grace time.Duration

	Logger *logrus.Logger
}

func (o *Options) applyDefaults() {
	if o.Interval <= 0 {
		o.Interval = 30 * time.Second
	}
	if o.Ceiling <= 0 {
		o.Ceiling = 20 * time.Minute
	}
	if o.Grace <= 0 {
		o.Grace = 2 * time.Second
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
}

// Poller drives the reconcile loop. Create one with New, read Events, and
// call Close when done.
type Poller struct {
	api   API
	store *Store
	opts  Options
	log   *logrus.Logger

	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// inFlight guards against overlapping reconcile calls. A tick that
	// fires while the previous reconcile is still running is skipped.
	inFlight atomic.Bool

	mu         sync.Mutex
	armed      bool
	expired    bool
	closed     bool
	armedAt    time.Time
	cancelTick context.CancelFunc
}

// New creates a poller over the given API. The poller starts idle; call
// Refresh to load the first snapshot and arm it if anything is in flight.
func New(api API, opts Options) *Poller {
	opts.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		api:    api,
		store:  NewStore(api),
		opts:   opts,
		log:    opts.Logger,
		events: make(chan Event, 16),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Events returns the poller's event stream. The channel is closed by Close.
func (p *Poller) Events() <-chan Event { return p.events }

// Projects returns a copy of the latest snapshot.
func (p *Poller) Projects() []domain.Project { return p.store.Projects() }

// Loaded reports whether at least one load has succeeded.
func (p *Poller) Loaded() bool { return p.store.Loaded() }

// Armed reports whether the background ticker is currently running.
func (p *Poller) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.armed
}

// Expired reports whether the poller hit its ceiling and is waiting for a
// fresh Refresh.
func (p *Poller) Expired() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expired
}

// Prime installs an already-fetched project list as the initial snapshot,
// arming the poller if anything is in flight. It lets a caller that fetched
// the list for its own reasons (say, an auth check at startup) hand it over
// instead of forcing an immediate second round trip.
func (p *Poller) Prime(projects []domain.Project) {
	p.store.replace(projects)
	p.mu.Lock()
	p.evaluateLocked()
	p.mu.Unlock()
	p.emit(Event{Kind: EventSnapshot, Projects: projects})
}

// Refresh performs a user-driven load: fetch the full project list, replace
// the snapshot, clear any expiry, and arm or disarm based on what came back.
// Unlike background reloads, a failure here is returned to the caller.
func (p *Poller) Refresh(ctx context.Context) ([]domain.Project, error) {
	projects, err := p.store.Load(ctx)
	if err != nil {
		p.log.WithError(err).Warn("project load failed")
		p.emit(Event{Kind: EventLoadFailed, Err: err})
		return nil, err
	}

	p.mu.Lock()
	// A deliberate refresh is the one thing that un-expires the poller.
	p.expired = false
	p.evaluateLocked()
	p.mu.Unlock()

	p.emit(Event{Kind: EventSnapshot, Projects: projects})
	return projects, nil
}

// Close stops the ticker, waits for any in-flight reconcile to finish, and
// closes the event channel. Safe to call once.
func (p *Poller) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	close(p.events)
}

// evaluateLocked arms or disarms the ticker to match the snapshot. Callers
// hold p.mu.
func (p *Poller) evaluateLocked() {
	wantArmed := p.store.AnyInFlight() && !p.expired && !p.closed
	switch {
	case wantArmed && !p.armed:
		p.armed = true
		p.armedAt = time.Now()
		tctx, cancel := context.WithCancel(p.ctx)
		p.cancelTick = cancel
		p.wg.Add(1)
		go p.run(tctx)
		p.log.WithField("interval", p.opts.Interval).Debug("poller armed")
	case !wantArmed && p.armed:
		p.disarmLocked()
	}
}

func (p *Poller) disarmLocked() {
	p.armed = false
	if p.cancelTick != nil {
		p.cancelTick()
		p.cancelTick = nil
	}
	p.log.Debug("poller disarmed")
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	p.mu.Lock()
	if !p.armed {
		p.mu.Unlock()
		return
	}
	if time.Since(p.armedAt) >= p.opts.Ceiling {
		p.disarmLocked()
		p.expired = true
		p.mu.Unlock()
		p.log.Warn("poller expired: renders still pending past the ceiling")
		p.emit(Event{Kind: EventExpired})
		return
	}
	p.mu.Unlock()

	if !p.inFlight.CompareAndSwap(false, true) {
		p.log.Debug("reconcile still running, skipping tick")
		return
	}
	p.wg.Add(1)
	go p.reconcile(ctx)
}

// reconcile is one background pass: ask the backend to settle pending
// renders, then reload the snapshot regardless of how many changed. Errors
// here are logged and retried on the next tick; the user only ever sees
// failures from their own refreshes.
func (p *Poller) reconcile(ctx context.Context) {
	defer p.wg.Done()
	defer p.inFlight.Store(false)

	res, err := p.api.CheckPendingVideos(ctx)
	if err != nil {
		p.log.WithError(err).Warn("reconcile failed, will retry next tick")
		return
	}
	if res.Updated > 0 {
		p.log.WithField("updated", res.Updated).Info("renders completed")
		p.emit(Event{Kind: EventCompleted, Completed: res.Updated})
	}

	// Give the backend a moment to commit before re-reading.
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.opts.Grace):
	}

	projects, err := p.store.Load(ctx)
	if err != nil {
		p.log.WithError(err).Warn("background reload failed, will retry next tick")
		return
	}
	p.emit(Event{Kind: EventSnapshot, Projects: projects})

	p.mu.Lock()
	p.evaluateLocked()
	p.mu.Unlock()
}

// emit publishes an event without ever blocking the poller. If the consumer
// has fallen 16 events behind, the oldest information is already stale and
// the event is dropped.
func (p *Poller) emit(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.events <- ev:
	default:
		p.log.WithField("kind", ev.Kind).Debug("event dropped, consumer behind")
	}
}
