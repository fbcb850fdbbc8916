package nosleep

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pevers/nosleep/internal/inhibit"
)

// NoSleep prevents the OS from entering an idle-triggered low-power
// state. It holds at most one active inhibition; starting a new one
// first releases the previous one.
type NoSleep struct {
	mu      sync.Mutex
	backend inhibit.Backend
	sess    *session
	closed  bool

	timeout time.Duration
	log     Logger
	metrics *Metrics
}

// New creates a controller backed by the platform default backend.
func New() (*NoSleep, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates a controller with explicit options. It
// establishes whatever persistent connection the platform backend needs
// (a bus connection on Linux); failure to do so is fatal to construction.
func NewWithOptions(opts Options) (*NoSleep, error) {
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}

	backend := opts.Backend
	if backend == nil {
		var err error
		backend, err = inhibit.NewBackend(inhibit.Config{
			AppName:     opts.AppName,
			Reason:      opts.Reason,
			CallTimeout: opts.CallTimeout,
		})
		if err != nil {
			return nil, newInitError(err)
		}
	}

	return &NoSleep{
		backend: backend,
		timeout: opts.CallTimeout,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}, nil
}

// PreventDisplaySleep starts (or replaces) an inhibition that keeps the
// display awake.
func (n *NoSleep) PreventDisplaySleep() error {
	return n.Start(PreventUserIdleDisplaySleep)
}

// PreventSystemSleep starts (or replaces) an inhibition that keeps the
// system from suspending. The display may still dim.
func (n *NoSleep) PreventSystemSleep() error {
	return n.Start(PreventUserIdleSystemSleep)
}

// Start begins an inhibition of the given kind. An inhibition already
// held is released first; if that release fails, the stale inhibition is
// discarded anyway and Start returns the release error without acquiring
// a new one, leaving the controller idle.
func (n *NoSleep) Start(kind Kind) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return newAcquireError(fmt.Errorf("controller is closed"))
	}

	// Clear any previous inhibition held.
	if err := n.stopLocked(); err != nil {
		return err
	}

	ctx, cancel := n.callContext()
	defer cancel()

	begin := time.Now()
	tokens, err := n.backend.Acquire(ctx, kind)
	if err != nil {
		n.metrics.IncrementAcquireFailures()
		n.log.Error("acquire failed", "kind", kind.String(), "error", err)
		return newAcquireError(err)
	}
	n.metrics.RecordAcquireLatency(time.Since(begin))
	n.metrics.IncrementAcquires()
	n.metrics.SetActiveSessions(1)
	n.sess = newSession(kind, tokens)

	n.log.Info("inhibition started",
		"kind", kind.String(), "locks", len(tokens), "backend", n.backend.Name())
	return nil
}

// Stop releases the current inhibition, if any. Stopping an idle
// controller is a no-op. The controller is idle when Stop returns, even
// if releasing a lock failed; such failures are surfaced as
// warning-severity release errors.
func (n *NoSleep) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopLocked()
}

// stopLocked releases and clears the stored session. Callers hold n.mu.
func (n *NoSleep) stopLocked() error {
	if n.sess == nil {
		return nil
	}
	sess := n.sess
	n.sess = nil
	n.metrics.SetActiveSessions(0)

	ctx, cancel := n.callContext()
	defer cancel()

	if err := sess.releaseAll(ctx, n.backend, n.log, n.metrics); err != nil {
		return err
	}
	n.log.Info("inhibition stopped", "kind", sess.kind.String())
	return nil
}

// Active reports whether an inhibition is currently held.
func (n *NoSleep) Active() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sess != nil
}

// ActiveKind returns the kind of the current inhibition, if one is held.
func (n *NoSleep) ActiveKind() (Kind, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sess == nil {
		return 0, false
	}
	return n.sess.kind, true
}

// Close releases the current inhibition best-effort and tears down the
// backend. The controller is unusable afterwards. The first error
// encountered is returned.
func (n *NoSleep) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true

	first := n.stopLocked()
	if err := n.backend.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// callContext bounds one acquire/release round against the backend.
// Compound acquires may issue a few facility calls; each is additionally
// bounded by the backend's own per-call timeout.
func (n *NoSleep) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*n.timeout)
}
