package logsink

import (
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Sink is an asynchronous log sink. Any number of goroutines may Submit; one
// dispatcher goroutine per sink writes to the backends. Each Sink is
// independent: a process wanting a single sink holds one instance.
type Sink struct {
	mu        sync.RWMutex
	cfg       Config
	threshold Level
	queue     *BoundedQueue
	disp      *dispatcher
	backends  []Backend

	enqueued atomic.Uint64
	rejected atomic.Uint64
	filtered atomic.Uint64
}

// Stats is a point-in-time view of a sink's counters.
type Stats struct {
	Enqueued    uint64
	Delivered   uint64
	Dropped     uint64
	Rejected    uint64
	Filtered    uint64
	WriteErrors uint64
	Queued      int
}

// NewSink returns an unconfigured sink.
func NewSink() *Sink {
	return &Sink{}
}

// New returns a sink configured with cfg and the given backends.
func New(cfg Config, backends ...Backend) (*Sink, error) {
	s := NewSink()
	if err := s.Configure(cfg, backends...); err != nil {
		return nil, err
	}
	return s, nil
}

// Configure validates cfg and starts the dispatcher. Without explicit backends,
// the backends enabled in cfg are built. Configure fails with
// ErrAlreadyConfigured on a running sink and with ErrSinkStopped after
// Shutdown: a stopped sink is never restarted.
func (s *Sink) Configure(cfg Config, backends ...Backend) error {
	const op = "logsink.Sink.Configure"
	if s == nil {
		return newConfigurationError(op, errMsgNilSink, ErrInvalidConfig)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disp != nil {
		if s.disp.State() == StateRunning {
			return newConfigurationError(op, errMsgAlreadyConfig, ErrAlreadyConfigured)
		}
		return newConfigurationError(op, errMsgSinkStopped, ErrSinkStopped)
	}

	if err := validateConfig(&cfg); err != nil {
		return err
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	policy, err := ParsePolicy(cfg.OverflowPolicy)
	if err != nil {
		return err
	}

	if len(backends) == 0 {
		if backends, err = BackendsFromConfig(cfg); err != nil {
			return err
		}
	}
	owned := make([]Backend, 0, len(backends))
	for _, b := range backends {
		if b != nil {
			owned = append(owned, b)
		}
	}
	if len(owned) == 0 {
		return newConfigurationError(op, errMsgNoBackends, ErrInvalidConfig)
	}

	q, err := NewBoundedQueue(cfg.Capacity, policy, cfg.BlockTimeout())
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.threshold = level
	s.queue = q
	s.backends = owned
	s.disp = newDispatcher(q, owned, cfg.IdlePoll())
	s.disp.start()
	return nil
}

// Submit queues r for delivery and reports whether it was accepted. Records
// with an unknown level or below the configured level, records submitted to a sink that is not
// running, and records refused by a full blocking queue return false.
// Submit only blocks under the block policy, for at most the block timeout.
func (s *Sink) Submit(r Record) bool {
	if s == nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.disp == nil || s.disp.State() != StateRunning {
		return false
	}
	if !r.Level.Valid() || r.Level < s.threshold {
		s.filtered.Inc()
		return false
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	// Counted before the push so a concurrent Flush never misses a record
	// that is already in the queue.
	s.enqueued.Inc()
	if !s.queue.Push(r) {
		s.enqueued.Dec()
		s.rejected.Inc()
		return false
	}
	return true
}

// Enabled reports whether a record at level would pass the sink's threshold.
func (s *Sink) Enabled(level Level) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disp != nil && level >= s.threshold
}

// Flush waits until every record accepted before the call has been written or
// dropped, or until timeout elapses. It does not stop the dispatcher and
// reports whether the sink caught up.
func (s *Sink) Flush(timeout time.Duration) bool {
	if s == nil {
		return true
	}
	s.mu.RLock()
	d, q := s.disp, s.queue
	s.mu.RUnlock()
	if d == nil {
		return true
	}

	target := s.enqueued.Load()
	caughtUp := func() bool {
		// a push counted in target may since have been rejected
		t := target
		if cur := s.enqueued.Load(); cur < t {
			t = cur
		}
		return d.delivered.Load()+q.Dropped() >= t
	}
	if caughtUp() {
		return true
	}
	if timeout <= 0 {
		return false
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(flushPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if caughtUp() {
				return true
			}
		case <-d.done:
			return caughtUp()
		case <-deadline.C:
			return caughtUp()
		}
	}
}

// Shutdown stops intake, lets the dispatcher drain for up to drainTimeout,
// discards whatever is left (counted as dropped) and closes backends that
// implement io.Closer. A backend write that outlives the deadline by more than
// a short grace period is not waited for: Shutdown returns and the backends
// are closed in the background once that write returns. It is safe to call
// more than once; only the first call does any work. Shutdown on a sink that
// was never configured is a no-op.
func (s *Sink) Shutdown(drainTimeout time.Duration) error {
	if s == nil {
		return nil
	}

	s.mu.RLock()
	d, q := s.disp, s.queue
	s.mu.RUnlock()
	if d == nil {
		return nil
	}

	// Wake producers blocked on a full queue before taking the write lock;
	// they hold the read lock while waiting.
	q.release()

	s.mu.Lock()
	first := d.beginStop()
	s.mu.Unlock()
	if !first {
		return nil
	}

	discarded, exited := d.awaitStop(drainTimeout)
	if discarded > 0 && s.cfg.DrainTimeoutWarning {
		selfLogEvent(LevelWarn).
			Int("discarded", discarded).
			Dur("drain_timeout", drainTimeout).
			Msg(errMsgShutdownExceeded)
	}

	if !exited {
		if s.cfg.DrainTimeoutWarning {
			selfLogEvent(LevelWarn).Dur("drain_timeout", drainTimeout).Msg(errMsgWriteAbandoned)
		}
		// Backends are only closed once nothing can write to them.
		go func() {
			<-d.done
			if err := closeBackends(s.backends); err != nil {
				selfLogEvent(LevelError).Err(err).Msg(errMsgCloseBackends)
			}
		}()
		return nil
	}
	return closeBackends(s.backends)
}

// closeBackends closes every backend that implements io.Closer.
func closeBackends(backends []Backend) error {
	var errs []error
	for _, b := range backends {
		if c, ok := b.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close shuts the sink down using the configured drain timeout.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	timeout := s.cfg.DrainTimeout()
	s.mu.RUnlock()
	return s.Shutdown(timeout)
}

// State returns the dispatcher lifecycle stage.
func (s *Sink) State() State {
	if s == nil {
		return StateCreated
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.disp == nil {
		return StateCreated
	}
	return s.disp.State()
}

// Stats returns the sink's counters.
func (s *Sink) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	s.mu.RLock()
	d, q := s.disp, s.queue
	s.mu.RUnlock()

	st := Stats{
		Enqueued: s.enqueued.Load(),
		Rejected: s.rejected.Load(),
		Filtered: s.filtered.Load(),
	}
	if d != nil {
		st.Delivered = d.delivered.Load()
		st.WriteErrors = d.writeErrors.Load()
		st.Dropped = q.Dropped()
		st.Queued = q.Len()
	}
	return st
}
