package logsink

import (
	"fmt"
	"time"

	"go.uber.org/atomic"
)

// State is the lifecycle stage of a sink's dispatcher.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// dispatcher is the single goroutine that drains the queue and writes each
// record to every backend in registration order.
type dispatcher struct {
	queue    *BoundedQueue
	backends []Backend
	idlePoll time.Duration

	state atomic.Int32
	stop  chan struct{}
	abort atomic.Bool
	done  chan struct{}

	delivered   atomic.Uint64
	writeErrors atomic.Uint64

	// failing is only touched by the dispatcher goroutine.
	failing []bool
}

func newDispatcher(q *BoundedQueue, backends []Backend, idlePoll time.Duration) *dispatcher {
	if idlePoll <= 0 {
		idlePoll = defaultIdlePollMS * time.Millisecond
	}
	d := &dispatcher{
		queue:    q,
		backends: backends,
		idlePoll: idlePoll,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		failing:  make([]bool, len(backends)),
	}
	d.state.Store(int32(StateCreated))
	return d
}

func (d *dispatcher) State() State {
	return State(d.state.Load())
}

func (d *dispatcher) start() {
	if !d.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		return
	}
	go d.run()
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		if d.abort.Load() {
			return
		}
		r, ok := d.queue.pop(d.idlePoll, d.stop)
		if ok {
			d.dispatch(r)
			continue
		}
		select {
		case <-d.stop:
			// queue observed empty after the stop request
			return
		default:
		}
	}
}

func (d *dispatcher) dispatch(r Record) {
	for i, b := range d.backends {
		err := writeRecord(b, r)
		if err == nil {
			if d.failing[i] {
				d.failing[i] = false
				selfLogEvent(LevelInfo).Int("backend", i).Str("type", fmt.Sprintf("%T", b)).Msg("backend recovered")
			}
			continue
		}
		d.writeErrors.Inc()
		if !d.failing[i] {
			d.failing[i] = true
			selfLogEvent(LevelError).Int("backend", i).Str("type", fmt.Sprintf("%T", b)).Err(err).Msg("backend write failed")
		}
	}
	d.delivered.Inc()
}

// writeRecord calls b.Write, turning a panic into an error.
func writeRecord(b Backend, r Record) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("backend panic: %v", p)
		}
	}()
	return b.Write(r)
}

// beginStop moves RUNNING to STOPPING. Only the first caller gets true.
func (d *dispatcher) beginStop() bool {
	return d.state.CompareAndSwap(int32(StateRunning), int32(StateStopping))
}

// awaitStop lets the worker drain for up to drainTimeout, then forces it to
// stop. A backend write still running at that point gets drainGrace to
// return; after that the worker is left to finish on its own and exited is
// false. Records still queued are discarded and returned as a count.
func (d *dispatcher) awaitStop(drainTimeout time.Duration) (discarded int, exited bool) {
	close(d.stop)

	if drainTimeout > 0 {
		timer := time.NewTimer(drainTimeout)
		select {
		case <-d.done:
		case <-timer.C:
		}
		timer.Stop()
	}
	d.abort.Store(true)

	grace := time.NewTimer(drainGrace)
	select {
	case <-d.done:
		exited = true
	case <-grace.C:
	}
	grace.Stop()

	discarded = d.queue.discard()
	d.state.Store(int32(StateStopped))
	return discarded, exited
}
