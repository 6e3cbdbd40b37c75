package logsink

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// BoundedQueue is a FIFO of records with a fixed capacity. It is safe for
// concurrent use by many producers and consumers; Len never exceeds Cap.
type BoundedQueue struct {
	items        chan Record
	policy       OverflowPolicy
	blockTimeout time.Duration
	dropped      atomic.Uint64

	released    chan struct{}
	releaseOnce sync.Once
}

// NewBoundedQueue creates a queue holding at most capacity records.
// blockTimeout bounds how long Push waits under PolicyBlock.
func NewBoundedQueue(capacity int, policy OverflowPolicy, blockTimeout time.Duration) (*BoundedQueue, error) {
	const op = "logsink.NewBoundedQueue"
	if capacity <= 0 {
		return nil, newConfigurationError(op, errMsgInvalidCapacity, ErrInvalidCapacity)
	}
	if policy != PolicyBlock && policy != PolicyDropOldest {
		return nil, newConfigurationError(op, errMsgUnknownPolicy, ErrInvalidConfig)
	}
	if blockTimeout < 0 {
		blockTimeout = 0
	}
	return &BoundedQueue{
		items:        make(chan Record, capacity),
		policy:       policy,
		blockTimeout: blockTimeout,
		released:     make(chan struct{}),
	}, nil
}

// Push appends r. Under PolicyBlock it waits up to the block timeout for space
// and returns false if none frees up. Under PolicyDropOldest it always succeeds,
// evicting and counting the oldest records first.
func (q *BoundedQueue) Push(r Record) bool {
	if q.policy == PolicyDropOldest {
		for {
			select {
			case q.items <- r:
				return true
			default:
			}
			// Full on this attempt: evict one and retry. Another producer may
			// take the freed slot, or a consumer may free one first.
			select {
			case <-q.items:
				q.dropped.Inc()
			default:
			}
		}
	}

	select {
	case q.items <- r:
		return true
	default:
	}

	if q.blockTimeout == 0 {
		return false
	}
	timer := time.NewTimer(q.blockTimeout)
	defer timer.Stop()
	select {
	case q.items <- r:
		return true
	case <-timer.C:
		return false
	case <-q.released:
		return false
	}
}

// Pop removes the oldest record, waiting up to timeout for one to arrive.
// A timeout <= 0 does not wait.
func (q *BoundedQueue) Pop(timeout time.Duration) (Record, bool) {
	return q.pop(timeout, nil)
}

// pop is Pop that also returns early when cancel is closed.
func (q *BoundedQueue) pop(timeout time.Duration, cancel <-chan struct{}) (Record, bool) {
	select {
	case r := <-q.items:
		return r, true
	default:
	}
	if timeout <= 0 {
		return Record{}, false
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-q.items:
		return r, true
	case <-timer.C:
		return Record{}, false
	case <-cancel:
		return Record{}, false
	}
}

// Len returns the number of queued records.
func (q *BoundedQueue) Len() int {
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *BoundedQueue) Cap() int {
	return cap(q.items)
}

// Dropped returns how many records were evicted or discarded.
func (q *BoundedQueue) Dropped() uint64 {
	return q.dropped.Load()
}

// Policy returns the overflow policy.
func (q *BoundedQueue) Policy() OverflowPolicy {
	return q.policy
}

// release wakes every producer blocked in Push; they return false.
func (q *BoundedQueue) release() {
	q.releaseOnce.Do(func() {
		close(q.released)
	})
}

// discard empties the queue, counting every removed record as dropped.
func (q *BoundedQueue) discard() int {
	n := 0
	for {
		select {
		case <-q.items:
			n++
			q.dropped.Inc()
		default:
			return n
		}
	}
}
