package logsink

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	smerrors "github.com/Station-Manager/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoundedQueue(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		q, err := NewBoundedQueue(4, PolicyBlock, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 4, q.Cap())
		assert.Equal(t, 0, q.Len())
		assert.Equal(t, PolicyBlock, q.Policy())
	})

	t.Run("zero capacity", func(t *testing.T) {
		_, err := NewBoundedQueue(0, PolicyBlock, time.Millisecond)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidCapacity))

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, smerrors.Op("logsink.NewBoundedQueue"), cfgErr.Op())
	})

	t.Run("negative capacity", func(t *testing.T) {
		_, err := NewBoundedQueue(-1, PolicyDropOldest, 0)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := NewBoundedQueue(1, OverflowPolicy(42), 0)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestBoundedQueue_FIFO(t *testing.T) {
	for _, policy := range []OverflowPolicy{PolicyBlock, PolicyDropOldest} {
		t.Run(policy.String(), func(t *testing.T) {
			q, err := NewBoundedQueue(8, policy, 10*time.Millisecond)
			require.NoError(t, err)

			for i := 0; i < 8; i++ {
				require.True(t, q.Push(rec(fmt.Sprint(i))))
			}
			for i := 0; i < 8; i++ {
				r, ok := q.Pop(0)
				require.True(t, ok)
				assert.Equal(t, fmt.Sprint(i), r.Message)
			}
			_, ok := q.Pop(0)
			assert.False(t, ok)
		})
	}
}

func TestBoundedQueue_BlockTimeout(t *testing.T) {
	const timeout = 50 * time.Millisecond
	q, err := NewBoundedQueue(1, PolicyBlock, timeout)
	require.NoError(t, err)
	require.True(t, q.Push(rec("a")))

	start := time.Now()
	ok := q.Push(rec("b"))
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+time.Second)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, uint64(0), q.Dropped())
}

func TestBoundedQueue_BlockZeroTimeoutFailsFast(t *testing.T) {
	q, err := NewBoundedQueue(1, PolicyBlock, 0)
	require.NoError(t, err)
	require.True(t, q.Push(rec("a")))

	start := time.Now()
	assert.False(t, q.Push(rec("b")))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestBoundedQueue_BlockWaitsForSpace(t *testing.T) {
	q, err := NewBoundedQueue(1, PolicyBlock, 2*time.Second)
	require.NoError(t, err)
	require.True(t, q.Push(rec("a")))

	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = q.Pop(0)
	}()

	assert.True(t, q.Push(rec("b")))
	r, ok := q.Pop(0)
	require.True(t, ok)
	assert.Equal(t, "b", r.Message)
}

func TestBoundedQueue_DropOldest(t *testing.T) {
	const capacity, pushes = 3, 10
	q, err := NewBoundedQueue(capacity, PolicyDropOldest, 0)
	require.NoError(t, err)

	for i := 0; i < pushes; i++ {
		require.True(t, q.Push(rec(fmt.Sprint(i))))
		assert.LessOrEqual(t, q.Len(), capacity)
	}

	assert.Equal(t, uint64(pushes-capacity), q.Dropped())
	var got []string
	for {
		r, ok := q.Pop(0)
		if !ok {
			break
		}
		got = append(got, r.Message)
	}
	assert.Equal(t, []string{"7", "8", "9"}, got)
}

func TestBoundedQueue_PopTimeout(t *testing.T) {
	q, err := NewBoundedQueue(1, PolicyBlock, 0)
	require.NoError(t, err)

	start := time.Now()
	_, ok := q.Pop(30 * time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestBoundedQueue_ReleaseUnblocksProducers(t *testing.T) {
	q, err := NewBoundedQueue(1, PolicyBlock, 10*time.Second)
	require.NoError(t, err)
	require.True(t, q.Push(rec("a")))

	result := make(chan bool, 1)
	go func() { result <- q.Push(rec("b")) }()

	time.Sleep(20 * time.Millisecond)
	q.release()
	q.release()

	select {
	case ok := <-result:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("Push did not return after release")
	}
}

func TestBoundedQueue_Discard(t *testing.T) {
	q, err := NewBoundedQueue(4, PolicyBlock, 0)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.True(t, q.Push(rec(fmt.Sprint(i))))
	}

	assert.Equal(t, 3, q.discard())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, uint64(3), q.Dropped())
}

func TestBoundedQueue_ConcurrentDropOldestAccounting(t *testing.T) {
	const producers, perProducer, capacity = 8, 500, 16
	q, err := NewBoundedQueue(capacity, PolicyDropOldest, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				assert.True(t, q.Push(rec(fmt.Sprintf("%d-%d", p, i))))
			}
		}(p)
	}
	wg.Wait()

	assert.Equal(t, capacity, q.Len())
	assert.Equal(t, uint64(producers*perProducer-capacity), q.Dropped())
}

func TestBoundedQueue_DropOldestUsesFreedSlot(t *testing.T) {
	q, err := NewBoundedQueue(2, PolicyDropOldest, 0)
	require.NoError(t, err)
	require.True(t, q.Push(rec("a")))
	require.True(t, q.Push(rec("b")))

	r, ok := q.Pop(0)
	require.True(t, ok)
	assert.Equal(t, "a", r.Message)

	require.True(t, q.Push(rec("c")))
	assert.Equal(t, uint64(0), q.Dropped(), "a free slot must be used before evicting")

	require.True(t, q.Push(rec("d")))
	assert.Equal(t, uint64(1), q.Dropped())
	r, _ = q.Pop(0)
	assert.Equal(t, "c", r.Message)
}

func TestBoundedQueue_DropOldestWithConsumer(t *testing.T) {
	const pushes = 5000
	q, err := NewBoundedQueue(4, PolicyDropOldest, 0)
	require.NoError(t, err)

	stop, done := make(chan struct{}), make(chan struct{})
	var popped []int
	go func() {
		defer close(done)
		for {
			r, ok := q.Pop(5 * time.Millisecond)
			if !ok {
				select {
				case <-stop:
					return
				default:
					continue
				}
			}
			var n int
			_, _ = fmt.Sscan(r.Message, &n)
			popped = append(popped, n)
		}
	}()

	for i := 0; i < pushes; i++ {
		require.True(t, q.Push(rec(fmt.Sprint(i))))
	}
	close(stop)
	<-done

	assert.Equal(t, uint64(pushes), uint64(len(popped))+q.Dropped())
	for i := 1; i < len(popped); i++ {
		assert.Less(t, popped[i-1], popped[i], "records must leave in push order")
	}
}
