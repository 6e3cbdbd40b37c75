package logsink

import (
	"fmt"
	"runtime/debug"
	"time"

	"go.uber.org/atomic"
)

// TimeCall runs fn and records how long it took. A successful call produces
// one info record and returns fn's result unchanged. A returned error produces
// one error record carrying the error chain, and the same error is returned.
// A panic produces one error record and is then re-raised with its original
// value.
func TimeCall[T any](s Submitter, name string, fn func() (T, error)) (result T, err error) {
	start := time.Now()
	completed := false
	defer func() {
		if completed {
			return
		}
		p := recover()
		if p == nil {
			// runtime.Goexit
			return
		}
		submitTo(s, panicRecord(name, time.Since(start), p))
		panic(p)
	}()

	result, err = fn()
	completed = true

	elapsed := time.Since(start)
	if err != nil {
		submitTo(s, NewRecord(LevelError, emptyString,
			fmt.Sprintf("Exception in %s after %s: %v", name, elapsed, err)).WithError(err))
		return result, err
	}
	submitTo(s, NewRecord(LevelInfo, emptyString, fmt.Sprintf("%s executed in %s", name, elapsed)))
	return result, nil
}

// Timed wraps fn so that every call goes through TimeCall.
func Timed[T any](s Submitter, name string, fn func() (T, error)) func() (T, error) {
	return func() (T, error) {
		return TimeCall(s, name, fn)
	}
}

// Timing measures a scope. Create it with ScopedTiming and release it with a
// deferred Done:
//
//	func train() (err error) {
//		defer logsink.ScopedTiming(sink, "epoch").Done(&err)
//		...
//	}
type Timing struct {
	s     Submitter
	name  string
	start time.Time
	done  atomic.Bool
}

// ScopedTiming starts a timer for the named scope.
func ScopedTiming(s Submitter, name string) *Timing {
	return &Timing{s: s, name: name, start: time.Now()}
}

// Elapsed returns the time since the scope started.
func (t *Timing) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Done records the scope's duration: at info level when *errp is nil, at error
// level when it holds an error or when the scope is panicking. A panic is
// re-raised after it is recorded; this needs Done itself to be the deferred
// call. Only the first call records anything.
func (t *Timing) Done(errp *error) {
	if !t.done.CompareAndSwap(false, true) {
		return
	}
	elapsed := time.Since(t.start)

	if p := recover(); p != nil {
		submitTo(t.s, panicRecord(t.name, elapsed, p))
		panic(p)
	}

	if errp != nil && *errp != nil {
		submitTo(t.s, NewRecord(LevelError, emptyString,
			fmt.Sprintf("%s failed after %s: %v", t.name, elapsed, *errp)).WithError(*errp))
		return
	}
	submitTo(t.s, NewRecord(LevelInfo, emptyString, fmt.Sprintf("%s executed in %s", t.name, elapsed)))
}

func panicRecord(name string, elapsed time.Duration, p any) Record {
	r := NewRecord(LevelError, emptyString, fmt.Sprintf("Panic in %s after %s: %v", name, elapsed, p))
	r.Exception = fmt.Sprintf("%v\n%s", p, debug.Stack())
	return r
}

// submitTo sends r to s, or to the self-log when there is no submitter.
func submitTo(s Submitter, r Record) {
	if s != nil {
		s.Submit(r)
		return
	}
	e := selfLogEvent(r.Level)
	if r.Logger != emptyString {
		e = e.Str(loggerFieldName, r.Logger)
	}
	if r.Exception != emptyString {
		e = e.Str(exceptionFieldName, r.Exception)
	}
	e.Msg(r.Message)
}
