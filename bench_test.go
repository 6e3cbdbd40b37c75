package logsink

import (
	"io"
	"strconv"
	"testing"
	"time"

	smerrors "github.com/Station-Manager/errors"
)

// newBenchSink returns a sink writing JSON lines to io.Discard with a queue
// large enough that Submit rarely waits.
func newBenchSink(b *testing.B, policy OverflowPolicy) *Sink {
	b.Helper()
	cfg := DefaultConfig()
	cfg.ConsoleLogging = false
	cfg.Capacity = 1 << 16
	cfg.OverflowPolicy = policy.String()
	cfg.IdlePollMS = 1
	s, err := New(cfg, NewWriterBackend(io.Discard))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = s.Shutdown(10 * time.Second) })
	return s
}

func makeDetailedChain(depth int) error {
	if depth <= 0 {
		return nil
	}
	err := smerrors.New(smerrors.Op("op_0")).Msg("root cause message")
	for i := 1; i < depth; i++ {
		op := "op_" + strconv.Itoa(i)
		err = smerrors.New(smerrors.Op(op)).Err(err).Msg("wrapped message")
	}
	return err
}

func makeStdWrapChain(depth int) error {
	if depth <= 0 {
		return nil
	}
	err := smerrors.New(smerrors.Op("std_root")).Msg("root cause message")
	for i := 1; i < depth; i++ {
		op := "std_" + strconv.Itoa(i)
		err = smerrors.New(smerrors.Op(op)).Errorf("wrap %d: %w", i, err)
	}
	return err
}

func BenchmarkSubmit_DropOldest(b *testing.B) {
	s := newBenchSink(b, PolicyDropOldest)
	r := NewRecord(LevelInfo, "bench", "hello")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Submit(r)
	}
}

func BenchmarkSubmit_Block(b *testing.B) {
	s := newBenchSink(b, PolicyBlock)
	r := NewRecord(LevelInfo, "bench", "hello")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Submit(r)
	}
}

func BenchmarkSubmit_Filtered(b *testing.B) {
	s := newBenchSink(b, PolicyBlock)
	r := NewRecord(LevelDebug, "bench", "hello")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Submit(r)
	}
}

func BenchmarkLoggerErr_DetailedChain3(b *testing.B) {
	l := newBenchSink(b, PolicyDropOldest).Named("bench")
	err := makeDetailedChain(3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Err(err, "oops")
	}
}

func BenchmarkLoggerErr_DetailedChain6(b *testing.B) {
	l := newBenchSink(b, PolicyDropOldest).Named("bench")
	err := makeDetailedChain(6)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Err(err, "oops")
	}
}

func BenchmarkLoggerErr_StdWrap6(b *testing.B) {
	l := newBenchSink(b, PolicyDropOldest).Named("bench")
	err := makeStdWrapChain(6)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Err(err, "oops")
	}
}

func BenchmarkParallel_Submit(b *testing.B) {
	s := newBenchSink(b, PolicyDropOldest)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		r := NewRecord(LevelInfo, "bench", "hi")
		for pb.Next() {
			s.Submit(r)
		}
	})
}

func BenchmarkEncodeRecord(b *testing.B) {
	wb := NewWriterBackend(io.Discard)
	r := NewRecord(LevelError, "bench", "encoded").WithError(makeDetailedChain(3))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = wb.Write(r)
	}
}
