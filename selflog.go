package logsink

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// selfLogger receives the sink's own diagnostics: backend failures, drain
// timeouts and probe warnings. It is disabled until EnableSelfLog is called.
var selfLogger atomic.Pointer[zerolog.Logger]

// EnableSelfLog sends internal diagnostics to w in console format.
// w is wrapped so concurrent writes from several sinks do not interleave.
func EnableSelfLog(w io.Writer) {
	if w == nil {
		return
	}
	cw := zerolog.ConsoleWriter{Out: &lockedWriter{w: w}, NoColor: true, TimeFormat: time.RFC3339}
	logger := zerolog.New(cw).With().Timestamp().Str("component", "logsink").Logger()
	selfLogger.Store(&logger)
}

// DisableSelfLog turns internal diagnostics off.
func DisableSelfLog() {
	selfLogger.Store(nil)
}

func selfLogEvent(level Level) *zerolog.Event {
	logger := selfLogger.Load()
	if logger == nil {
		return nil
	}
	return logger.WithLevel(level.zerolog())
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
