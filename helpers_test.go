package logsink

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// testConfig returns a fast-polling config at debug level with no backends of its own.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	cfg.ConsoleLogging = false
	cfg.IdlePollMS = 5
	cfg.BlockTimeoutMS = 50
	cfg.DrainTimeoutMS = 1000
	return cfg
}

func rec(msg string) Record {
	return NewRecord(LevelInfo, "test", msg)
}

// recordingBackend keeps every record it is given.
type recordingBackend struct {
	mu      sync.Mutex
	records []Record
}

func (b *recordingBackend) Write(r Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, r)
	return nil
}

func (b *recordingBackend) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Record(nil), b.records...)
}

func (b *recordingBackend) Messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.records))
	for i, r := range b.records {
		out[i] = r.Message
	}
	return out
}

// gatedBackend blocks inside its first Write until release is closed.
type gatedBackend struct {
	recordingBackend
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *gatedBackend) Write(r Record) error {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.recordingBackend.Write(r)
}

var errBackendDown = errors.New("backend down")

// failingBackend fails every write and counts attempts.
type failingBackend struct {
	mu       sync.Mutex
	attempts int
}

func (b *failingBackend) Write(Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	return errBackendDown
}

func (b *failingBackend) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// slowBackend sleeps before recording each write.
type slowBackend struct {
	recordingBackend
	delay time.Duration
}

func (b *slowBackend) Write(r Record) error {
	time.Sleep(b.delay)
	return b.recordingBackend.Write(r)
}

// closingBackend records whether Close was called and returns closeErr.
type closingBackend struct {
	recordingBackend
	mu       sync.Mutex
	closed   int
	closeErr error
}

func (b *closingBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return b.closeErr
}

func (b *closingBackend) Closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// collector is a synchronous Submitter for the instrumentation and probe tests.
type collector struct {
	mu      sync.Mutex
	records []Record
}

func (c *collector) Submit(r Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	return true
}

func (c *collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record(nil), c.records...)
}

// threadSafeBuffer is a simple thread-safe buffer for capturing log output.
type threadSafeBuffer struct {
	bytes.Buffer
	sync.Mutex
}

func (b *threadSafeBuffer) Write(p []byte) (n int, err error) {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.Write(p)
}

func (b *threadSafeBuffer) String() string {
	b.Lock()
	defer b.Unlock()
	return b.Buffer.String()
}
