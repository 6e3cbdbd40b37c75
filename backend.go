package logsink

import (
	"bytes"
	"errors"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Backend is a destination for records. Write is only ever called from the
// sink's dispatcher goroutine, so implementations need no locking of their own.
// Backends that also implement io.Closer are closed when the sink shuts down.
type Backend interface {
	Write(r Record) error
}

var errRecordSuppressed = errors.New("record suppressed by zerolog global level")

// encodeRecord appends r to buf as one JSON line.
func encodeRecord(buf *bytes.Buffer, r Record) error {
	logger := zerolog.New(buf)
	e := logger.WithLevel(r.Level.zerolog()).Time(zerolog.TimestampFieldName, r.Time)
	if r.Logger != emptyString {
		e = e.Str(loggerFieldName, r.Logger)
	}
	if r.Exception != emptyString {
		e = e.Str(exceptionFieldName, r.Exception)
	}
	e.Msg(r.Message)
	if buf.Len() == 0 {
		return errRecordSuppressed
	}
	return nil
}

// WriterBackend writes records as JSON lines to an arbitrary io.Writer.
// The writer stays owned by the caller; WriterBackend has no Close, so a
// sink shutdown never closes it.
type WriterBackend struct {
	w   io.Writer
	buf bytes.Buffer
}

func NewWriterBackend(w io.Writer) *WriterBackend {
	return &WriterBackend{w: w}
}

func (b *WriterBackend) Write(r Record) error {
	b.buf.Reset()
	if err := encodeRecord(&b.buf, r); err != nil {
		return err
	}
	_, err := b.w.Write(b.buf.Bytes())
	return err
}

// ConsoleOptions configures a ConsoleBackend.
type ConsoleOptions struct {
	// Out defaults to os.Stderr.
	Out        io.Writer
	NoColor    bool
	TimeFormat string
}

// ConsoleBackend renders records in zerolog's human-readable console format.
type ConsoleBackend struct {
	cw  zerolog.ConsoleWriter
	buf bytes.Buffer
}

func NewConsoleBackend(opts ConsoleOptions) *ConsoleBackend {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	timeFormat := opts.TimeFormat
	if timeFormat == emptyString {
		timeFormat = time.Kitchen
	}
	return &ConsoleBackend{
		cw: zerolog.ConsoleWriter{Out: out, NoColor: opts.NoColor, TimeFormat: timeFormat},
	}
}

func (b *ConsoleBackend) Write(r Record) error {
	b.buf.Reset()
	if err := encodeRecord(&b.buf, r); err != nil {
		return err
	}
	_, err := b.cw.Write(b.buf.Bytes())
	return err
}

// FileOptions configures a rolling FileBackend.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// FileBackend appends JSON lines to a size-rotated file.
type FileBackend struct {
	file *lumberjack.Logger
	buf  bytes.Buffer
}

func NewFileBackend(opts FileOptions) *FileBackend {
	return &FileBackend{
		file: &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		},
	}
}

// Path returns the active log file path.
func (b *FileBackend) Path() string {
	return b.file.Filename
}

func (b *FileBackend) Write(r Record) error {
	b.buf.Reset()
	if err := encodeRecord(&b.buf, r); err != nil {
		return err
	}
	_, err := b.file.Write(b.buf.Bytes())
	return err
}

func (b *FileBackend) Close() error {
	return b.file.Close()
}

// ZapBackend forwards records to a zap logger. The record's logger name and
// timestamp are preserved on the zap entry.
type ZapBackend struct {
	logger *zap.Logger
}

func NewZapBackend(logger *zap.Logger) *ZapBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapBackend{logger: logger}
}

func (b *ZapBackend) Write(r Record) error {
	ce := b.logger.Check(r.Level.zap(), r.Message)
	if ce == nil {
		return nil
	}
	ce.Time = r.Time
	ce.LoggerName = r.Logger
	if r.Exception != emptyString {
		ce.Write(zap.String(exceptionFieldName, r.Exception))
		return nil
	}
	ce.Write()
	return nil
}

// Close syncs the zap logger. Sync failures on terminals and pipes, which
// cannot be fsynced, are ignored.
func (b *ZapBackend) Close() error {
	err := b.logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
