package logsink

import "fmt"

type namedLogger struct {
	name string
	sink *Sink
}

// Named returns a Logger that submits records to s under name.
func (s *Sink) Named(name string) Logger {
	return &namedLogger{name: name, sink: s}
}

func (l *namedLogger) Name() string {
	return l.name
}

// Submit fills in the logger name when r has none.
func (l *namedLogger) Submit(r Record) bool {
	if r.Logger == emptyString {
		r.Logger = l.name
	}
	return l.sink.Submit(r)
}

func (l *namedLogger) log(level Level, msg string) {
	l.sink.Submit(NewRecord(level, l.name, msg))
}

func (l *namedLogger) logf(level Level, format string, args ...any) {
	if !l.sink.Enabled(level) {
		return
	}
	l.sink.Submit(NewRecord(level, l.name, fmt.Sprintf(format, args...)))
}

func (l *namedLogger) Debug(msg string) { l.log(LevelDebug, msg) }
func (l *namedLogger) Info(msg string)  { l.log(LevelInfo, msg) }
func (l *namedLogger) Warn(msg string)  { l.log(LevelWarn, msg) }
func (l *namedLogger) Error(msg string) { l.log(LevelError, msg) }

func (l *namedLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *namedLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *namedLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *namedLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *namedLogger) Err(err error, msg string) {
	l.sink.Submit(NewRecord(LevelError, l.name, msg).WithError(err))
}

func (l *namedLogger) Named(child string) Logger {
	name := child
	if l.name != emptyString {
		name = l.name + "." + child
	}
	return &namedLogger{name: name, sink: l.sink}
}

func (l *namedLogger) enabled(level Level) bool {
	return l.sink.Enabled(level)
}
