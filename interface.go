package logsink

// Submitter accepts records. *Sink and the loggers returned by Sink.Named
// implement it; the instrumentation helpers and probes write through it.
type Submitter interface {
	Submit(r Record) bool
}

// Logger is a named handle on a sink for call sites that just want to log a
// message. Every method builds a Record carrying the logger's name.
type Logger interface {
	Submitter

	Name() string

	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// Err logs msg at error level with err's chain as the record's exception.
	Err(err error, msg string)

	// Named returns a child logger called "<name>.<child>".
	Named(child string) Logger
}
