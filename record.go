package logsink

import "time"

// Record is a single log message. Records travel through the sink by value and
// are never modified after construction.
type Record struct {
	Time      time.Time
	Level     Level
	Logger    string
	Message   string
	Exception string
}

// NewRecord builds a record stamped with the current time.
func NewRecord(level Level, logger, msg string) Record {
	return Record{
		Time:    time.Now(),
		Level:   level,
		Logger:  logger,
		Message: msg,
	}
}

// WithError returns a copy of r whose Exception holds the rendered error chain
// of err, outermost first, with operation tags where the error carries them. A nil err returns r unchanged.
func (r Record) WithError(err error) Record {
	if err == nil {
		return r
	}
	r.Exception = renderErrorChain(err)
	return r
}
