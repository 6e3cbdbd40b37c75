package logsink

import (
	stderrs "errors"

	smerrors "github.com/Station-Manager/errors"
)

var (
	// ErrAlreadyConfigured is returned by Configure on a sink that is already running.
	ErrAlreadyConfigured = stderrs.New("already configured")
	// ErrSinkStopped is returned by Configure on a sink that has been shut down.
	ErrSinkStopped = stderrs.New("sink stopped")
	// ErrInvalidCapacity is returned for a queue capacity that is not positive.
	ErrInvalidCapacity = stderrs.New("invalid capacity")
	// ErrInvalidConfig wraps validation failures of a Config.
	ErrInvalidConfig = stderrs.New("invalid config")
)

// ConfigurationError reports misuse of the sink API or an invalid configuration.
// It is the only error class surfaced to callers; backend write failures and
// backpressure are never returned as errors.
//
// Err is an op-tagged chain whose cause is one of the sentinels above, so
// errors.Is works through a ConfigurationError.
type ConfigurationError struct {
	Err *smerrors.DetailedError
}

func newConfigurationError(op smerrors.Op, msg string, cause error) *ConfigurationError {
	return &ConfigurationError{Err: smerrors.New(op).Err(cause).Msg(msg)}
}

// Error renders the whole chain, e.g.
// "[logsink.Sink.Configure] Log sink is already configured. -> already configured".
func (e *ConfigurationError) Error() string {
	return renderErrorChain(e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Op returns the operation that failed.
func (e *ConfigurationError) Op() smerrors.Op {
	return e.Err.Op()
}
