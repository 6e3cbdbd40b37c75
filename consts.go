package logsink

import "time"

const (
	emptyString = ""

	// probeLoggerName is the logger name on records emitted by the host probes.
	probeLoggerName = "probe"

	loggerFieldName    = "logger"
	exceptionFieldName = "exception"
)

const (
	defaultCapacity       = 1024
	defaultBlockTimeoutMS = 100
	defaultDrainTimeoutMS = 5000
	defaultIdlePollMS     = 50
	defaultLevel          = "info"
	defaultLogFileName    = "logsink.log"

	// flushPollInterval is how often Flush re-checks delivery progress.
	flushPollInterval = 2 * time.Millisecond

	// drainGrace is how long Shutdown waits past the drain timeout for an
	// in-flight backend write.
	drainGrace = 100 * time.Millisecond
)

const (
	errMsgNilSink          = "Log sink is nil."
	errMsgAlreadyConfig    = "Log sink is already configured."
	errMsgSinkStopped      = "Log sink has been shut down and cannot be restarted."
	errMsgConfigInvalid    = "Log sink configuration is invalid."
	errMsgInvalidCapacity  = "Queue capacity must be greater than zero."
	errMsgUnknownPolicy    = "Unknown overflow policy."
	errMsgUnknownLevel     = "Unknown log level."
	errMsgLogDirNotRel     = "LogFileDir must be a relative path."
	errMsgCreateLogDir     = "Failed to create log directory."
	errMsgNoBackends       = "No logging backends enabled."
	errMsgShutdownExceeded = "Log sink drain timeout exceeded"
	errMsgWriteAbandoned   = "Backend write still in progress after drain timeout; backends close once it returns"
	errMsgCloseBackends    = "Closing log sink backends failed"
)
