package logsink

import (
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/zap/zapcore"
)

// Level is the severity of a Record.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Valid reports whether l is one of the four defined levels.
func (l Level) Valid() bool {
	return l >= LevelDebug && l <= LevelError
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel parses debug, info, warn or error (case-insensitive). zerolog's
// numeric forms and its other level names are rejected.
func ParseLevel(s string) (Level, error) {
	const op = "logsink.ParseLevel"
	name := strings.ToLower(strings.TrimSpace(s))
	zl, err := parseLevel(name)
	if err != nil {
		return LevelInfo, newConfigurationError(op, errMsgUnknownLevel+" "+s, err)
	}
	if zl.String() != name {
		return LevelInfo, newConfigurationError(op, errMsgUnknownLevel+" "+s, nil)
	}
	switch zl {
	case zerolog.DebugLevel:
		return LevelDebug, nil
	case zerolog.InfoLevel:
		return LevelInfo, nil
	case zerolog.WarnLevel:
		return LevelWarn, nil
	case zerolog.ErrorLevel:
		return LevelError, nil
	default:
		return LevelInfo, newConfigurationError(op, errMsgUnknownLevel+" "+s, nil)
	}
}
