package logsink

import (
	"os"
	"path/filepath"
)

func initializeRollingFileBackend(cfg *Config) (*FileBackend, error) {
	const op = "logsink.initializeRollingFileBackend"
	name := cfg.LogFileName
	if name == emptyString {
		name = defaultLogFileName
	}

	dir := filepath.Join(cfg.WorkingDir, cfg.RelLogFileDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, newConfigurationError(op, errMsgCreateLogDir, err)
	}

	return NewFileBackend(FileOptions{
		Path:       filepath.Join(dir, name),
		MaxSizeMB:  cfg.LogFileMaxSizeMB,
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAgeDays: cfg.LogFileMaxAgeDays,
		Compress:   cfg.LogFileCompress,
	}), nil
}

// BackendsFromConfig builds the console and file backends cfg enables, in that
// order. If both are disabled the console backend is enabled.
func BackendsFromConfig(cfg Config) ([]Backend, error) {
	var backends []Backend

	if !cfg.ConsoleLogging && !cfg.FileLogging {
		cfg.ConsoleLogging = true
	}
	if cfg.ConsoleLogging {
		backends = append(backends, NewConsoleBackend(ConsoleOptions{
			Out:        os.Stderr,
			NoColor:    cfg.ConsoleNoColor,
			TimeFormat: cfg.ConsoleTimeFormat,
		}))
	}
	if cfg.FileLogging {
		fb, err := initializeRollingFileBackend(&cfg)
		if err != nil {
			return nil, err
		}
		backends = append(backends, fb)
	}

	return backends, nil
}
