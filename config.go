package logsink

import "time"

// Config holds the sink settings. Field tags drive validation (validator/v10)
// and decoding from configuration files (mapstructure, json).
type Config struct {
	Capacity       int    `mapstructure:"capacity" json:"capacity" validate:"gt=0"`
	OverflowPolicy string `mapstructure:"overflow_policy" json:"overflow_policy" validate:"required,oneof=block drop-oldest"`
	Level          string `mapstructure:"level" json:"level" validate:"required,oneof=debug info warn error"`
	BlockTimeoutMS int    `mapstructure:"block_timeout_ms" json:"block_timeout_ms" validate:"gte=0"`
	DrainTimeoutMS int    `mapstructure:"drain_timeout_ms" json:"drain_timeout_ms" validate:"gte=0"`
	IdlePollMS     int    `mapstructure:"idle_poll_ms" json:"idle_poll_ms" validate:"gt=0"`

	// DrainTimeoutWarning writes a self-log warning when Shutdown discards records.
	DrainTimeoutWarning bool `mapstructure:"drain_timeout_warning" json:"drain_timeout_warning"`

	// Backends built by Configure when none are passed explicitly.
	ConsoleLogging    bool   `mapstructure:"console_logging" json:"console_logging"`
	ConsoleNoColor    bool   `mapstructure:"console_no_color" json:"console_no_color"`
	ConsoleTimeFormat string `mapstructure:"console_time_format" json:"console_time_format"`
	FileLogging       bool   `mapstructure:"file_logging" json:"file_logging"`
	WorkingDir        string `mapstructure:"working_dir" json:"working_dir"`
	RelLogFileDir     string `mapstructure:"rel_log_file_dir" json:"rel_log_file_dir" validate:"required_if=FileLogging true"`
	LogFileName       string `mapstructure:"log_file_name" json:"log_file_name"`
	LogFileMaxSizeMB  int    `mapstructure:"log_file_max_size_mb" json:"log_file_max_size_mb" validate:"gte=0"`
	LogFileMaxBackups int    `mapstructure:"log_file_max_backups" json:"log_file_max_backups" validate:"gte=0"`
	LogFileMaxAgeDays int    `mapstructure:"log_file_max_age_days" json:"log_file_max_age_days" validate:"gte=0"`
	LogFileCompress   bool   `mapstructure:"log_file_compress" json:"log_file_compress"`
}

// DefaultConfig returns a console-only configuration with a 1024 record
// blocking queue at info level.
func DefaultConfig() Config {
	return Config{
		Capacity:            defaultCapacity,
		OverflowPolicy:      PolicyBlock.String(),
		Level:               defaultLevel,
		BlockTimeoutMS:      defaultBlockTimeoutMS,
		DrainTimeoutMS:      defaultDrainTimeoutMS,
		IdlePollMS:          defaultIdlePollMS,
		DrainTimeoutWarning: true,
		ConsoleLogging:      true,
		RelLogFileDir:       "logs",
		LogFileName:         defaultLogFileName,
		LogFileMaxSizeMB:    100,
		LogFileMaxBackups:   3,
		LogFileMaxAgeDays:   28,
	}
}

func (c Config) BlockTimeout() time.Duration {
	return time.Duration(c.BlockTimeoutMS) * time.Millisecond
}

func (c Config) DrainTimeout() time.Duration {
	return time.Duration(c.DrainTimeoutMS) * time.Millisecond
}

func (c Config) IdlePoll() time.Duration {
	return time.Duration(c.IdlePollMS) * time.Millisecond
}
