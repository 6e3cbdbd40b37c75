package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Station-Manager/logsink"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "logsink",
	Short:         "Exercise an asynchronous log sink from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("level", "", "Minimum level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int("capacity", 0, "Queue capacity")
	rootCmd.PersistentFlags().String("policy", "", "Overflow policy: block or drop-oldest")
	rootCmd.PersistentFlags().Bool("file", false, "Also write JSON lines to a rolling log file")
	rootCmd.PersistentFlags().String("log-dir", "", "Log directory, relative to the working directory")
	rootCmd.PersistentFlags().Bool("zap", false, "Also forward records to a zap production logger on stderr")
	rootCmd.PersistentFlags().Bool("selflog", false, "Print the sink's internal diagnostics to stderr")

	viper.BindPFlag("level", rootCmd.PersistentFlags().Lookup("level"))
	viper.BindPFlag("capacity", rootCmd.PersistentFlags().Lookup("capacity"))
	viper.BindPFlag("overflow_policy", rootCmd.PersistentFlags().Lookup("policy"))
	viper.BindPFlag("file_logging", rootCmd.PersistentFlags().Lookup("file"))
	viper.BindPFlag("rel_log_file_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("zap", rootCmd.PersistentFlags().Lookup("zap"))
	viper.BindPFlag("selflog", rootCmd.PersistentFlags().Lookup("selflog"))
}

func initConfig() {
	def := logsink.DefaultConfig()
	viper.SetDefault("capacity", def.Capacity)
	viper.SetDefault("overflow_policy", def.OverflowPolicy)
	viper.SetDefault("level", def.Level)
	viper.SetDefault("block_timeout_ms", def.BlockTimeoutMS)
	viper.SetDefault("drain_timeout_ms", def.DrainTimeoutMS)
	viper.SetDefault("idle_poll_ms", def.IdlePollMS)
	viper.SetDefault("drain_timeout_warning", def.DrainTimeoutWarning)
	viper.SetDefault("console_logging", def.ConsoleLogging)
	viper.SetDefault("rel_log_file_dir", def.RelLogFileDir)
	viper.SetDefault("log_file_name", def.LogFileName)
	viper.SetDefault("log_file_max_size_mb", def.LogFileMaxSizeMB)
	viper.SetDefault("log_file_max_backups", def.LogFileMaxBackups)
	viper.SetDefault("log_file_max_age_days", def.LogFileMaxAgeDays)

	viper.SetEnvPrefix("LOGSINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}
}

// loadConfig decodes the merged defaults, config file, environment and flags.
func loadConfig() (logsink.Config, error) {
	var cfg logsink.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	// Zero flag values mean "not set"; keep the defaults for them.
	def := logsink.DefaultConfig()
	if cfg.Capacity == 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	if cfg.OverflowPolicy == "" {
		cfg.OverflowPolicy = def.OverflowPolicy
	}
	if cfg.RelLogFileDir == "" {
		cfg.RelLogFileDir = def.RelLogFileDir
	}
	if cfg.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", ErrWorkingDir, err)
		}
		cfg.WorkingDir = wd
	}
	return cfg, nil
}

// openSink builds and starts a sink from the loaded configuration.
func openSink() (*logsink.Sink, error) {
	if viper.GetBool("selflog") {
		logsink.EnableSelfLog(os.Stderr)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	backends, err := logsink.BackendsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenSink, err)
	}
	if viper.GetBool("zap") {
		zl, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrZapLogger, err)
		}
		backends = append(backends, logsink.NewZapBackend(zl))
	}

	sink, err := logsink.New(cfg, backends...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenSink, err)
	}
	return sink, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
