// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/notification-center/internal/notify"
)

type Config struct {
	DebugLogging    bool   `mapstructure:"debug_logging"`
	DebugFlagFile   string `mapstructure:"debug_flag_file"`
	LifecycleEvents bool   `mapstructure:"lifecycle_events"`
	QueueSize       int    `mapstructure:"queue_size"`
	LogBufferSize   int    `mapstructure:"log_buffer_size"`
	LogSpillFile    string `mapstructure:"log_spill_file"`
	DefaultEvent    string `mapstructure:"default_event"`
}

const (
	DefaultDebugFlagFile = "/tmp/af_notification_center_debug"
	DefaultLogBufferSize = 500
	DefaultEventName     = "testEvent"
	EnvPrefix            = "NOTIFY_CENTER"
)

// LoadConfig reads the configuration at path. An empty path loads defaults
// and environment overrides only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"debug_logging":    false,
		"debug_flag_file":  DefaultDebugFlagFile,
		"lifecycle_events": false,
		"queue_size":       notify.DefaultQueueSize,
		"log_buffer_size":  DefaultLogBufferSize,
		"log_spill_file":   "",
		"default_event":    DefaultEventName,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, validateConfig(&cfg)
}

// LoadEnvFiles loads variables from the given .env files into the process
// environment so that LoadConfig picks them up through the NOTIFY_CENTER_
// prefix. Missing files are skipped and variables already set are kept.
// It returns the files that were loaded.
func LoadEnvFiles(files ...string) []string {
	var loaded []string
	for _, file := range files {
		if err := godotenv.Load(file); err == nil {
			loaded = append(loaded, file)
		}
	}
	return loaded
}

func validateConfig(cfg *Config) error {
	if cfg.QueueSize <= 0 {
		return errors.New("invalid queue_size")
	}
	if cfg.LogBufferSize <= 0 {
		return errors.New("invalid log_buffer_size")
	}
	if _, err := notify.NewEventID(cfg.DefaultEvent); err != nil {
		return fmt.Errorf("invalid default_event: %w", err)
	}
	return nil
}

// DebugEnabled reports whether verbose activity logging is requested, either
// by debug_logging or by the presence of the debug flag file.
func (c *Config) DebugEnabled() bool {
	if c.DebugLogging {
		return true
	}
	if c.DebugFlagFile == "" {
		return false
	}
	_, err := os.Stat(c.DebugFlagFile)
	return err == nil
}

// CenterOptions converts the configuration into notification center options.
func (c *Config) CenterOptions(logger *zap.Logger) []notify.Option {
	return []notify.Option{
		notify.WithLogger(logger),
		notify.WithDebug(c.DebugEnabled()),
		notify.WithLifecycleEvents(c.LifecycleEvents),
		notify.WithQueueSize(c.QueueSize),
	}
}
