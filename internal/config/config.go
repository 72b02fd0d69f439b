package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	PersistTimeout    time.Duration `mapstructure:"persist_timeout" yaml:"persist_timeout"`
	WSEventsPerMinute int           `mapstructure:"ws_events_per_minute" yaml:"ws_events_per_minute"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "focusroom.db",
		LogLevel:          "info",
		PersistTimeout:    5 * time.Second,
		WSEventsPerMinute: 0,
		MaxMessageBytes:   32 * 1024,
	}
}
