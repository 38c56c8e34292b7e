package config

import (
	"fmt"
	"time"
)

// Log level constants
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Log format constants
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
	LogFormatText    = "text"
)

// Batch payload compression algorithms
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
)

// Emitter defaults applied by ApplyDefaults
const (
	DefaultFlushInterval = 60 * time.Second
	DefaultFlushCount    = 500
	DefaultTimeout       = 10 * time.Second
)

// Config is the root configuration for an emitter instance
type Config struct {
	Emitters EmittersConfig `yaml:"emitters"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// EmittersConfig selects which event backends are active.
// With neither section present, events are discarded.
type EmittersConfig struct {
	HTTP *HTTPConfig `yaml:"http,omitempty"`
	File *FileConfig `yaml:"file,omitempty"`
}

// HTTPConfig configures the batching HTTP emitter
type HTTPConfig struct {
	// RecipientBaseURL is parsed on every flush, so DNS/host changes made at
	// runtime take effect without a restart. It is deliberately not validated
	// at load time.
	RecipientBaseURL string   `yaml:"recipient_base_url"`
	FlushInterval    Duration `yaml:"flush_interval"`
	FlushCount       int      `yaml:"flush_count"`
	Timeout          Duration `yaml:"timeout"`
	Compression      string   `yaml:"compression,omitempty"` // none, gzip
}

// FileConfig configures file-based event output
type FileConfig struct {
	Path     string         `yaml:"path"`
	Rotation RotationConfig `yaml:"rotation"`
}

// RotationConfig configures log file rotation
type RotationConfig struct {
	MaxSize    int  `yaml:"max_size"`    // MB
	MaxAge     int  `yaml:"max_age"`     // days
	MaxBackups int  `yaml:"max_backups"` // files
	Compress   bool `yaml:"compress"`
}

// LogConfig configures diagnostic logging
type LogConfig struct {
	Level   string           `yaml:"level"`
	Console ConsoleLogConfig `yaml:"console"`
	File    FileLogConfig    `yaml:"file"`
}

type ConsoleLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
	Level   string `yaml:"level,omitempty"`
}

type FileLogConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Path     string         `yaml:"path"`
	Format   string         `yaml:"format"`
	Level    string         `yaml:"level,omitempty"`
	Rotation RotationConfig `yaml:"rotation"`
}

// MetricsConfig configures Prometheus metric registration
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// ApplyDefaults fills zero values with production defaults
func (c *Config) ApplyDefaults() {
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "pulsewire"
	}
	if c.Emitters.HTTP != nil {
		c.Emitters.HTTP.ApplyDefaults()
	}
}

// ApplyDefaults fills zero values with production defaults
func (h *HTTPConfig) ApplyDefaults() {
	if h.FlushInterval == 0 {
		h.FlushInterval = Duration(DefaultFlushInterval)
	}
	if h.FlushCount == 0 {
		h.FlushCount = DefaultFlushCount
	}
	if h.Timeout == 0 {
		h.Timeout = Duration(DefaultTimeout)
	}
	if h.Compression == "" {
		h.Compression = CompressionNone
	}
}

// Validate checks the configuration for values that can never work.
// Call after ApplyDefaults.
func (c *Config) Validate() error {
	if h := c.Emitters.HTTP; h != nil {
		if h.RecipientBaseURL == "" {
			return fmt.Errorf("emitters.http.recipient_base_url must be specified")
		}
		if h.FlushInterval <= 0 {
			return fmt.Errorf("emitters.http.flush_interval must be positive, got %s", h.FlushInterval)
		}
		if h.FlushCount <= 0 {
			return fmt.Errorf("emitters.http.flush_count must be positive, got %d", h.FlushCount)
		}
		if h.Timeout <= 0 {
			return fmt.Errorf("emitters.http.timeout must be positive, got %s", h.Timeout)
		}
		if h.Compression != CompressionNone && h.Compression != CompressionGzip {
			return fmt.Errorf("emitters.http.compression must be %q or %q, got %q",
				CompressionNone, CompressionGzip, h.Compression)
		}
	}
	if f := c.Emitters.File; f != nil {
		if f.Path == "" {
			return fmt.Errorf("emitters.file.path must be specified")
		}
	}
	if c.Log.File.Enabled && c.Log.File.Path == "" {
		return fmt.Errorf("log.file.path must be specified when file logging is enabled")
	}
	return nil
}
