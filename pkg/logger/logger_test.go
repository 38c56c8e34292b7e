package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulsewire/emitter/pkg/config"
)

func TestNewLogger_ConsoleOnly(t *testing.T) {
	cfg := config.LogConfig{
		Level: "info",
		Console: config.ConsoleLogConfig{
			Enabled: true,
			Format:  "console",
		},
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("test console logging")
}

func TestNewLogger_FileOnly(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	cfg := config.LogConfig{
		Level: "debug",
		File: config.FileLogConfig{
			Enabled: true,
			Path:    logPath,
			Format:  "json",
			Rotation: config.RotationConfig{
				MaxSize:    10,
				MaxAge:     7,
				MaxBackups: 3,
			},
		},
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Info("test file logging", zap.String("key", "value"))
	logger.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test file logging")
	assert.Contains(t, string(content), "value")
}

func TestNewLogger_ConsoleAndFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test-both.log")

	cfg := config.LogConfig{
		Level: "info",
		Console: config.ConsoleLogConfig{
			Enabled: true,
			Format:  "console",
		},
		File: config.FileLogConfig{
			Enabled: true,
			Path:    logPath,
			Format:  "json",
		},
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Info("test both outputs")
	logger.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test both outputs")
}

func TestNewLogger_NoOutputsFails(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "info"})
	assert.Error(t, err)
}

func TestNewLogger_FileEnabledWithoutPathFails(t *testing.T) {
	cfg := config.LogConfig{
		File: config.FileLogConfig{Enabled: true},
	}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_PerOutputLevelOverride(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test-levels.log")

	cfg := config.LogConfig{
		Level: "error",
		File: config.FileLogConfig{
			Enabled: true,
			Path:    logPath,
			Format:  "json",
			Level:   "debug",
		},
	}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Debug("debug message survives file override")
	logger.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "debug message survives file override")
}

func TestNewDefaultLogger(t *testing.T) {
	logger := NewDefaultLogger()
	require.NotNil(t, logger)
	logger.Info("default logger works")
}
