package emitter

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pulsewire/emitter/pkg/config"
)

// File rotation defaults
const (
	DefaultMaxSize    = 100 // MB
	DefaultMaxAge     = 30  // days
	DefaultMaxBackups = 10  // files
)

// FileEmitter writes serialized events as JSON lines to a rotating log file.
// Writes are synchronous and unbatched; there is no delivery to retry, so
// write failures are logged and the event is lost.
type FileEmitter struct {
	writer     *lumberjack.Logger
	serializer Serializer
	logger     *zap.Logger
}

// NewFileEmitter creates a file-based event emitter.
// Returns an error if the parent directory cannot be created.
func NewFileEmitter(cfg config.FileConfig, serializer Serializer, logger *zap.Logger) (*FileEmitter, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	if serializer == nil {
		serializer = JSONSerializer{}
	}

	maxSize := cfg.Rotation.MaxSize
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}

	maxAge := cfg.Rotation.MaxAge
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}

	maxBackups := cfg.Rotation.MaxBackups
	if maxBackups == 0 {
		maxBackups = DefaultMaxBackups
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
		Compress:   cfg.Rotation.Compress,
	}

	return &FileEmitter{
		writer:     writer,
		serializer: serializer,
		logger:     logger,
	}, nil
}

// Emit serializes the event and writes it as one line.
// Serialization failures surface to the caller; write failures do not.
func (f *FileEmitter) Emit(event Event) error {
	data, err := f.serializer.Serialize(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	if _, err := f.writer.Write(append(data, '\n')); err != nil {
		f.logger.Warn("failed to write event to log file",
			zap.String("path", f.writer.Filename),
			zap.Error(err))
	}
	return nil
}

// Close closes the underlying file handle.
func (f *FileEmitter) Close() error {
	return f.writer.Close()
}
