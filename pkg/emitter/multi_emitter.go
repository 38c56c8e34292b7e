package emitter

import (
	"errors"

	"go.uber.org/zap"
)

// MultiEmitter dispatches events to multiple backends.
type MultiEmitter struct {
	emitters []Emitter
	logger   *zap.Logger
}

// NewMultiEmitter creates a multi-emitter that dispatches to all provided emitters.
func NewMultiEmitter(emitters []Emitter, logger *zap.Logger) *MultiEmitter {
	return &MultiEmitter{
		emitters: emitters,
		logger:   logger,
	}
}

// Emit sends the event to all registered emitters and returns any
// caller errors combined.
func (m *MultiEmitter) Emit(event Event) error {
	var errs []error
	for _, e := range m.emitters {
		if err := e.Emit(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush flushes every emitter that supports flushing.
func (m *MultiEmitter) Flush() error {
	var errs []error
	for _, e := range m.emitters {
		if f, ok := e.(Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes all emitters and returns any errors combined.
func (m *MultiEmitter) Close() error {
	var errs []error
	for _, e := range m.emitters {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
