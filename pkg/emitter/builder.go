package emitter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pulsewire/emitter/pkg/config"
	"github.com/pulsewire/emitter/pkg/transport"
)

// Build assembles the emitter stack from configuration: a started HTTP
// emitter, a file emitter, both behind a MultiEmitter, or a NoopEmitter
// when no backend is configured. Metrics may be nil.
func Build(cfg config.EmittersConfig, logger *zap.Logger, metrics *Metrics) (Emitter, error) {
	serializer := JSONSerializer{}
	var emitters []Emitter

	if cfg.File != nil {
		fileEmitter, err := NewFileEmitter(*cfg.File, serializer, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create file emitter: %w", err)
		}
		emitters = append(emitters, fileEmitter)
	}

	if cfg.HTTP != nil {
		tr := transport.NewFastHTTPTransport(
			cfg.HTTP.Timeout.ToDuration(),
			cfg.HTTP.Compression == config.CompressionGzip,
			logger,
		)
		httpEmitter := NewHTTPEmitter(*cfg.HTTP, tr, serializer, logger, metrics)
		httpEmitter.Start()
		emitters = append(emitters, httpEmitter)
	}

	switch len(emitters) {
	case 0:
		logger.Info("No event backends configured, events will be discarded")
		return &NoopEmitter{}, nil
	case 1:
		return emitters[0], nil
	default:
		return NewMultiEmitter(emitters, logger), nil
	}
}
