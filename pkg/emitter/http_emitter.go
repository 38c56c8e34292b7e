package emitter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsewire/emitter/pkg/config"
	"github.com/pulsewire/emitter/pkg/transport"
)

// MaxEventSize is the largest serialized event accepted by Emit.
// Set slightly below 1 MB to leave headroom for transport framing and metadata.
const MaxEventSize = 1023 * 1024

// Capacity of the out-of-band trigger queue. A full queue means a flush is
// already pending, so dropped triggers are harmless.
const taskQueueSize = 32

// flushTask is one scheduled run of the flush state machine
type flushTask struct {
	epoch int64
	done  chan struct{} // non-nil for Flush callers
}

// HTTPEmitter batches events in memory and ships each batch as a single
// HTTP POST to the configured collector. Failed batches are re-queued at
// the buffer tail and retried on the next cycle.
//
// All flush runs execute on one background goroutine, so flush logic needs
// no internal locking; producers only touch the buffer and atomic counters.
type HTTPEmitter struct {
	cfg        config.HTTPConfig
	transport  transport.Transport
	serializer Serializer
	logger     *zap.Logger
	metrics    *Metrics
	instanceID string

	buffer  *EventBuffer
	pending atomic.Int64 // events appended since the last genuine flush started
	epoch   atomic.Int64 // incremented once per genuine flush, invalidates stale runs

	// mu guards start/close transitions and serializes Flush against Close,
	// which guarantees the worker is alive for the whole of any Flush call.
	mu      sync.Mutex
	started atomic.Bool

	tasks chan flushTask
	stop  chan struct{}
	wg    sync.WaitGroup
}

// NewHTTPEmitter creates an emitter. It does not start emitting until Start
// is called. A nil serializer defaults to JSONSerializer; metrics may be nil.
func NewHTTPEmitter(
	cfg config.HTTPConfig,
	tr transport.Transport,
	serializer Serializer,
	logger *zap.Logger,
	metrics *Metrics,
) *HTTPEmitter {
	if serializer == nil {
		serializer = JSONSerializer{}
	}
	instanceID := uuid.New().String()[:8]
	return &HTTPEmitter{
		cfg:        cfg,
		transport:  tr,
		serializer: serializer,
		logger:     logger.With(zap.String("emitter_id", instanceID)),
		metrics:    metrics,
		instanceID: instanceID,
		buffer:     NewEventBuffer(),
		tasks:      make(chan flushTask, taskQueueSize),
		stop:       make(chan struct{}),
	}
}

// Start launches the background flush worker, with the first periodic run
// one flush interval out. Subsequent calls are no-ops. A closed emitter
// cannot be restarted; create a new one instead.
func (e *HTTPEmitter) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started.Load() {
		return
	}
	select {
	case <-e.stop:
		e.logger.Warn("Start called on a closed emitter, ignoring")
		return
	default:
	}
	e.started.Store(true)

	e.wg.Add(1)
	go e.worker()

	e.logger.Info("HTTP emitter started",
		zap.String("recipient", e.cfg.RecipientBaseURL),
		zap.Duration("flush_interval", e.cfg.FlushInterval.ToDuration()),
		zap.Int("flush_count", e.cfg.FlushCount))
}

// Emit serializes the event and appends it to the pending buffer.
// It returns ErrClosed when the emitter is not started, or the serialization
// error when the event cannot be serialized; neither is buffered. Oversized
// events are dropped with a diagnostic and nil is returned. Emit never blocks
// on network I/O.
func (e *HTTPEmitter) Emit(event Event) error {
	if !e.started.Load() {
		return ErrClosed
	}

	data, err := e.serializer.Serialize(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	if len(data) > MaxEventSize {
		e.logger.Error("event too large to emit, dropping",
			zap.Int("size", len(data)),
			zap.Int("max_size", MaxEventSize))
		e.metrics.RecordDropped(DropReasonOversize, 1)
		return nil
	}

	e.buffer.Append(data)
	e.metrics.RecordSubmitted()

	if !event.SafeToBuffer() || e.pending.Add(1) >= int64(e.cfg.FlushCount) {
		e.trigger()
	}

	return nil
}

// Flush blocks until one flush run covering all currently buffered events
// has completed, regardless of delivery outcome. When the emitter is not
// started this is a no-op. Must not be called from the flush worker itself.
func (e *HTTPEmitter) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.flushLocked()
	return nil
}

// Close drains pending events best-effort, then stops the worker.
// Further Emit calls fail with ErrClosed. A second Close is a no-op.
func (e *HTTPEmitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started.Load() {
		return nil
	}

	// The flush must happen while still marked started, or the run would
	// stand down without draining.
	e.flushLocked()

	e.started.Store(false)
	close(e.stop)
	e.wg.Wait()

	e.logger.Info("HTTP emitter closed",
		zap.Int("events_abandoned", e.buffer.Len()))
	return nil
}

// trigger enqueues an out-of-band run. Non-blocking: when the queue is full
// a flush is already pending and the periodic timer covers liveness.
func (e *HTTPEmitter) trigger() {
	select {
	case e.tasks <- flushTask{epoch: e.epoch.Load()}:
	default:
	}
}

// flushLocked enqueues a run with a completion signal and waits for it.
// Callers must hold e.mu, which keeps the worker alive until the run finishes.
func (e *HTTPEmitter) flushLocked() {
	if !e.started.Load() {
		return
	}

	done := make(chan struct{})
	e.tasks <- flushTask{epoch: e.epoch.Load(), done: done}
	<-done
}

// worker executes all flush runs and owns the periodic timer. The timer is
// re-armed after every run no matter how the run exits; a single missed
// re-arm would permanently stop flushing.
func (e *HTTPEmitter) worker() {
	defer e.wg.Done()

	interval := e.cfg.FlushInterval.ToDuration()
	timerEpoch := e.epoch.Load()
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-e.stop:
			return

		case <-timer.C:
			e.runOnce(timerEpoch)

		case task := <-e.tasks:
			e.runOnce(task.epoch)
			if task.done != nil {
				close(task.done)
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}

		timerEpoch = e.epoch.Load()
		timer.Reset(interval)
	}
}

// runOnce is one execution of the flush state machine with the epoch value
// captured when the run was scheduled.
func (e *HTTPEmitter) runOnce(captured int64) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic in flush run", zap.Any("panic", r))
		}
	}()

	if !e.started.Load() {
		e.logger.Debug("emitter not started, skipping flush run")
		return
	}

	if current := e.epoch.Load(); current != captured {
		// A newer run already flushed this cycle
		e.logger.Debug("skipping stale flush run",
			zap.Int64("scheduled_epoch", captured),
			zap.Int64("current_epoch", current))
		return
	}

	e.pending.Store(0)
	e.epoch.Add(1)

	events := e.buffer.DrainAndReset()
	if len(events) == 0 {
		return
	}

	payload := buildBatch(events)

	target, err := parseRecipientURL(e.cfg.RecipientBaseURL)
	if err != nil {
		// Configuration error: retrying cannot help, the batch is lost
		e.logger.Error("cannot post events, bad recipient URL",
			zap.String("url", e.cfg.RecipientBaseURL),
			zap.Int("events_lost", len(events)),
			zap.Error(err))
		e.metrics.RecordDropped(DropReasonBadURL, len(events))
		return
	}

	start := time.Now()
	resp, err := e.transport.Post(context.Background(), target, "application/json", payload)
	elapsed := time.Since(start).Seconds()

	switch {
	case errors.Is(err, transport.ErrEncode):
		// Payload encoding failure is a data/configuration error, not transient
		e.logger.Error("failed to encode batch payload, dropping batch",
			zap.Int("events_lost", len(events)),
			zap.Error(err))
		e.metrics.RecordDropped(DropReasonEncoding, len(events))

	case err != nil:
		e.logger.Warn("failed to post events, re-queueing",
			zap.String("url", target),
			zap.Int("events", len(events)),
			zap.Error(err))
		e.buffer.Requeue(events)
		e.metrics.RecordRequeued(len(events))
		e.metrics.RecordBatch(BatchOutcomeTransportError, len(events), elapsed)

	case resp.StatusCode/100 != 2:
		e.logger.Warn("collector rejected batch, re-queueing",
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", resp.Body),
			zap.Int("events", len(events)))
		e.buffer.Requeue(events)
		e.metrics.RecordRequeued(len(events))
		e.metrics.RecordBatch(BatchOutcomeHTTPError, len(events), elapsed)

	default:
		e.logger.Debug("batch delivered",
			zap.Int("events", len(events)),
			zap.Int("bytes", len(payload)))
		e.metrics.RecordBatch(BatchOutcomeSuccess, len(events), elapsed)
	}
}

// parseRecipientURL parses the collector URL. Parsed on every run so that
// runtime reconfiguration of the destination takes effect without restart.
func parseRecipientURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("recipient URL %q is not absolute", raw)
	}
	return u.String(), nil
}

// buildBatch frames already-serialized events as a JSON array by byte
// concatenation. Events are never re-parsed.
func buildBatch(events [][]byte) []byte {
	size := 1 + len(events)
	for _, ev := range events {
		size += len(ev)
	}

	payload := make([]byte, 0, size)
	payload = append(payload, '[')
	for i, ev := range events {
		if i > 0 {
			payload = append(payload, ',')
		}
		payload = append(payload, ev...)
	}
	return append(payload, ']')
}
