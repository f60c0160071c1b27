package eventpublisher

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mk9397/Expense-Splitter/internal/domain"
	"github.com/Mk9397/Expense-Splitter/internal/infrastructure/metrics"
)

// ErrQueueFull is returned by Publish when the dispatcher cannot accept more events.
var ErrQueueFull = errors.New("event queue full")

// Sink delivers events to an external system.
type Sink interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// Dispatcher queues change events and forwards them to its sinks from a background
// worker, so mutations never wait on slow listeners.
type Dispatcher struct {
	queue     chan domain.ChangeEvent
	sinks     []Sink
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	batchSize int
	interval  time.Duration
}

// Config for Dispatcher.
type Config struct {
	Sinks     []Sink
	Logger    *zerolog.Logger
	Metrics   *metrics.Metrics // optional
	QueueSize int              // Number of events buffered before Publish fails
	BatchSize int              // Number of events forwarded per flush
	Interval  time.Duration    // Flush interval
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1024
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 200 * time.Millisecond
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Dispatcher{
		queue:     make(chan domain.ChangeEvent, cfg.QueueSize),
		sinks:     cfg.Sinks,
		logger:    logger.With().Str("component", "event_dispatcher").Logger(),
		metrics:   cfg.Metrics,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
	}
}

// Publish enqueues the event without blocking.
func (d *Dispatcher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	select {
	case d.queue <- event:
		return nil
	default:
		if d.metrics != nil {
			d.metrics.EventsDropped.Inc()
		}
		return ErrQueueFull
	}
}

// Start runs the delivery worker until the context is cancelled.
// Events still queued at cancellation are flushed before it returns.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info().
		Int("batch_size", d.batchSize).
		Dur("interval", d.interval).
		Int("sinks", len(d.sinks)).
		Msg("event dispatcher started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx))
			d.logger.Info().Msg("event dispatcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			d.processEvents(ctx)
		}
	}
}

// processEvents forwards up to one batch of queued events.
func (d *Dispatcher) processEvents(ctx context.Context) int {
	n := 0
	for n < d.batchSize {
		select {
		case event := <-d.queue:
			d.deliver(ctx, event)
			n++
		default:
			return n
		}
	}
	return n
}

func (d *Dispatcher) drain(ctx context.Context) {
	for d.processEvents(ctx) > 0 {
	}
}

// deliver sends one event to every sink. A failing sink does not stop the others.
func (d *Dispatcher) deliver(ctx context.Context, event domain.ChangeEvent) {
	for _, sink := range d.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			d.logger.Error().
				Err(err).
				Str("event_type", event.Type).
				Str("trip_id", event.TripID).
				Msg("failed to publish event")
		}
	}

	if d.metrics != nil {
		d.metrics.EventsPublished.WithLabelValues(event.Type).Inc()
	}
	d.logger.Debug().
		Str("event_type", event.Type).
		Str("trip_id", event.TripID).
		Msg("event published")
}

// LogPublisher is a sink that logs events.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	p.logger.Info().
		Str("event_type", event.Type).
		Str("trip_id", event.TripID).
		Str("entity_id", event.EntityID).
		Time("occurred_at", event.OccurredAt).
		Msg("trip changed")

	return nil
}
