package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"

	"github.com/example/campusreports/backend/internal/metrics"
	"github.com/example/campusreports/backend/internal/mq"
)

// EventWorker drains the report event queue into the audit log.
type EventWorker struct {
	consumer mq.Consumer
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures an EventWorker.
type Option func(*EventWorker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *EventWorker) {
		w.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(w *EventWorker) {
		w.metrics = m
	}
}

// NewEventWorker creates a worker reading from consumer.
func NewEventWorker(consumer mq.Consumer, opts ...Option) *EventWorker {
	w := &EventWorker{
		consumer: consumer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts consuming and blocks until ctx is cancelled. It should be launched in its own goroutine.
func (w *EventWorker) Run(ctx context.Context) error {
	if err := w.consumer.Consume(w.Handle); err != nil {
		return errors.Wrap(err, "start event consumer")
	}
	w.logger.Info("event worker started")

	<-ctx.Done()
	w.logger.Info("event worker shutting down")
	return w.consumer.Close()
}

// Handle processes one delivery. Malformed payloads are rejected without requeue
// so they never loop back into the queue.
func (w *EventWorker) Handle(d amqp091.Delivery) {
	var evt mq.Event
	if err := json.Unmarshal(d.Body, &evt); err != nil || evt.Event == "" {
		w.logger.Warn("discarding malformed event", "routing_key", d.RoutingKey, "message_id", d.MessageId, "error", err)
		if err := d.Reject(false); err != nil {
			w.logger.Error("reject event failed", "message_id", d.MessageId, "error", err)
		}
		return
	}

	routingKey := d.RoutingKey
	if routingKey == "" {
		routingKey = evt.Event
	}
	w.logger.Info("report event",
		"event", evt.Event,
		"report_id", evt.ReportID,
		"category_id", evt.CategoryID,
		"status", evt.Status,
		"previous_status", evt.PreviousStatus,
		"actor", evt.Actor,
		"occurred_at", evt.OccurredAt,
	)
	w.metrics.IncEventConsumed(routingKey)

	if err := d.Ack(false); err != nil {
		w.logger.Error("ack event failed", "message_id", d.MessageId, "error", err)
	}
}
