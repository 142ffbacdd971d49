package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/example/campusreports/backend/internal/metrics"
	"github.com/example/campusreports/backend/internal/mq"
)

// Option configures the collaborators shared by every service.
type Option func(*deps)

type deps struct {
	logger    *slog.Logger
	publisher mq.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *deps) {
		d.logger = logger
	}
}

// WithPublisher enables domain events. Without it events are skipped.
func WithPublisher(publisher mq.Publisher) Option {
	return func(d *deps) {
		d.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *deps) {
		d.metrics = m
	}
}

func newDeps(opts []Option) deps {
	d := deps{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// publishEvent sends evt after the unit of work committed. Failures are logged
// and counted but never undo the operation.
func (d deps) publishEvent(ctx context.Context, evt mq.Event) {
	if d.publisher == nil {
		return
	}
	evt.OccurredAt = d.now()
	err := d.publisher.Publish(ctx, evt.Event, evt)
	d.metrics.IncEventPublished(evt.Event, err)
	if err != nil {
		d.logger.Warn("publish event failed", "event", evt.Event, "error", err)
	}
}
