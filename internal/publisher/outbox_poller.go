// Package publisher drains the order outbox into Kafka so back-office
// consumers (notifications, analytics) see every placed order exactly once
// the store saw it.
package publisher

import (
	"context"
	"time"

	"github.com/Frannkode/QuickOrder/internal/metrics"
	"github.com/Frannkode/QuickOrder/internal/orders"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const topic = "orders-outbox"

// OutboxSource is the slice of the order repository the poller needs.
type OutboxSource interface {
	GetUnpublishedEvents(ctx context.Context, limit int) ([]*orders.OutboxEvent, error)
	MarkEventPublished(ctx context.Context, eventID int64) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type OutboxPoller struct {
	tick    time.Duration
	source  OutboxSource
	writer  messageWriter
	metrics *metrics.Registry
	logger  *zap.Logger
}

func NewOutboxPoller(source OutboxSource, m *metrics.Registry, logger *zap.Logger, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		tick:    time.Second,
		source:  source,
		writer:  w,
		metrics: m,
		logger:  logger,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.publishPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) publishPending(ctx context.Context) {
	events, err := p.source.GetUnpublishedEvents(ctx, 100)
	if err != nil {
		p.logger.Warn("failed to fetch outbox events", zap.Error(err))
		return
	}

	for _, event := range events {
		msg := kafka.Message{
			// Keyed by order id so one order's events stay ordered.
			Key:   []byte(event.AggregateID),
			Value: event.Payload,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.EventType)},
			},
		}
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.logger.Warn("failed to publish outbox event",
				zap.Int64("event_id", event.ID),
				zap.Error(err))
			continue
		}

		if err := p.source.MarkEventPublished(ctx, event.ID); err != nil {
			// Unmarked events are retried; consumers must dedupe by order id.
			p.logger.Warn("failed to mark event as published",
				zap.Int64("event_id", event.ID),
				zap.Error(err))
			continue
		}
		p.metrics.OutboxPublished.Inc()
	}
}
