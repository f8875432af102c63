package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sunnyfiber/visitops/libs/kafkax"
)

// Topic names double as event types, one topic per versioned event.
const (
	TopicVisitScheduled      = "visit.scheduled.v1"
	TopicVisitRescheduled    = "visit.rescheduled.v1"
	TopicVisitIssueFlagged   = "visit.issue_flagged.v1"
	TopicActivationTriggered = "activation.triggered.v1"
)

// Publisher writes domain events to Kafka. Publishing is best effort: failures
// are logged and never surfaced to the operation that produced the event. With
// no brokers configured every publish is a no-op.
type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewPublisher(brokers string, logger *slog.Logger) *Publisher {
	list := kafkax.SplitBrokers(brokers)
	if len(list) == 0 {
		logger.Warn("event publishing disabled (no kafka brokers configured)")
		return &Publisher{logger: logger}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  list,
		Balancer: &kafka.Hash{},
	})
	return &Publisher{writer: writer, logger: logger}
}

// Publish sends one event keyed by aggregateID. The write happens off the
// caller's goroutine so a slow broker cannot stall a scheduling operation.
func (p *Publisher) Publish(ctx context.Context, topic, aggregateID string, payload any) {
	if p == nil || p.writer == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("event payload marshal failed", "err", err, "topic", topic)
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(aggregateID),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(uuid.NewString())},
			{Key: "event_type", Value: []byte(topic)},
		},
	}
	msg.Headers = kafkax.InjectTraceHeaders(ctx, msg.Headers)

	go func() {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
			p.logger.Error("event publish failed", "err", err, "topic", topic)
		}
	}()
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
