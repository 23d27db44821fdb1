// Package events publishes status-change events for messages that settle
// to a terminal translation status, grounded in the teacher's
// internal/kafka producer and internal/events publisher.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// StatusChanged is the payload published when a Message settles.
type StatusChanged struct {
	MessageID      string    `json:"messageId"`
	ChannelID      string    `json:"channelId"`
	Status         string    `json:"status"`
	TargetCount    int       `json:"targetCount"`
	SucceededCount int       `json:"succeededCount"`
	SettledAt      time.Time `json:"settledAt"`
}

// Publisher is an outbox-style Kafka publisher for message settlement
// events consumed by an external notification service.
type Publisher struct {
	writer *kafka.Writer
	topic  string
	logger *zap.SugaredLogger
}

// NewPublisher constructs a Publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string, logger *zap.SugaredLogger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		topic:  topic,
		logger: logger,
	}
}

// PublishSettled emits a message.translated or message.failed event. It is
// advisory plumbing: a publish failure is logged and swallowed rather than
// propagated to the Orchestrator, which has already committed the message's
// terminal status.
func (p *Publisher) PublishSettled(ctx context.Context, messageID, channelID string, status domain.Status, targetCount, succeededCount int) {
	if p == nil || p.writer == nil {
		return
	}
	ev := StatusChanged{
		MessageID:      messageID,
		ChannelID:      channelID,
		Status:         string(status),
		TargetCount:    targetCount,
		SucceededCount: succeededCount,
		SettledAt:      time.Now().UTC(),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		if p.logger != nil {
			p.logger.Warnw("events: marshal settled event failed", "messageId", messageID, "error", err)
		}
		return
	}
	msg := kafka.Message{Key: []byte(messageID), Value: b, Time: time.Now()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil && p.logger != nil {
		p.logger.Warnw("events: publish settled event failed", "messageId", messageID, "error", err)
	}
}

// Close flushes and closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
