package kafka

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/observability"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	"github.com/ntuananhdevs/banking-onl/internal/webhook"
	"github.com/segmentio/kafka-go"
)

// Message headers carrying the gateway credentials of a relayed notification.
const (
	HeaderSignature     = "signature"
	HeaderAuthorization = "authorization"
	HeaderReason        = "reason"
)

// Reconciler is the consumer's view of the reconciliation engine.
type Reconciler interface {
	Reconcile(ctx context.Context, n webhook.Notification) models.ReconciliationResult
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer feeds payment notifications relayed through Kafka into the
// reconciliation engine. Notifications that hit an internal fault are copied
// to the dead-letter topic so they can be replayed.
type Consumer struct {
	reader     messageReader
	reconciler Reconciler
	dlq        KafkaProducer
	topic      string
	dlqTopic   string
	retryDelay time.Duration
	done       chan struct{}
}

func NewConsumer(brokers []string, topic, groupID string, reconciler Reconciler, dlq KafkaProducer) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, topic, reconciler, dlq)
}

func newConsumer(reader messageReader, topic string, reconciler Reconciler, dlq KafkaProducer) *Consumer {
	return &Consumer{
		reader:     reader,
		reconciler: reconciler,
		dlq:        dlq,
		topic:      topic,
		dlqTopic:   DeadLetterTopic(topic),
		retryDelay: time.Second,
		done:       make(chan struct{}),
	}
}

func DeadLetterTopic(topic string) string {
	return topic + ".dlq"
}

// Consume blocks until ctx is cancelled or the reader is closed.
// It must be called at most once.
func (c *Consumer) Consume(ctx context.Context) {
	defer close(c.done)
	slog.Info("Kafka consumer started", "topic", c.topic)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				slog.Info("Kafka consumer stopped", "topic", c.topic)
				return
			}
			slog.Error("failed to read Kafka message", "topic", c.topic, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
			continue
		}

		if !c.handle(ctx, msg) {
			observability.KafkaMessages.WithLabelValues(c.topic, "uncommitted").Inc()
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			slog.Error("failed to commit Kafka message", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			continue
		}
		observability.KafkaMessages.WithLabelValues(c.topic, "committed").Inc()
	}
}

// handle reconciles one message and reports whether its offset may be committed.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message) bool {
	n := NotificationFromMessage(msg)
	result := c.reconciler.Reconcile(ctx, n)

	slog.Info("Kafka notification processed",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"outcome", result.Outcome())

	if result.Accepted || result.Reason != models.ReasonInternalFault {
		return true
	}

	headers := map[string]string{HeaderReason: string(result.Reason)}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if err := c.dlq.Send(ctx, c.dlqTopic, string(msg.Key), msg.Value, headers); err != nil {
		slog.Error("failed to dead-letter notification", "topic", c.dlqTopic, "offset", msg.Offset, "error", err)
		return false
	}
	slog.Warn("notification dead-lettered", "topic", c.dlqTopic, "offset", msg.Offset)
	return true
}

// Done is closed once Consume has returned, so no reconciliation is in flight.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func NotificationFromMessage(msg kafka.Message) webhook.Notification {
	auth := headerValue(msg.Headers, HeaderAuthorization)
	bearer := webhook.BearerToken(auth)
	if bearer == "" {
		bearer = strings.TrimSpace(auth)
	}
	return webhook.Notification{
		Body:        msg.Value,
		Signature:   strings.TrimSpace(headerValue(msg.Headers, HeaderSignature)),
		BearerToken: bearer,
		Source:      webhook.SourceKafka,
	}
}
