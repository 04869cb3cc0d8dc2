package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	kafkamocks "github.com/ntuananhdevs/banking-onl/internal/infrastructure/kafka/mocks"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	"github.com/ntuananhdevs/banking-onl/internal/webhook"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

type reconcilerFunc func(ctx context.Context, n webhook.Notification) models.ReconciliationResult

func (f reconcilerFunc) Reconcile(ctx context.Context, n webhook.Notification) models.ReconciliationResult {
	return f(ctx, n)
}

func TestConsumer_Consume(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dlq := kafkamocks.NewMockKafkaProducer(ctrl)
	reader := &fakeReader{messages: []kafka.Message{
		{Topic: "payment-notifications", Offset: 1, Key: []byte("a"), Value: []byte(`{"id":1}`),
			Headers: []kafka.Header{{Key: HeaderAuthorization, Value: []byte("Bearer tok")}}},
		{Topic: "payment-notifications", Offset: 2, Key: []byte("b"), Value: []byte(`{"id":2}`),
			Headers: []kafka.Header{{Key: HeaderSignature, Value: []byte("abc")}}},
		{Topic: "payment-notifications", Offset: 3, Key: []byte("c"), Value: []byte(`{"id":3}`)},
	}}

	var seen []webhook.Notification
	reconciler := reconcilerFunc(func(ctx context.Context, n webhook.Notification) models.ReconciliationResult {
		seen = append(seen, n)
		switch string(n.Body) {
		case `{"id":1}`:
			return models.ReconciliationResult{Accepted: true}
		case `{"id":2}`:
			return models.ReconciliationResult{Reason: models.ReasonInternalFault}
		default:
			return models.ReconciliationResult{Reason: models.ReasonUnparseable}
		}
	})

	dlq.EXPECT().
		Send(gomock.Any(), "payment-notifications.dlq", "b", []byte(`{"id":2}`), map[string]string{
			HeaderReason:    "internal_fault",
			HeaderSignature: "abc",
		}).
		Return(nil)

	c := newConsumer(reader, "payment-notifications", reconciler, dlq)
	c.Consume(context.Background())

	select {
	case <-c.Done():
	default:
		t.Fatal("consumer not marked done after Consume returned")
	}

	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
	if assert.Len(t, seen, 3) {
		assert.Equal(t, "tok", seen[0].BearerToken)
		assert.Equal(t, webhook.SourceKafka, seen[0].Source)
		assert.Equal(t, "abc", seen[1].Signature)
		assert.Empty(t, seen[2].Signature)
	}
}

func TestConsumer_DeadLetterFailureLeavesOffset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dlq := kafkamocks.NewMockKafkaProducer(ctrl)
	reader := &fakeReader{messages: []kafka.Message{{Offset: 9, Value: []byte(`{}`)}}}
	reconciler := reconcilerFunc(func(ctx context.Context, n webhook.Notification) models.ReconciliationResult {
		return models.ReconciliationResult{Reason: models.ReasonInternalFault}
	})
	dlq.EXPECT().Send(gomock.Any(), "notifications.dlq", "", []byte(`{}`), gomock.Any()).Return(errors.New("broker down"))

	c := newConsumer(reader, "notifications", reconciler, dlq)
	c.Consume(context.Background())

	assert.Empty(t, reader.committed)
}

func TestNotificationFromMessage_RawAuthorization(t *testing.T) {
	n := NotificationFromMessage(kafka.Message{
		Value:   []byte(`{}`),
		Headers: []kafka.Header{{Key: HeaderAuthorization, Value: []byte(" raw-token ")}},
	})
	assert.Equal(t, "raw-token", n.BearerToken)
}

func TestConsumer_DoneWaitsForConsume(t *testing.T) {
	reader := &fakeReader{}
	c := newConsumer(reader, "notifications", reconcilerFunc(func(ctx context.Context, n webhook.Notification) models.ReconciliationResult {
		return models.ReconciliationResult{Accepted: true}
	}), nil)

	select {
	case <-c.Done():
		t.Fatal("consumer done before Consume ran")
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go c.Consume(ctx)

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}
