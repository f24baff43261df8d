package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestKafkaPublisherSendsEvent(t *testing.T) {
	producer := mocks.NewAsyncProducer(t, nil)

	sent := make(chan Event, 1)
	producer.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "mithai.inventory" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "7" {
			return errors.New("unexpected key " + string(key))
		}
		value, _ := msg.Value.Encode()
		var e Event
		if err := json.Unmarshal(value, &e); err != nil {
			return err
		}
		sent <- e
		return nil
	})

	p := NewKafkaPublisherWithProducer(producer, "mithai.inventory", nil)
	err := p.Publish(context.Background(), Event{
		Type:       TypePurchaseCompleted,
		SweetID:    7,
		AccountID:  3,
		PurchaseID: 11,
		Quantity:   2,
		Amount:     40,
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	got := <-sent
	assert.Equal(t, TypePurchaseCompleted, got.Type)
	assert.Equal(t, int64(7), got.SweetID)
	assert.Equal(t, 2, got.Quantity)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestKafkaPublisherLogsDeliveryFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	producer := mocks.NewAsyncProducer(t, nil)
	producer.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer, "mithai.inventory", zap.New(core))

	// Enqueueing succeeds; the failure surfaces asynchronously.
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeSweetRestocked, SweetID: 1}))
	require.NoError(t, p.Close())

	entries := logs.FilterMessage("delivering event failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, TypeSweetRestocked, fields["type"])
	assert.Equal(t, int64(1), fields["sweet_id"])
	assert.Equal(t, sarama.ErrOutOfBrokers.Error(), fields["error"])
}

func TestKafkaPublisherHonoursCancelledContext(t *testing.T) {
	producer := mocks.NewAsyncProducer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewKafkaPublisherWithProducer(producer, "mithai.inventory", nil)
	assert.ErrorIs(t, p.Publish(ctx, Event{Type: TypeSweetDeleted, SweetID: 1}), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TypeSweetCreated}))
	assert.NoError(t, p.Close())
}
