package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KafkaPublisher implements Publisher with an asynchronous Kafka producer.
// Publish only enqueues; delivery failures are logged once the producer
// gives up retrying. Events for the same sweet share a partition key so
// they stay ordered.
type KafkaPublisher struct {
	producer sarama.AsyncProducer
	topic    string
	log      *zap.Logger
	done     chan struct{}
}

// NewKafkaPublisher connects a producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic, clientID string, log *zap.Logger) (*KafkaPublisher, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.Return.Successes = false
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic, log), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer. The producer
// must be configured to return errors.
func NewKafkaPublisherWithProducer(producer sarama.AsyncProducer, topic string, log *zap.Logger) *KafkaPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      log,
		done:     make(chan struct{}),
	}
	go p.drainErrors()
	return p
}

// Publish hands event to the producer. It blocks only while the producer's
// input buffer is full.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.SweetID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
			{Key: []byte("event-id"), Value: []byte(event.ID)},
		},
		Metadata: event,
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueueing %s event: %w", event.Type, ctx.Err())
	}
}

func (p *KafkaPublisher) drainErrors() {
	defer close(p.done)
	for perr := range p.producer.Errors() {
		fields := []zap.Field{zap.String("topic", p.topic), zap.Error(perr.Err)}
		if event, ok := perr.Msg.Metadata.(Event); ok {
			fields = append(fields,
				zap.String("event_id", event.ID),
				zap.String("type", event.Type),
				zap.Int64("sweet_id", event.SweetID),
			)
		}
		p.log.Warn("delivering event failed", fields...)
	}
}

// Close flushes buffered events and waits until every delivery failure has
// been logged.
func (p *KafkaPublisher) Close() error {
	p.producer.AsyncClose()
	<-p.done
	return nil
}
