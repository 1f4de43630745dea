package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends review events to RabbitMQ. A connection is dialed per
// publish; reviews are rare enough that a pooled channel is not needed.
type Publisher struct {
	url         string
	dialTimeout time.Duration
	log         *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, dialTimeout: 2 * time.Second, log: log}
}

// PublishRecordReviewed publishes ev to the durable record.reviewed queue
// as a persistent JSON message. Failures are returned unlogged; the caller
// decides whether they matter and logs them with its own context.
func (p *Publisher) PublishRecordReviewed(ctx context.Context, ev RecordReviewedEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(p.dialTimeout)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declareReviewQueue(ch); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		ReviewQueueName, // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		return err
	}
	p.log.Debug("review event published",
		zap.String("kind", string(ev.Kind)), zap.Uint64("record_id", ev.RecordID))
	return nil
}

// declareReviewQueue is idempotent; publisher and consumer both call it.
func declareReviewQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		ReviewQueueName, // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	)
	return err
}
