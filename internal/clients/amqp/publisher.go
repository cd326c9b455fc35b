package amqp

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/logger"
)

const (
	contentType    = "application/json"
	publishTimeout = 5 * time.Second
)

type config interface {
	URL() string
	Exchange() string
	Queue() string
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// Publisher sends transaction events to a durable direct exchange.
type Publisher struct {
	conn     *amqp091.Connection
	channel  channel
	exchange string
	queue    string
}

func NewPublisher(config config) (*Publisher, error) {
	conn, err := amqp091.Dial(config.URL())
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}

	if err = setup(ch, config.Exchange(), config.Queue()); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "setup exchange and queue")
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: config.Exchange(),
		queue:    config.Queue(),
	}, nil
}

func setup(ch *amqp091.Channel, exchange, queue string) error {
	err := ch.ExchangeDeclare(exchange, amqp091.ExchangeDirect, true, false, false, false, nil)
	if err != nil {
		return errors.Wrap(err, "declare exchange")
	}
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return errors.Wrap(err, "declare queue")
	}
	// the queue name doubles as the routing key
	return errors.Wrap(ch.QueueBind(queue, queue, exchange, false, nil), "bind queue")
}

// Publish sends one persistent message; key is carried as the message type.
func (p *Publisher) Publish(ctx context.Context, key string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.channel.PublishWithContext(ctx, p.exchange, p.queue, false, false, amqp091.Publishing{
		ContentType:  contentType,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Type:         key,
		Body:         body,
	})
	if err != nil {
		return errors.Wrap(err, "publish message")
	}
	logger.Debug("transaction event published",
		zap.String("exchange", p.exchange),
		zap.String("queue", p.queue))
	return nil
}

func (p *Publisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Close(); err != nil {
		logger.Error("failed to close amqp connection", zap.Error(err))
	}
}
