package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeDigestTrigger    MessageType = "digest.trigger"
	MessageTypeWelcomeRequested MessageType = "welcome.requested"
)

// Message — сообщение в очереди.
//
// Payload для digest.trigger содержит только job_id: сообщение —
// триггер, все данные worker собирает сам на момент выполнения.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// JobID — имя job в таблице jobs.
	JobID string `json:"job_id"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			string(routingKey),
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
			"job_id", msg.JobID,
		)

		return nil
	})
}

// PublishDigestTrigger публикует триггер daily digest.
// Потребитель: Worker (mail.digest).
func (p *Publisher) PublishDigestTrigger(ctx context.Context, jobID string) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeDigestTrigger,
		JobID:     jobID,
		Timestamp: time.Now(),
	}
	return p.Publish(ctx, ExchangeMail, RoutingKeyDigest, msg)
}

// PublishWelcomeRequested публикует запрос welcome-письма.
// Потребитель: Worker (mail.welcome).
func (p *Publisher) PublishWelcomeRequested(ctx context.Context, jobID string) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeWelcomeRequested,
		JobID:     jobID,
		Timestamp: time.Now(),
	}
	return p.Publish(ctx, ExchangeMail, RoutingKeyWelcome, msg)
}
