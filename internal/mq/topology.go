package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeMail Exchange = "openstock.mail"
	ExchangeDLQ  Exchange = "openstock.dlq"
)

// Queues — имена очередей.
const (
	QueueMailDigest  Queue = "mail.digest"
	QueueMailWelcome Queue = "mail.welcome"
	QueueDLQMail     Queue = "dlq.mail"
)

// Routing keys.
const (
	RoutingKeyDigest  RoutingKey = "digest"
	RoutingKeyWelcome RoutingKey = "welcome"
	RoutingKeyDLQMail RoutingKey = "mail"
)

// SetupTopology объявляет exchanges, queues и bindings.
// Идемпотентна: безопасно вызывать при каждом старте сервиса.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchanges(ch); err != nil {
			return err
		}
		if err := declareQueues(ch); err != nil {
			return err
		}
		return bindQueues(ch)
	})
}

// declareExchanges создаёт обменники.
func declareExchanges(ch *amqp.Channel) error {
	for _, name := range []Exchange{ExchangeMail, ExchangeDLQ} {
		err := ch.ExchangeDeclare(
			string(name), // name
			"direct",     // type
			true,         // durable
			false,        // auto-deleted
			false,        // internal
			false,        // no-wait
			nil,          // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", name, err)
		}
	}
	return nil
}

// declareQueues создаёт очереди.
func declareQueues(ch *amqp.Channel) error {
	// Неразобранные сообщения mail-очередей уходят в DLQ
	dlqArgs := amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQMail),
	}

	queues := []struct {
		name Queue
		args amqp.Table
	}{
		{QueueMailDigest, dlqArgs},
		{QueueMailWelcome, dlqArgs},
		{QueueDLQMail, nil},
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			string(q.name), // name
			true,           // durable
			false,          // delete when unused
			false,          // exclusive
			false,          // no-wait
			q.args,         // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", q.name, err)
		}
	}
	return nil
}

// bindQueues привязывает очереди к обменникам.
func bindQueues(ch *amqp.Channel) error {
	bindings := []struct {
		queue      Queue
		routingKey RoutingKey
		exchange   Exchange
	}{
		{QueueMailDigest, RoutingKeyDigest, ExchangeMail},
		{QueueMailWelcome, RoutingKeyWelcome, ExchangeMail},
		{QueueDLQMail, RoutingKeyDLQMail, ExchangeDLQ},
	}

	for _, b := range bindings {
		err := ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}
	return nil
}
