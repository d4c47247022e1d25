package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	dmodel "storefront-service/pkg"
)

const (
	OrderExchange         = "store_exchange"
	OrderPlacedQueue      = "order_placed_queue"
	OrderPlacedRoutingKey = "order.placed"
)

// Publisher emits order events on a durable topic exchange. A nil
// *Publisher is valid and publishes nothing, so the service runs the same
// with and without a broker configured.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewPublisher connects to the broker with retry, declares the exchange
// and binds the order-placed queue to it.
func NewPublisher(url string) (*Publisher, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		retryTime := time.Duration(i*i)*time.Second + time.Second
		log.Printf("Failed to connect to RabbitMQ, retrying in %v: %v", retryTime, err)
		time.Sleep(retryTime)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ after retries: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		OrderExchange, // name
		"topic",       // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", OrderExchange, err)
	}

	q, err := channel.QueueDeclare(
		OrderPlacedQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", OrderPlacedQueue, err)
	}

	err = channel.QueueBind(q.Name, OrderPlacedRoutingKey, OrderExchange, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue %s: %w", OrderPlacedQueue, err)
	}

	return &Publisher{conn: conn, channel: channel}, nil
}

// PublishOrderPlaced emits an order.placed event. Best-effort: callers log
// the returned error and move on.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, event dmodel.OrderPlaced) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		OrderExchange,
		OrderPlacedRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
