package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the events queue.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Queue == "" {
		return nil, fmt.Errorf("queue name is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueue(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("RabbitMQ client connected and %s declared.", cfg.Queue)

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", name, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishEvent marshals payload to JSON and publishes it to the events queue.
// eventType is carried in the AMQP type property so consumers can route
// without decoding the body.
func (c *Client) PublishEvent(eventType string, payload interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	msg, err := NewMessage(eventType, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.channel.Publish(
		"",      // exchange: default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Printf(" [x] Sent %s event %s", eventType, msg.MessageId)
	return nil
}

// NewMessage builds the persistent JSON publishing for an event.
func NewMessage(eventType string, payload interface{}) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s event to JSON: %w", eventType, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Type:         eventType,
		MessageId:    uuid.NewString(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
	}, nil
}

// ConsumeOrderEvents starts a goroutine delivering messages from the events
// queue to messageHandler. Messages are acked on success and nacked without
// requeue on failure so a poison message cannot loop.
func (c *Client) ConsumeOrderEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue, // queue
		"",      // consumer tag
		false,   // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for order events on %s", c.queue)

	go func() {
		for msg := range msgs {
			HandleDelivery(msg, messageHandler)
		}
	}()

	return nil
}

// HandleDelivery runs messageHandler on msg and settles it.
func HandleDelivery(msg amqp.Delivery, messageHandler func(msg amqp.Delivery) error) {
	if err := messageHandler(msg); err != nil {
		log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
	}
}
