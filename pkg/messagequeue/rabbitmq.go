package messagequeue

import (
	"context"
	"errors"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// RabbitMQService implements the MessageQueue interface using RabbitMQ.
type RabbitMQService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *zap.Logger
}

// NewRabbitMQServiceConfig contains options for creating a new RabbitMQService.
type NewRabbitMQServiceConfig struct {
	URL string
}

// NewRabbitMQService dials the broker and opens a channel.
func NewRabbitMQService(cfg NewRabbitMQServiceConfig, logger *zap.Logger) (*RabbitMQService, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel opening fails
		return nil, fmt.Errorf("failed to open a RabbitMQ channel: %w", err)
	}

	logger.Info("Successfully connected to RabbitMQ and opened a channel")
	return &RabbitMQService{conn: conn, channel: ch, logger: logger}, nil
}

func (s *RabbitMQService) declare(queueName string) (amqp.Queue, error) {
	return s.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
}

// Publish sends a persistent JSON message to a RabbitMQ queue.
func (s *RabbitMQService) Publish(queueName string, body []byte) error {
	q, err := s.declare(queueName)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	err = s.channel.Publish(
		"",     // exchange
		q.Name, // routing key (queue name)
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		return fmt.Errorf("failed to publish a message to queue %s: %w", queueName, err)
	}
	s.logger.Debug("Published message", zap.String("queue", queueName), zap.Int("bytes", len(body)))
	return nil
}

// Consume delivers messages from a RabbitMQ queue to handler until ctx is done
// or the delivery channel closes.
func (s *RabbitMQService) Consume(ctx context.Context, queueName string, handler func(body []byte)) error {
	q, err := s.declare(queueName)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s for consuming: %w", queueName, err)
	}

	consumerTag := "jar-" + queueName
	msgs, err := s.channel.Consume(
		q.Name,      // queue
		consumerTag, // consumer
		true,        // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer for queue %s: %w", queueName, err)
	}

	s.logger.Info("Waiting for messages", zap.String("queue", q.Name))
	for {
		select {
		case <-ctx.Done():
			_ = s.channel.Cancel(consumerTag, false)
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("RabbitMQ delivery channel closed")
			}
			handler(d.Body)
		}
	}
}

// Close closes the RabbitMQ channel and connection.
func (s *RabbitMQService) Close() error {
	var errs []error
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing RabbitMQ channel: %w", err))
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing RabbitMQ connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
