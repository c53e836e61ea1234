package messagequeue

import "context"

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publish(queueName string, body []byte) error
	// Consume calls handler for every message until ctx is done.
	Consume(ctx context.Context, queueName string, handler func(body []byte)) error
	Close() error
}
