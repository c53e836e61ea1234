package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/travis-tran03/leetcode-jar/internal/models"
	"github.com/travis-tran03/leetcode-jar/pkg/messagequeue"
)

// Event types published after a successful write.
const (
	EventMark     = "mark"
	EventCloseDay = "close-day"
	EventInit     = "init"
)

// Event describes one completed state transition.
type Event struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Mode    string        `json:"mode"`
	Date    string        `json:"date,omitempty"`
	User    string        `json:"user,omitempty"`
	Status  models.Status `json:"status,omitempty"`
	Users   []string      `json:"users,omitempty"`
	Changed int           `json:"changed,omitempty"`
	At      time.Time     `json:"at"`
}

func newEvent(eventType, mode string) Event {
	return Event{ID: uuid.NewString(), Type: eventType, Mode: mode, At: time.Now().UTC()}
}

// String is the one-line form printed by `jar watch`.
func (e Event) String() string {
	switch e.Type {
	case EventMark:
		return fmt.Sprintf("[%s] %s marked %s on %s", e.Mode, e.User, e.Status, e.Date)
	case EventCloseDay:
		return fmt.Sprintf("[%s] closed %s: %d missing -> missed", e.Mode, e.Date, e.Changed)
	case EventInit:
		return fmt.Sprintf("[%s] users set to %v", e.Mode, e.Users)
	}
	return fmt.Sprintf("[%s] %s", e.Mode, e.Type)
}

// DecodeEvent parses a published event body.
func DecodeEvent(body []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	return e, nil
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, Event) error { return nil }

// QueueNotifier publishes events as JSON to a message queue.
type QueueNotifier struct {
	mq    messagequeue.MessageQueue
	queue string
}

// NewQueueNotifier creates a QueueNotifier writing to queue.
func NewQueueNotifier(mq messagequeue.MessageQueue, queue string) *QueueNotifier {
	return &QueueNotifier{mq: mq, queue: queue}
}

// Publish encodes and sends the event.
func (n *QueueNotifier) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := n.mq.Publish(n.queue, body); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}
