package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travis-tran03/leetcode-jar/internal/models"
)

type memQueue struct {
	queue  string
	bodies [][]byte
	err    error
}

func (m *memQueue) Publish(queue string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.queue = queue
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *memQueue) Consume(ctx context.Context, _ string, _ func([]byte)) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *memQueue) Close() error { return nil }

func TestQueueNotifier(t *testing.T) {
	mq := &memQueue{}
	n := NewQueueNotifier(mq, "jar.events")

	event := newEvent(EventMark, ModeAPI)
	event.Date, event.User, event.Status = "2024-01-01", "david", models.StatusMissed
	require.NoError(t, n.Publish(context.Background(), event))

	assert.Equal(t, "jar.events", mq.queue)
	require.Len(t, mq.bodies, 1)
	back, err := DecodeEvent(mq.bodies[0])
	require.NoError(t, err)
	assert.Equal(t, event.ID, back.ID)
	assert.True(t, event.At.Equal(back.At))
	assert.Equal(t, "[api] david marked missed on 2024-01-01", back.String())
}

func TestQueueNotifier_Errors(t *testing.T) {
	mq := &memQueue{err: errors.New("channel closed")}
	n := NewQueueNotifier(mq, "jar.events")
	err := n.Publish(context.Background(), newEvent(EventInit, ModeLocal))
	assert.ErrorIs(t, err, mq.err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewQueueNotifier(&memQueue{}, "q").Publish(ctx, Event{}), context.Canceled)
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Event{Type: EventCloseDay, Mode: ModeStore, Date: "2024-01-01", Changed: 2}, "[store] closed 2024-01-01: 2 missing -> missed"},
		{Event{Type: EventInit, Mode: ModeLocal, Users: []string{"amy", "ben"}}, "[local] users set to [amy ben]"},
		{Event{Type: "rename", Mode: ModeLocal}, "[local] rename"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.String())
	}

	_, err := DecodeEvent([]byte("not json"))
	assert.Error(t, err)
}
