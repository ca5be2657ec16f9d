package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessage(t *testing.T, eventType string, event InventoryChangedEvent) *sarama.ConsumerMessage {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)

	msg := &sarama.ConsumerMessage{Topic: TopicInventoryChanged, Value: value}
	if eventType != "" {
		msg.Headers = []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(eventType)}}
	}
	return msg
}

func TestDecodeMessage(t *testing.T) {
	event := InventoryChangedEvent{EventID: "e1", Source: "a", Action: ActionAdded, Name: "milk"}

	eventType, decoded, err := decodeMessage(newMessage(t, EventTypeInventoryChanged, event))
	require.NoError(t, err)
	assert.Equal(t, EventTypeInventoryChanged, eventType)
	assert.Equal(t, "milk", decoded.Name)
	assert.Equal(t, ActionAdded, decoded.Action)
}

func TestDecodeMessageRejects(t *testing.T) {
	_, _, err := decodeMessage(newMessage(t, "", InventoryChangedEvent{}))
	assert.ErrorIs(t, err, errMissingEventType)

	_, _, err = decodeMessage(newMessage(t, "order.created", InventoryChangedEvent{}))
	assert.Error(t, err)

	msg := &sarama.ConsumerMessage{
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeInventoryChanged)}},
		Value:   []byte("{"),
	}
	_, _, err = decodeMessage(msg)
	assert.Error(t, err)
}

func newTestConsumer(source string) *Consumer {
	return &Consumer{source: source, handlers: make(map[string]EventHandler)}
}

func TestHandleMessageDispatches(t *testing.T) {
	c := newTestConsumer("instance-a")
	var got []InventoryChangedEvent
	c.RegisterHandler(EventTypeInventoryChanged, func(ctx context.Context, event InventoryChangedEvent) error {
		got = append(got, event)
		return nil
	})

	c.handleMessage(context.Background(), newMessage(t, EventTypeInventoryChanged, InventoryChangedEvent{
		Source: "instance-b", Action: ActionRemoved, Name: "salt", Timestamp: time.Now(),
	}))

	require.Len(t, got, 1)
	assert.Equal(t, "salt", got[0].Name)
}

func TestHandleMessageSkipsOwnEvents(t *testing.T) {
	c := newTestConsumer("instance-a")
	called := false
	c.RegisterHandler(EventTypeInventoryChanged, func(context.Context, InventoryChangedEvent) error {
		called = true
		return nil
	})

	c.handleMessage(context.Background(), newMessage(t, EventTypeInventoryChanged, InventoryChangedEvent{
		Source: "instance-a", Name: "salt",
	}))

	assert.False(t, called)
}
