package kafka

import "time"

// InventoryChangedEvent announces that one inventory record was written
type InventoryChangedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Source    string    `json:"source"`
	Action    string    `json:"action"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeInventoryChanged = "inventory.changed"
)

// Actions carried by InventoryChangedEvent
const (
	ActionAdded       = "added"
	ActionIncremented = "incremented"
	ActionDecremented = "decremented"
	ActionDeleted     = "deleted"
	ActionRemoved     = "removed"
)

// Kafka topics
const (
	TopicInventoryChanged = "inventory-changed"
)
