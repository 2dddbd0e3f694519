package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_TURN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes.
const (
	TypeChatTurn       = "CHAT_TURN"
	TypeCatalogReindex = "CATALOG_REINDEX"
)

// NewChatTurnEvent records one completed chat turn for analytics.
func NewChatTurnEvent(threadID, intent string, resultCount int) Event {
	return BaseEvent{
		Type: TypeChatTurn,
		Data: map[string]interface{}{
			"thread_id":    threadID,
			"intent":       intent,
			"result_count": resultCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewCatalogReindexEvent records a completed lexical index rebuild.
func NewCatalogReindexEvent(passageCount int) Event {
	return BaseEvent{
		Type: TypeCatalogReindex,
		Data: map[string]interface{}{
			"passage_count": passageCount,
		},
		OccurredAt: time.Now(),
	}
}
