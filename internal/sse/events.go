// Package sse implements the Server-Sent Events layer that keeps open
// sessions in sync. Each mutation on the board produces an event carrying
// the full current snapshot for its scope, so consumers always apply a
// replace-entire-set update. Streams are independent: there is no ordering
// guarantee between a category stream and a task stream.
package sse

import "time"

// EventType identifies the subscription scope an event belongs to.
type EventType string

const (
	// EventCategoriesChanged carries the full category set of one owner.
	EventCategoriesChanged EventType = "categories.changed"
	// EventTasksChanged carries the full task set of one category.
	EventTasksChanged EventType = "tasks.changed"
	// EventBoardChanged signals that local-mode storage changed on disk.
	EventBoardChanged EventType = "board.changed"
	// EventHeartbeat keeps idle connections alive.
	EventHeartbeat EventType = "heartbeat"
	// EventConnected is the first event on every stream.
	EventConnected EventType = "connected"
)

// Event is one message on a stream. Data holds the snapshot payload; for
// scoped events UserID/CategoryID select the clients that receive it.
type Event struct {
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"-"`
	CategoryID string    `json:"categoryId,omitempty"`
	Data       any       `json:"data"`
}

// NewHeartbeatEvent builds a keepalive event.
func NewHeartbeatEvent() Event {
	return Event{Type: EventHeartbeat, Timestamp: time.Now()}
}
