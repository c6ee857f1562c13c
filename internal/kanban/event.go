package kanban

import "boardsync/internal/model"

// EventType classifies a remote change notification.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is a change notification delivered by the realtime subscription.
// Card carries the full remote record; missing optional fields are treated
// as defaults by the merge reducer.
type Event struct {
	Type EventType  `json:"type"`
	Card model.Card `json:"card"`
}
