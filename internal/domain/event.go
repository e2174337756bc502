package domain

import "time"

type EventType string

const (
	// EventTypeOrder marks an extra copy of an existing key ordered
	// from the locksmith.
	EventTypeOrder EventType = "ORDER"
	// EventTypeFlex marks a re-cut (new flex generation) ordered from
	// the locksmith.
	EventTypeFlex EventType = "FLEX"
)

type EventStatus string

const (
	EventStatusOrdered  EventStatus = "ORDERED"
	EventStatusReceived EventStatus = "RECEIVED"
)

// KeyEvent is a workflow record attached to one or more keys. A flex
// generation produces a single event covering the whole batch. Status
// moves ORDERED → RECEIVED exactly once; only the most recent event per
// key is operationally significant.
type KeyEvent struct {
	ID        int32       `json:"id"`
	Type      EventType   `json:"type"`
	Status    EventStatus `json:"status"`
	KeyIDs    []int32     `json:"key_ids"`
	CreatedOn time.Time   `json:"created_on"`
	UpdatedOn time.Time   `json:"updated_on"`
}

func (e *KeyEvent) Covers(keyID int32) bool {
	for _, id := range e.KeyIDs {
		if id == keyID {
			return true
		}
	}
	return false
}
