package ecs

// EventType names a gameplay event.
type EventType string

const (
	EventCoinCollected  EventType = "coin_collected"
	EventPlayerDied     EventType = "player_died"
	EventLevelCompleted EventType = "level_completed"
	EventDash           EventType = "dash"
	EventJump           EventType = "jump"
	EventLanded         EventType = "landed"
)

// Event is a gameplay event payload.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue is a FIFO drained by the game loop once per frame.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
