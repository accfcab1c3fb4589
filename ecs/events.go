package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// Renderer event types.
const (
	EventSlotPerformed  = "slot_performed"
	EventLerpFinished   = "lerp_finished"
	EventTweenFinished  = "tween_finished"
	EventMissingTarget  = "missing_target"
	EventInvalidSetting = "invalid_setting"
)

// SlotEvent reports activity of one action slot.
type SlotEvent struct {
	Source Entity
	Target Entity
	Slot   int
	Action string
}

// EventQueue is a simple FIFO queue.
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

// Peek returns the queued events without clearing them.
func (q *EventQueue) Peek() []Event {
	if q == nil {
		return nil
	}
	return append([]Event(nil), q.items...)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
