package ecs

// ContactQueue is a FIFO of contact events collected during a physics step.
type ContactQueue struct {
	items []ContactEvent
}

// Push adds an event.
func (q *ContactQueue) Push(evt ContactEvent) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *ContactQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *ContactQueue) Drain() []ContactEvent {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
