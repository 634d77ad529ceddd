package app

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Event is a window notification applied by the control loop between frames.
type Event interface {
	event()
}

type ResizeEvent struct {
	Width, Height uint32
}

type KeyEvent struct {
	Key     glfw.Key
	Pressed bool
}

// FocusEvent with Focused false releases all held camera actions.
type FocusEvent struct {
	Focused bool
}

func (ResizeEvent) event() {}
func (KeyEvent) event()    {}
func (FocusEvent) event()  {}

// EventSource is polled once per tick by Session.Run.
type EventSource interface {
	Poll() []Event
	ShouldClose() bool
}

// EventQueue buffers events pushed from window callbacks until the loop
// drains them.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
}

func (q *EventQueue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain returns the queued events in arrival order and empties the queue.
func (q *EventQueue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}
