package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during pass N become
// deliverable after the next SwapBuffers, so handlers never observe a pass
// that is still being applied.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	front    []any
	back     []any
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{
		front:    make([]any, 0, 64),
		back:     make([]any, 0, 64),
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Emit queues an event into the back buffer. A nil bus drops the event.
func Emit[T any](b *Bus, event T) {
	if b == nil {
		return
	}
	b.back = append(b.back, event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// SwapBuffers rotates back to front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int { return len(b.back) }

// DispatchAll delivers front-buffer events in emission order and returns
// how many were delivered to at least one handler.
func (b *Bus) DispatchAll() int {
	b.mu.Lock()
	handlers := b.handlers
	b.mu.Unlock()

	delivered := 0
	for _, ev := range b.front {
		hs := handlers[reflect.TypeOf(ev)]
		for _, h := range hs {
			h(ev)
		}
		if len(hs) > 0 {
			delivered++
		}
	}
	b.front = b.front[:0]
	return delivered
}
