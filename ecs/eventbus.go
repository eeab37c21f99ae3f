package ecs

import (
	"fmt"
	"reflect"
	"slices"
)

// maxPublishDepth bounds how deeply publishes of one event type may nest.
const maxPublishDepth = 64

// Subscription identifies one registered handler so it can be removed again.
type Subscription struct {
	event reflect.Type
	id    uint64
}

// Event returns the event type the subscription listens to.
func (s Subscription) Event() reflect.Type {
	return s.event
}

type handlerEntry struct {
	id uint64
	fn any
}

// EventBus is a typed, synchronous publish/subscribe dispatcher. Handlers run
// on the publisher's stack in subscription order. A panicking handler is not
// recovered: it unwinds through Publish to the caller.
type EventBus struct {
	eventTypes map[reflect.Type]int
	handlers   [][]handlerEntry
	depth      []int
	nextID     uint64
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		eventTypes: make(map[reflect.Type]int),
	}
}

// Subscribe registers handler for events of type T.
func Subscribe[T any](bus *EventBus, handler func(T)) Subscription {
	t := reflect.TypeFor[T]()
	slot := bus.slot(t)
	bus.nextID++
	bus.handlers[slot] = append(bus.handlers[slot], handlerEntry{id: bus.nextID, fn: handler})
	return Subscription{event: t, id: bus.nextID}
}

// Unsubscribe removes a handler. It reports whether the subscription was found.
// The handler list is replaced rather than edited in place, so a dispatch that
// is in progress keeps iterating its own snapshot.
func (bus *EventBus) Unsubscribe(sub Subscription) bool {
	slot, ok := bus.eventTypes[sub.event]
	if !ok {
		return false
	}

	hs := bus.handlers[slot]
	i := slices.IndexFunc(hs, func(h handlerEntry) bool { return h.id == sub.id })
	if i < 0 {
		return false
	}

	next := make([]handlerEntry, 0, len(hs)-1)
	next = append(next, hs[:i]...)
	next = append(next, hs[i+1:]...)
	bus.handlers[slot] = next
	return true
}

// Publish delivers event to every handler subscribed to T at the moment of the
// call. Handlers subscribed or unsubscribed during dispatch take effect from
// the next Publish.
func Publish[T any](bus *EventBus, event T) {
	t := reflect.TypeFor[T]()
	slot, ok := bus.eventTypes[t]
	if !ok {
		return
	}

	hs := bus.handlers[slot]
	if len(hs) == 0 {
		return
	}

	if bus.depth[slot] >= maxPublishDepth {
		panic(fmt.Errorf("%w: %s", ErrRecursivePublish, t))
	}
	bus.depth[slot]++
	defer func() { bus.depth[slot]-- }()

	for _, h := range hs {
		h.fn.(func(T))(event)
	}
}

// HandlerCount returns the number of handlers subscribed to T.
func HandlerCount[T any](bus *EventBus) int {
	slot, ok := bus.eventTypes[reflect.TypeFor[T]()]
	if !ok {
		return 0
	}
	return len(bus.handlers[slot])
}

func (bus *EventBus) slot(t reflect.Type) int {
	if slot, ok := bus.eventTypes[t]; ok {
		return slot
	}
	slot := len(bus.handlers)
	bus.eventTypes[t] = slot
	bus.handlers = append(bus.handlers, make([]handlerEntry, 0, 4))
	bus.depth = append(bus.depth, 0)
	return slot
}
