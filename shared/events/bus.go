// Package events carries in-process change notifications between the photo
// repository, the capture pipeline, and the views that render the collection.
// Delivery is synchronous and process-lifetime-scoped; nothing survives a
// restart.
package events

import "sync"

// Tag names a kind of change.
type Tag string

const (
	PhotoCreated Tag = "photo.created"
	PhotoUpdated Tag = "photo.updated"
	PhotoDeleted Tag = "photo.deleted"
)

// Payload is the minimal description of a change: the record identity, and
// for PhotoUpdated the new note text.
type Payload struct {
	ID   int64
	Note string
}

// Listener receives change payloads for a single tag.
type Listener func(Payload)

type subscription struct {
	id       uint64
	listener Listener
}

// Bus is a constructed publish/subscribe channel. Listeners for a tag are
// invoked synchronously, in registration order. The zero value is not usable;
// construct with NewBus and pass it to components that need it.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Tag][]subscription
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[Tag][]subscription),
	}
}

// Subscribe registers a listener for tag and returns its unsubscribe handle.
// Unsubscribing twice is harmless.
func (b *Bus) Subscribe(tag Tag, listener Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[tag] = append(b.subs[tag], subscription{id: id, listener: listener})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		current := b.subs[tag]
		for i, s := range current {
			if s.id == id {
				b.subs[tag] = append(current[:i:i], current[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers payload to every listener registered for tag at the time of
// the call. Listeners run outside the bus lock, so they may subscribe or
// unsubscribe without deadlocking.
func (b *Bus) Emit(tag Tag, payload Payload) {
	b.mu.Lock()
	current := make([]subscription, len(b.subs[tag]))
	copy(current, b.subs[tag])
	b.mu.Unlock()

	for _, s := range current {
		s.listener(payload)
	}
}
