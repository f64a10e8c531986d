package event

// Handler receives one notification. Handlers must not mutate engine state
// synchronously; they observe facts and may queue commands for a later tick.
type Handler func(Notice)

type subscriber struct {
	id      int
	handler Handler
}

// Dispatcher fans notifications out to registered subscribers in
// subscription order. Not goroutine-safe: it is owned by the engine and
// invoked only from the engine's notify phase.
type Dispatcher struct {
	subscribers []subscriber
	nextID      int
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers a handler and returns a function that removes it.
// A nil handler is ignored and yields a no-op unsubscribe.
func (d *Dispatcher) Subscribe(h Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	d.nextID++
	id := d.nextID
	d.subscribers = append(d.subscribers, subscriber{id: id, handler: h})
	return func() {
		for i, s := range d.subscribers {
			if s.id == id {
				d.subscribers = append(d.subscribers[:i], d.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers one notice to every subscriber in order. Delivery runs
// over a snapshot of the subscriber list, so a handler that subscribes or
// unsubscribes during delivery never shifts the list under the loop: the set
// of recipients is fixed when the dispatch starts.
func (d *Dispatcher) Dispatch(n Notice) {
	if len(d.subscribers) == 0 {
		return
	}
	active := make([]subscriber, len(d.subscribers))
	copy(active, d.subscribers)
	for _, s := range active {
		s.handler(n)
	}
}

// SubscriberCount returns the number of registered subscribers.
func (d *Dispatcher) SubscriberCount() int { return len(d.subscribers) }
