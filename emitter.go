package emitter

import (
	"runtime"

	"github.com/google/uuid"

	"github.com/nkcmr/emitter/queue"
)

// Handler receives a triggered payload and owns it from then on.
type Handler[P any] func(payload P)

// Emitter is an independent publish/subscribe endpoint with its own set of
// handlers. Copies of an Emitter share its handlers and its registration.
type Emitter struct {
	id       uuid.UUID
	handlers *registry
	alive    *guard
}

// New creates an emitter and registers it before returning, so it can be
// triggered right away, including from a handler running on another
// goroutine's drain.
func New() *Emitter {
	setupOnce.Do(setup)

	id := uuid.New()
	e := &Emitter{
		id:       id,
		handlers: newRegistry(),
		alive:    newGuard(id),
	}

	r := &registration{
		// The directory's copy has no guard.
		emitter: &Emitter{id: id, handlers: e.handlers},
		done:    make(chan struct{}),
	}
	queue.Using[emitterCreated, *registration](queue.Default()).Publish(r)
	queue.Drain()

	// Another goroutine's drain may have picked the registration up first.
	<-r.done
	return e
}

func (e *Emitter) ID() uuid.UUID {
	return e.id
}

// Close releases the emitter's registration now instead of waiting for the
// garbage collector. It takes effect for every copy of the emitter once the
// queue drains. Calling Close more than once is harmless.
func (e *Emitter) Close() {
	if e.alive != nil {
		e.alive.release()
	}
}

// On registers handler for events of kind K carrying a P, replacing any
// handler already registered for that pair.
func On[K, P any](e *Emitter, handler Handler[P]) {
	e.handlers.insert(keyOf[K, P](), erase(handler))
}

// Trigger publishes payload on e as an event of kind K. It returns
// immediately; the handler runs when the default queue is drained. If no
// handler is registered for (K, P) the payload is released and dropped.
func Trigger[K, P any](e *Emitter, payload P) {
	queue.Using[emitterEvent, *envelope](queue.Default()).Publish(&envelope{
		emitter: e.id,
		key:     keyOf[K, P](),
		box:     newBox(payload),
	})
	// e must not be collected before the envelope is queued ahead of its
	// deregistration.
	runtime.KeepAlive(e)
}
