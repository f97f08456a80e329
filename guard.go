package emitter

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/nkcmr/emitter/queue"
)

// guard is owned by the emitter New returns and by nothing else. When it is
// released, explicitly or by the garbage collector, the emitter is removed
// from the directory the next time the queue drains.
type guard struct {
	drop *dropper
}

// dropper is kept apart from the guard so the cleanup attached to the guard
// does not keep it reachable.
type dropper struct {
	id   uuid.UUID
	once sync.Once
}

func newGuard(id uuid.UUID) *guard {
	g := &guard{drop: &dropper{id: id}}
	runtime.AddCleanup(g, func(d *dropper) { d.release() }, g.drop)
	return g
}

func (g *guard) release() {
	g.drop.release()
}

func (d *dropper) release() {
	d.once.Do(func() {
		queue.Using[emitterDropped, uuid.UUID](queue.Default()).Publish(d.id)
	})
}
