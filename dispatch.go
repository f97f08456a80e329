package emitter

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nkcmr/emitter/queue"
)

// Event kinds this package publishes on the default queue.
type (
	emitterEvent   struct{}
	emitterCreated struct{}
	emitterDropped struct{}
)

// registration is the payload of emitterCreated. done is closed once the
// emitter is in the directory.
type registration struct {
	emitter *Emitter
	done    chan struct{}
}

var setupOnce sync.Once

func setup() {
	q := queue.Default()
	d := emitters()

	queue.Using[emitterEvent, *envelope](q).Register(dispatch)

	queue.Using[emitterCreated, *registration](q).Register(func(r *registration) {
		d.insert(r.emitter)
		close(r.done)
		logger().Debug("emitter registered", zap.Stringer("emitter", r.emitter.id))
	})

	queue.Using[emitterDropped, uuid.UUID](q).Register(func(id uuid.UUID) {
		d.remove(id)
		logger().Debug("emitter deregistered", zap.Stringer("emitter", id))
	})
}

// dispatch routes an envelope to the handler registered on its emitter. The
// directory lookup finishes before the registry is consulted, and the
// registry lock is released before the handler runs.
func dispatch(env *envelope) {
	e, ok := emitters().lookup(env.emitter)
	if !ok {
		logger().Debug("dropping event for unknown emitter",
			zap.Stringer("emitter", env.emitter),
			zap.Stringer("key", env.key),
		)
		env.Release()
		return
	}

	h, ok := e.handlers.find(env.key)
	if !ok {
		logger().Debug("dropping event with no handler",
			zap.Stringer("emitter", env.emitter),
			zap.Stringer("key", env.key),
		)
		env.Release()
		return
	}
	h(env.box)
}

func logger() *zap.Logger {
	return queue.Default().Logger()
}
