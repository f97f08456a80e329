package emitter

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/nkcmr/emitter/queue"
)

// box holds a triggered payload until exactly one party takes it: the
// matched handler, or release when nobody matches.
type box struct {
	mu    sync.Mutex
	v     any
	taken bool
}

func newBox(v any) *box {
	return &box{v: v}
}

func (b *box) take() (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.taken {
		return nil, false
	}
	v := b.v
	b.v = nil
	b.taken = true
	return v, true
}

// envelope carries a triggered payload through the queue to the handler
// registered under key on the emitter with the given id.
type envelope struct {
	emitter uuid.UUID
	key     reflect.Type
	box     *box
}

// Release disposes of the payload if no handler took it. The queue calls it
// when an envelope has nowhere to go, and so does dispatch.
func (e *envelope) Release() {
	if v, ok := e.box.take(); ok {
		queue.Release(v)
	}
}
