package emitter

import (
	"reflect"
	"sync"

	"github.com/nkcmr/emitter/queue"
)

// key is the compound key of a handler: the pair of an event kind and a
// payload type. Distinct pairs are distinct types, so their reflect.Types
// never collide.
type key[K, P any] struct{}

func keyOf[K, P any]() reflect.Type {
	return reflect.TypeFor[key[K, P]]()
}

// erased is a handler whose payload type has been forgotten. It is only ever
// stored under the key its payload type was derived from.
type erased func(b *box)

func erase[P any](h Handler[P]) erased {
	return func(b *box) {
		v, ok := b.take()
		if !ok {
			return
		}
		var p P
		if v != nil {
			if p, ok = v.(P); !ok {
				// unreachable while keys are derived from P
				queue.Release(v)
				return
			}
		}
		h(p)
	}
}

type registry struct {
	l        sync.RWMutex
	handlers map[reflect.Type]erased
}

func newRegistry() *registry {
	return &registry{handlers: map[reflect.Type]erased{}}
}

func (r *registry) insert(k reflect.Type, h erased) {
	r.l.Lock()
	defer r.l.Unlock()
	r.handlers[k] = h
}

func (r *registry) find(k reflect.Type) (erased, bool) {
	r.l.RLock()
	defer r.l.RUnlock()
	h, ok := r.handlers[k]
	return h, ok
}

func (r *registry) len() int {
	r.l.RLock()
	defer r.l.RUnlock()
	return len(r.handlers)
}
