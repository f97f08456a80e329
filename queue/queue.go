package queue

import (
	"reflect"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handler receives the payload of an event and takes ownership of it.
type Handler[P any] func(payload P)

// route identifies an event by its kind (K) and payload type (P). Two
// different pairs never share a reflect.Type.
type route[K, P any] struct{}

type event struct {
	route   reflect.Type
	payload any
}

// Releaser is implemented by payloads holding resources that must be freed
// when no handler takes ownership of them.
type Releaser interface {
	Release()
}

// Release disposes of a payload nobody consumed.
func Release(v any) {
	if r, ok := v.(Releaser); ok {
		r.Release()
	}
}

// Queue is a FIFO of typed events. The zero value is ready to use; it logs
// and measures nothing.
type Queue struct {
	l        sync.RWMutex
	handlers map[reflect.Type]func(any)

	pl      sync.Mutex
	pending []event

	log     atomic.Pointer[zap.Logger]
	metrics *metrics
}

type Option func(*options)

type options struct {
	log *zap.Logger
	mp  metric.MeterProvider
}

// WithLogger sets the logger used for dropped events and recovered panics.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMeterProvider sets where queue instruments are created. The global
// otel provider is used otherwise.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.mp = mp }
}

func New(opts ...Option) *Queue {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	q := &Queue{
		handlers: map[reflect.Type]func(any){},
		metrics:  newMetrics(o.mp),
	}
	q.SetLogger(o.log)
	return q
}

var defaultQueue = sync.OnceValue(func() *Queue { return New() })

// Default returns the process-wide queue. It is created on first use and
// lives until the process exits.
func Default() *Queue {
	return defaultQueue()
}

func (q *Queue) Logger() *zap.Logger {
	if log := q.log.Load(); log != nil {
		return log
	}
	return zap.NewNop()
}

func (q *Queue) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	q.log.Store(log)
}

// Register installs the handler for events of kind K carrying a P on the
// default queue.
func Register[K, P any](handler Handler[P]) {
	Using[K, P](Default()).Register(handler)
}

// Publish enqueues payload as an event of kind K on the default queue.
func Publish[K, P any](payload P) {
	Using[K, P](Default()).Publish(payload)
}

// Drain delivers everything pending on the default queue.
func Drain() int {
	return Default().Drain()
}

type typedQueue[K, P any] struct {
	q *Queue
}

func (t *typedQueue[K, P]) Register(handler Handler[P]) {
	rt := reflect.TypeFor[route[K, P]]()
	fn := func(v any) {
		// nil interface payloads arrive as a nil any.
		var p P
		if v != nil {
			p = v.(P)
		}
		handler(p)
	}

	t.q.l.Lock()
	defer t.q.l.Unlock()
	t.q.init()
	t.q.handlers[rt] = fn
}

func (t *typedQueue[K, P]) Publish(payload P) {
	t.q.push(event{
		route:   reflect.TypeFor[route[K, P]](),
		payload: payload,
	})
}

// Using allows a Queue to be used with a specific event kind and payload
// type. The returned value is meant to be used ephemerally, as a chain.
func Using[K, P any](q *Queue) interface {
	Register(handler Handler[P])
	Publish(payload P)
} {
	return &typedQueue[K, P]{q: q}
}

func (q *Queue) init() {
	if q.handlers == nil {
		q.handlers = map[reflect.Type]func(any){}
	}
}

func (q *Queue) push(ev event) {
	q.pl.Lock()
	q.pending = append(q.pending, ev)
	q.pl.Unlock()
	q.metrics.published(ev.route)
}

func (q *Queue) pop() (event, bool) {
	q.pl.Lock()
	defer q.pl.Unlock()
	if len(q.pending) == 0 {
		return event{}, false
	}
	ev := q.pending[0]
	q.pending[0] = event{}
	q.pending = q.pending[1:]
	if len(q.pending) == 0 {
		q.pending = nil
	}
	return ev, true
}

// Len reports how many events are waiting to be drained.
func (q *Queue) Len() int {
	q.pl.Lock()
	defer q.pl.Unlock()
	return len(q.pending)
}

// Drain delivers pending events in the order they were published, including
// events published by handlers while draining, and returns once the queue is
// empty. Handlers run on the calling goroutine. Drain may be called from
// inside a handler, and from several goroutines at once; every event is
// delivered exactly once.
func (q *Queue) Drain() int {
	n := 0
	for {
		ev, ok := q.pop()
		if !ok {
			return n
		}
		q.deliver(ev)
		n++
	}
}

func (q *Queue) deliver(ev event) {
	q.l.RLock()
	fn, ok := q.handlers[ev.route]
	q.l.RUnlock()

	if !ok {
		q.Logger().Debug("no handler for event", zap.Stringer("route", ev.route))
		q.metrics.dropped(ev.route)
		Release(ev.payload)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			q.Logger().Error("handler panicked",
				zap.Stringer("route", ev.route),
				zap.Any("panic", r),
			)
			q.metrics.panicked(ev.route)
		}
	}()
	fn(ev.payload)
	q.metrics.delivered(ev.route)
}
