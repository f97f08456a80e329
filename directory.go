package emitter

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "github.com/nkcmr/emitter"

// directory maps the id of every live emitter to a copy of it that carries
// no lifecycle guard, so being listed here never keeps an emitter alive.
type directory struct {
	l        sync.RWMutex
	emitters map[uuid.UUID]*Emitter
}

// emitters returns the process-wide directory, creating it on first use.
var emitters = sync.OnceValue(newDirectory)

func newDirectory() *directory {
	d := &directory{emitters: map[uuid.UUID]*Emitter{}}

	meter := otel.Meter(meterName)
	_, err := meter.Int64ObservableGauge("emitter.directory.size",
		metric.WithDescription("Emitters currently registered"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(d.len()))
			return nil
		}),
	)
	if err != nil {
		logger().Warn("failed to create emitter.directory.size metric", zap.Error(err))
	}
	return d
}

func (d *directory) insert(e *Emitter) {
	d.l.Lock()
	defer d.l.Unlock()
	d.emitters[e.id] = e
}

func (d *directory) remove(id uuid.UUID) {
	d.l.Lock()
	defer d.l.Unlock()
	delete(d.emitters, id)
}

func (d *directory) lookup(id uuid.UUID) (*Emitter, bool) {
	d.l.RLock()
	defer d.l.RUnlock()
	e, ok := d.emitters[id]
	return e, ok
}

func (d *directory) len() int {
	d.l.RLock()
	defer d.l.RUnlock()
	return len(d.emitters)
}

// Lookup finds a registered emitter by id. The emitter returned shares its
// handlers with the one New returned but does not keep it registered, and
// closing it does nothing.
func Lookup(id uuid.UUID) (*Emitter, bool) {
	return emitters().lookup(id)
}

// Registered reports how many emitters are currently registered.
func Registered() int {
	return emitters().len()
}
