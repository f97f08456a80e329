package queue

import (
	"context"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/nkcmr/emitter/queue"

type metrics struct {
	publishedCount metric.Int64Counter
	deliveredCount metric.Int64Counter
	droppedCount   metric.Int64Counter
	panicCount     metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) *metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	published, err := meter.Int64Counter("emitter.queue.published", metric.WithDescription("Events enqueued"))
	if err != nil {
		published = &noop.Int64Counter{}
	}
	delivered, err := meter.Int64Counter("emitter.queue.delivered", metric.WithDescription("Events handed to a handler"))
	if err != nil {
		delivered = &noop.Int64Counter{}
	}
	dropped, err := meter.Int64Counter("emitter.queue.dropped", metric.WithDescription("Events with no registered handler"))
	if err != nil {
		dropped = &noop.Int64Counter{}
	}
	panics, err := meter.Int64Counter("emitter.queue.panics", metric.WithDescription("Handlers that panicked"))
	if err != nil {
		panics = &noop.Int64Counter{}
	}
	return &metrics{
		publishedCount: published,
		deliveredCount: delivered,
		droppedCount:   dropped,
		panicCount:     panics,
	}
}

func routeAttr(rt reflect.Type) metric.AddOption {
	return metric.WithAttributes(attribute.String("route", rt.String()))
}

func (m *metrics) published(rt reflect.Type) {
	if m == nil {
		return
	}
	m.publishedCount.Add(context.Background(), 1, routeAttr(rt))
}

func (m *metrics) delivered(rt reflect.Type) {
	if m == nil {
		return
	}
	m.deliveredCount.Add(context.Background(), 1, routeAttr(rt))
}

func (m *metrics) dropped(rt reflect.Type) {
	if m == nil {
		return
	}
	m.droppedCount.Add(context.Background(), 1, routeAttr(rt))
}

func (m *metrics) panicked(rt reflect.Type) {
	if m == nil {
		return
	}
	m.panicCount.Add(context.Background(), 1, routeAttr(rt))
}
