package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nkcmr/emitter"
	"github.com/nkcmr/emitter/internal/config"
	"github.com/nkcmr/emitter/internal/logging"
	"github.com/nkcmr/emitter/queue"
)

// Greeted is triggered with the name of whoever was greeted.
type Greeted struct{}

// Tick is triggered by the load run's producers.
type Tick struct{}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	otel.SetMeterProvider(mp)

	queue.Default().SetLogger(log)

	greet(log)

	if err := load(ctx, cfg, log); err != nil {
		return fmt.Errorf("load run: %w", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}
	report(log, rm)
	return nil
}

func greet(log *zap.Logger) {
	e1 := emitter.New()
	var greetings []string
	emitter.On[Greeted](e1, func(name string) {
		greetings = append(greetings, name)
	})
	emitter.Trigger[Greeted](e1, "hi")
	queue.Drain()

	e2 := emitter.New()
	emitter.Trigger[Greeted](e2, "ignored")
	queue.Drain()

	log.Info("greeting scenario done",
		zap.Strings("greetings", greetings),
		zap.Stringer("greeter", e1.ID()),
		zap.Stringer("bystander", e2.ID()),
	)
	e1.Close()
	e2.Close()
	queue.Drain()
}

func load(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	emitters := make([]*emitter.Emitter, cfg.Emitters)
	counts := make([]atomic.Int64, cfg.Emitters)
	for i := range emitters {
		e := emitter.New()
		emitter.On[Tick](e, func(int) { counts[i].Add(1) })
		emitters[i] = e
	}
	log.Info("emitters ready", zap.Int("registered", emitter.Registered()))

	start := time.Now()
	producers, pctx := errgroup.WithContext(ctx)
	for p := range cfg.Producers {
		producers.Go(func() error {
			for n := range cfg.Events {
				if err := pctx.Err(); err != nil {
					return err
				}
				emitter.Trigger[Tick](emitters[(p+n)%len(emitters)], n)
			}
			return nil
		})
	}

	done := make(chan struct{})
	var drainers errgroup.Group
	drainers.Go(func() error {
		for {
			select {
			case <-done:
				queue.Drain()
				return nil
			default:
				if queue.Drain() == 0 {
					time.Sleep(time.Millisecond)
				}
			}
		}
	})

	err := producers.Wait()
	close(done)
	_ = drainers.Wait()
	if err != nil {
		return err
	}

	var total int64
	for i := range counts {
		total += counts[i].Load()
	}
	log.Info("load run done",
		zap.Int64("delivered", total),
		zap.Int("expected", cfg.Producers*cfg.Events),
		zap.Duration("elapsed", time.Since(start)),
	)

	for _, e := range emitters {
		e.Close()
	}
	queue.Drain()
	log.Info("emitters closed", zap.Int("registered", emitter.Registered()))
	return nil
}

func report(log *zap.Logger, rm metricdata.ResourceMetrics) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				log.Info("metric", zap.String("name", m.Name), zap.Int64("value", total))
			case metricdata.Gauge[int64]:
				for _, dp := range data.DataPoints {
					log.Info("metric", zap.String("name", m.Name), zap.Int64("value", dp.Value))
				}
			}
		}
	}
}
