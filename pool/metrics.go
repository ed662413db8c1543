package pool

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics captures observability counters for pool operations. A nil *Metrics
// is valid and disables instrumentation.
type Metrics struct {
	allocations metric.Int64Counter
	renewals    metric.Int64Counter
	destroys    metric.Int64Counter
	drains      metric.Int64Counter
	attrs       []attribute.KeyValue
}

// NewMetrics constructs counter instruments on the global meter, labeled with
// the provided pool name.
func NewMetrics(poolName string) (*Metrics, error) {
	normalized := strings.TrimSpace(poolName)
	if normalized == "" {
		normalized = "default"
	}

	meter := otel.Meter("freepool")
	allocations, err := meter.Int64Counter("freepool_allocations_total",
		metric.WithDescription("Objects fabricated by the allocate callback"),
		metric.WithUnit("{object}"))
	if err != nil {
		return nil, err
	}
	renewals, err := meter.Int64Counter("freepool_renewals_total",
		metric.WithDescription("Objects reused from the free list via the renew callback"),
		metric.WithUnit("{object}"))
	if err != nil {
		return nil, err
	}
	destroys, err := meter.Int64Counter("freepool_destroys_total",
		metric.WithDescription("Objects returned to the free list"),
		metric.WithUnit("{object}"))
	if err != nil {
		return nil, err
	}
	drains, err := meter.Int64Counter("freepool_drains_total",
		metric.WithDescription("Full pool drains"),
		metric.WithUnit("{drain}"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		allocations: allocations,
		renewals:    renewals,
		destroys:    destroys,
		drains:      drains,
		attrs:       []attribute.KeyValue{attribute.String("pool", normalized)},
	}, nil
}

// ObserveFreeList registers an observable gauge reporting the free-list size
// returned by lenFn. The callback must be safe to call from the metric reader.
func ObserveFreeList(poolName string, lenFn func() int) error {
	if lenFn == nil {
		return nil
	}
	normalized := strings.TrimSpace(poolName)
	if normalized == "" {
		normalized = "default"
	}
	attrs := []attribute.KeyValue{attribute.String("pool", normalized)}

	meter := otel.Meter("freepool")
	_, err := meter.Int64ObservableGauge("freepool_freelist_size",
		metric.WithDescription("Objects currently retained by the free list"),
		metric.WithUnit("{object}"),
		metric.WithInt64Callback(func(_ context.Context, observer metric.Int64Observer) error {
			observer.Observe(int64(lenFn()), metric.WithAttributes(attrs...))
			return nil
		}),
	)
	return err
}

func (m *Metrics) observeAllocate() {
	if m == nil {
		return
	}
	m.allocations.Add(context.Background(), 1, metric.WithAttributes(m.attrs...))
}

func (m *Metrics) observeRenew() {
	if m == nil {
		return
	}
	m.renewals.Add(context.Background(), 1, metric.WithAttributes(m.attrs...))
}

func (m *Metrics) observeDestroy() {
	if m == nil {
		return
	}
	m.destroys.Add(context.Background(), 1, metric.WithAttributes(m.attrs...))
}

func (m *Metrics) observeDrain() {
	if m == nil {
		return
	}
	m.drains.Add(context.Background(), 1, metric.WithAttributes(m.attrs...))
}
