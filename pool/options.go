package pool

// Option configures optional pool behavior at construction or reinitialization.
type Option[T any] func(*options[T])

type options[T any] struct {
	dispose    Disposer[T]
	disposeSet bool
	metrics    *Metrics
	name       string
}

// WithDispose registers a callback invoked on each object after it is placed
// back into the free list. Passing a nil callback fails construction with
// errs.CodeTypeKind; omit the option entirely when no disposal is needed.
func WithDispose[T any](fn Disposer[T]) Option[T] {
	return func(o *options[T]) {
		o.dispose = fn
		o.disposeSet = true
	}
}

// WithMetrics attaches telemetry instruments to the pool. A nil value disables
// instrumentation.
func WithMetrics[T any](m *Metrics) Option[T] {
	return func(o *options[T]) {
		o.metrics = m
	}
}

// WithName labels the pool in debug diagnostics.
func WithName[T any](name string) Option[T] {
	return func(o *options[T]) {
		o.name = name
	}
}
