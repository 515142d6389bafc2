package workflow

import (
	"time"

	"github.com/onexlabs/onex-go/workflow/emit"
)

// Option configures an Executor.
//
// Zero configuration is valid: NewExecutor() uses random UUIDs, the wall
// clock, a null emitter and no metrics.
type Option func(*Executor)

// WithIDSource sets the identifier source for action and lease IDs.
//
// Supply a NewSeededIDSource for deterministic replay comparison; the
// default UUIDSource mints random UUIDs.
func WithIDSource(ids IDSource) Option {
	return func(e *Executor) {
		if ids != nil {
			e.ids = ids
		}
	}
}

// WithClock sets the time source used for created_at stamps, the completion
// timestamp and the global timeout check. Inject a fixed clock for
// byte-identical results in tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Executor) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithEmitter sets the observability emitter. Events never influence the
// result; the default discards them.
func WithEmitter(emitter emit.Emitter) Option {
	return func(e *Executor) {
		if emitter != nil {
			e.emitter = emitter
		}
	}
}

// WithMetrics enables Prometheus metrics collection. Nil disables.
func WithMetrics(metrics *Metrics) Option {
	return func(e *Executor) {
		e.metrics = metrics
	}
}
