// Package emit provides observability event emission for workflow execution,
// plus the ordered collector the executor and reducer use to accumulate
// emitted actions and intents.
package emit

import "context"

// Emitter receives observability events from workflow execution.
//
// Emitters enable pluggable observability backends:
// - Logging: stdout, files, syslog.
// - Distributed tracing: OpenTelemetry.
// - In-memory capture for tests and dashboards.
//
// Implementations should be:
// - Non-blocking: avoid slowing down workflow execution.
// - Thread-safe: the hosting runtime may emit from multiple goroutines.
// - Resilient: never panic; failures are logged internally.
//
// Observability is strictly one-way: nothing an Emitter does can influence
// a workflow result.
type Emitter interface {
	// Emit sends one observability event to the configured backend.
	// Emit must not block execution and must not panic.
	Emit(event Event)

	// EmitBatch sends multiple events in a single operation. Events are
	// processed in order; individual failures are logged, not returned.
	// Returns an error only on catastrophic backend failure.
	EmitBatch(ctx context.Context, events []Event) error

	// Flush ensures all buffered events are delivered. Call before
	// shutdown and at workflow completion. Idempotent.
	Flush(ctx context.Context) error
}

// Event is an observability event emitted during workflow execution.
//
// Message vocabulary used by the executor:
//
//	workflow_start, wave_start, step_completed, step_failed, step_skipped,
//	action_emitted, workflow_end
type Event struct {
	// WorkflowID identifies the execution that emitted this event.
	WorkflowID string

	// Wave is the zero-based wave number, -1 for workflow-level events.
	Wave int

	// StepID identifies the step, empty for workflow-level events.
	StepID string

	// Msg is the event name from the vocabulary above.
	Msg string

	// Meta carries additional structured data. Common keys:
	//   "action_id", "reason", "duration_ms", "error", "status"
	Meta map[string]any
}
