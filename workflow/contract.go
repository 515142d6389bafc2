package workflow

// Contract model for the workflow core. All values here are treated as
// immutable: the executor and validator take them by value or read-only
// reference and never mutate them. Reserved fields round-trip through JSON
// untouched and never influence runtime behavior.

// ExecutionMode selects how a workflow's waves are walked.
//
// CONDITIONAL and STREAMING appear in the contract vocabulary for forward
// compatibility but are rejected at validation and never reach the executor.
type ExecutionMode string

const (
	// ModeSequential walks the topological order one step at a time.
	ModeSequential ExecutionMode = "SEQUENTIAL"

	// ModeParallel emits whole waves; concurrency is logical in v1 and the
	// observable ordering still follows the declaration-order tiebreaker.
	ModeParallel ExecutionMode = "PARALLEL"

	// ModeBatch walks the same flattened order as ModeSequential. The result
	// metadata records only the effective execution_mode; there are no
	// batch-specific entries.
	ModeBatch ExecutionMode = "BATCH"

	// ModeConditional is reserved and rejected by validation.
	ModeConditional ExecutionMode = "CONDITIONAL"

	// ModeStreaming is reserved and rejected by validation.
	ModeStreaming ExecutionMode = "STREAMING"
)

// StepType classifies a step by the node kind that will execute its action.
type StepType string

const (
	StepCompute      StepType = "compute"
	StepEffect       StepType = "effect"
	StepReducer      StepType = "reducer"
	StepOrchestrator StepType = "orchestrator"
	StepCustom       StepType = "custom"
	StepParallel     StepType = "parallel"

	// StepConditional is reserved and rejected by validation.
	StepConditional StepType = "conditional"
)

// ErrorAction is the per-step failure policy. It takes precedence over the
// workflow-level failure recovery strategy.
type ErrorAction string

const (
	ErrorActionStop       ErrorAction = "stop"
	ErrorActionContinue   ErrorAction = "continue"
	ErrorActionRetry      ErrorAction = "retry"
	ErrorActionCompensate ErrorAction = "compensate"
)

// Step timeout and retry bounds enforced by validation.
const (
	MinStepTimeoutMS = 100
	MaxStepTimeoutMS = 300000
	MaxStepRetries   = 10
	MinStepPriority  = 1
	MaxStepPriority  = 1000

	// MinGlobalTimeoutMS bounds the definition-level timeout.
	MinGlobalTimeoutMS = 100
)

// CoordinationRules configures cross-step coordination for a workflow.
//
// SynchronizationPoints, MaxRetries and RetryDelayMS are reserved: they are
// preserved through serialization but the executor does not interpret them.
type CoordinationRules struct {
	FailureRecoveryStrategy  string `json:"failure_recovery_strategy,omitempty"`
	ParallelExecutionAllowed bool   `json:"parallel_execution_allowed"`

	// Reserved.
	SynchronizationPoints []string `json:"synchronization_points,omitempty"`
	MaxRetries            int      `json:"max_retries,omitempty"`
	RetryDelayMS          int64    `json:"retry_delay_ms,omitempty"`
}

// WorkflowDefinition is the immutable description of a workflow handed to the
// executor by external contract loaders. The executor never loads definitions
// from any external source itself.
type WorkflowDefinition struct {
	// WorkflowID identifies the definition (UUID string).
	WorkflowID string `json:"workflow_id"`

	// Name is required and must be non-empty.
	Name string `json:"name"`

	// Version is an opaque contract version string.
	Version string `json:"version,omitempty"`

	// ExecutionMode is the default mode; a caller-supplied override wins.
	ExecutionMode ExecutionMode `json:"execution_mode"`

	// GlobalTimeoutMS bounds the overall Execute call. It does not clamp
	// per-step timeouts.
	GlobalTimeoutMS int64 `json:"global_timeout_ms"`

	CoordinationRules CoordinationRules `json:"coordination_rules"`

	// Metadata is advisory. Metadata["execution_mode"], when present and
	// valid, is the lowest-precedence mode source.
	Metadata map[string]any `json:"workflow_metadata,omitempty"`

	// Reserved fields: preserved in round-trip, never interpreted.
	CompensationEnabled bool           `json:"compensation_enabled,omitempty"`
	SagaPattern         string         `json:"saga_pattern,omitempty"`
	CheckpointEnabled   bool           `json:"checkpoint_enabled,omitempty"`
	ExecutionGraph      map[string]any `json:"execution_graph,omitempty"`
}

// WorkflowStep is one node of the workflow DAG. Steps are created externally
// and never mutated by the core.
type WorkflowStep struct {
	// StepID is the stable external identifier, unique within a workflow.
	StepID string `json:"step_id"`

	StepName string   `json:"step_name"`
	StepType StepType `json:"step_type"`

	// TimeoutMS must lie in [MinStepTimeoutMS, MaxStepTimeoutMS].
	TimeoutMS int64 `json:"timeout_ms"`

	// RetryCount in [0, MaxStepRetries] is advisory for downstream
	// executors; the workflow executor never retries a step itself.
	RetryCount int `json:"retry_count"`

	// Priority in [MinStepPriority, MaxStepPriority]; clamped to the action
	// priority range [1,10] at emission time.
	Priority int `json:"priority"`

	// Enabled=false steps are skipped without action emission but still
	// satisfy their dependents.
	Enabled bool `json:"enabled"`

	// SkipOnFailure moves the step to the skipped bucket instead of the
	// failed bucket when an upstream dependency failed. It never overrides
	// an otherwise-unmet dependency constraint.
	SkipOnFailure bool `json:"skip_on_failure"`

	// ContinueOnError is advisory; ErrorAction takes precedence.
	ContinueOnError bool `json:"continue_on_error"`

	ErrorAction ErrorAction `json:"error_action,omitempty"`

	// DependsOn lists step IDs that must be satisfied first. The list is
	// semantically unordered.
	DependsOn []string `json:"depends_on,omitempty"`

	// ParallelGroup is opaque metadata; only string equality is meaningful.
	ParallelGroup string `json:"parallel_group,omitempty"`

	// OrderIndex is carried for contract fidelity and has no effect on
	// scheduling; declaration order is the sole tiebreaker.
	OrderIndex int `json:"order_index,omitempty"`

	// CorrelationID is copied verbatim onto the emitted action's metadata;
	// the executor never generates or rewrites it.
	CorrelationID string `json:"correlation_id,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`

	// Payload is the user-facing payload forwarded to the emitted action.
	// It must be JSON-serializable; a non-serializable payload fails the
	// step at execution time rather than raising.
	Payload any `json:"payload,omitempty"`

	// Reserved fields: preserved in round-trip, never interpreted.
	CompensationAction string `json:"compensation_action,omitempty"`
	CheckpointRequired bool   `json:"checkpoint_required,omitempty"`
	IdempotencyKey     string `json:"idempotency_key,omitempty"`
}

// NewStep returns a step with the contract defaults applied: enabled, the
// minimum valid timeout, priority 1, error action "stop".
//
// Callers building steps literally must remember Enabled; this constructor
// exists so the common path cannot forget it.
func NewStep(stepID, stepName string, stepType StepType) WorkflowStep {
	return WorkflowStep{
		StepID:      stepID,
		StepName:    stepName,
		StepType:    stepType,
		TimeoutMS:   MinStepTimeoutMS,
		Priority:    MinStepPriority,
		Enabled:     true,
		ErrorAction: ErrorActionStop,
	}
}
