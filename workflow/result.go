package workflow

// Status is the terminal status of an Execute call.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// WorkflowResult is produced once per Execute call. The three step buckets
// are pairwise disjoint and cover every input step exactly once.
//
// Metadata never contains internal bookkeeping (step-to-action maps, wave
// structures, dependency graphs); it is limited to caller-facing facts such
// as the effective execution mode.
type WorkflowResult struct {
	WorkflowID string `json:"workflow_id"`
	Status     Status `json:"status"`

	CompletedSteps []string `json:"completed_steps"`
	FailedSteps    []string `json:"failed_steps"`
	SkippedSteps   []string `json:"skipped_steps"`

	// ActionsEmitted preserves emission order: wave-major, declaration
	// order within a wave. Consumers may rely on this ordering.
	ActionsEmitted []Action `json:"actions_emitted"`

	ExecutionTimeMS int64 `json:"execution_time_ms"`

	// StartedAt and CompletedAt are both set to the completion timestamp.
	StartedAt   string `json:"started_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}
