package workflow

// ActionType classifies an emitted action by the node kind that executes it.
type ActionType string

const (
	ActionCompute     ActionType = "COMPUTE"
	ActionEffect      ActionType = "EFFECT"
	ActionReduce      ActionType = "REDUCE"
	ActionOrchestrate ActionType = "ORCHESTRATE"
	ActionCustom      ActionType = "CUSTOM"
)

// Action priority bounds. Step priorities above MaxActionPriority are
// clamped silently at emission time.
const (
	MinActionPriority = 1
	MaxActionPriority = 10
)

// actionTypeForStep maps step types to action types and canonical target
// node type names. StepParallel steps fan out structurally and are treated
// as orchestration work by downstream nodes.
var actionTypeForStep = map[StepType]struct {
	actionType ActionType
	targetNode string
}{
	StepCompute:      {ActionCompute, "NodeCompute"},
	StepEffect:       {ActionEffect, "NodeEffect"},
	StepReducer:      {ActionReduce, "NodeReducer"},
	StepOrchestrator: {ActionOrchestrate, "NodeOrchestrator"},
	StepCustom:       {ActionCustom, "NodeCustom"},
	StepParallel:     {ActionOrchestrate, "NodeOrchestrator"},
}

// Action is the lease-bearing unit of work emitted once per completed step.
// Actions are immutable after creation; downstream executors own epoch
// progression, the core only guarantees epoch=0 and a globally unique
// (action_id, lease_id) pair at emission.
type Action struct {
	// ActionID is globally unique (UUID string).
	ActionID string `json:"action_id"`

	ActionType ActionType `json:"action_type"`

	// TargetNodeType is the canonical node name, e.g. "NodeCompute".
	TargetNodeType string `json:"target_node_type"`

	// Payload is derived from the source step's payload. It carries only the
	// user-facing payload; scheduling metadata lives on the envelope fields.
	Payload any `json:"payload,omitempty"`

	// Dependencies lists action IDs (never step IDs) of actions emitted
	// earlier in the same run. References to disabled steps are dropped.
	Dependencies []string `json:"dependencies,omitempty"`

	// Priority in [MinActionPriority, MaxActionPriority].
	Priority int `json:"priority"`

	TimeoutMS int64 `json:"timeout_ms"`

	// LeaseID is a fresh UUID proving sole writer rights for this action.
	LeaseID string `json:"lease_id"`

	// Epoch is 0 at creation and advances only at the downstream consumer's
	// initiative.
	Epoch int64 `json:"epoch"`

	// RetryCount is advisory, copied from the step.
	RetryCount int `json:"retry_count"`

	// Metadata carries step_name and correlation_id copied verbatim from
	// the source step.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is an ISO8601 timestamp.
	CreatedAt string `json:"created_at"`
}
