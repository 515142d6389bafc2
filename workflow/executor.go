package workflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/onexlabs/onex-go/workflow/emit"
)

// Executor walks a validated workflow DAG and produces a WorkflowResult plus
// an ordered action stream.
//
// The executor is a pure function of its inputs: no I/O, no mutation of the
// definition or steps, no state shared between calls. Given the same
// definition, steps, workflow ID and mode, plus a deterministic IDSource and
// clock, two calls produce byte-identical results.
//
// Execution is synchronous and single-threaded; waves represent logical
// concurrency only. A future implementation may run a wave's steps in
// parallel, but must keep the observable emission sequence identical to the
// declaration-order walk performed here.
//
// An Executor holds no mutable state and is safe to reuse across calls, but
// a non-thread-safe IDSource (such as SeededIDSource) makes the instance
// single-threaded; treat every Executor as such unless the hosting runtime
// synchronizes externally.
type Executor struct {
	ids     IDSource
	clock   func() time.Time
	emitter emit.Emitter
	metrics *Metrics
}

// NewExecutor creates an Executor. With no options it mints random UUIDs,
// reads the wall clock, and discards observability events.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		ids:     UUIDSource{},
		clock:   time.Now,
		emitter: emit.NewNullEmitter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// stepOutcome is the terminal bucket of one step.
type stepOutcome int

const (
	outcomePending stepOutcome = iota
	outcomeCompleted
	outcomeFailed
	outcomeSkipped
)

// Execute validates the contract pair, layers it into waves, and walks the
// waves in the selected mode.
//
// Mode precedence, highest first: modeOverride (empty string means none),
// def.ExecutionMode, then def.Metadata["execution_mode"] as an advisory
// fallback; SEQUENTIAL when all three are absent.
//
// The error return is used for contract validation failures only (including
// a reserved mode supplied as modeOverride). Execution-time failures (a
// non-serializable payload, an unmet dependency, the global timeout) never
// error; they bucket the affected steps as failed and yield Status=FAILED.
//
// Inputs are never mutated. Emitted actions are embedded in the result in
// emission order: all actions of wave N before any action of wave N+1,
// declaration order within a wave.
func (e *Executor) Execute(ctx context.Context, def WorkflowDefinition, steps []WorkflowStep, workflowID string, modeOverride ExecutionMode) (WorkflowResult, error) {
	if err := Validate(def, steps); err != nil {
		e.metrics.observeValidationFailure()
		return WorkflowResult{}, err
	}

	mode, err := e.selectMode(def, modeOverride)
	if err != nil {
		e.metrics.observeValidationFailure()
		return WorkflowResult{}, err
	}

	start := e.clock()
	run := &executionRun{
		exec:       e,
		def:        def,
		steps:      steps,
		workflowID: workflowID,
		mode:       mode,
		start:      start,
		byID:       make(map[string]*WorkflowStep, len(steps)),
		outcomes:   make(map[string]stepOutcome, len(steps)),
		actionIDs:  make(map[string]string, len(steps)),
		collector:  emit.NewCollector[Action](),
	}
	for i := range steps {
		run.byID[steps[i].StepID] = &steps[i]
	}

	run.emitWorkflow("workflow_start", map[string]any{"execution_mode": string(mode)})

	waves, err := BuildWaves(steps)
	if err != nil {
		// Unreachable after Validate; surface rather than mask a bug.
		return WorkflowResult{}, err
	}
	if mode == ModeSequential || mode == ModeBatch {
		waves = SequentialWaves(waves)
	}

	run.walk(ctx, waves)

	result := run.buildResult()
	run.emitWorkflow("workflow_end", map[string]any{"status": string(result.Status)})
	e.metrics.observeExecution(result, len(waves), e.clock().Sub(start))
	return result, nil
}

// selectMode resolves the effective execution mode.
func (e *Executor) selectMode(def WorkflowDefinition, override ExecutionMode) (ExecutionMode, error) {
	switch override {
	case ModeSequential, ModeParallel, ModeBatch:
		return override, nil
	case ModeConditional, ModeStreaming:
		return "", NewError(CodeValidation, "execution mode %s is reserved and not executable", override).
			WithContext("execution_mode", string(override))
	case "":
		// fall through to the definition
	default:
		return "", NewError(CodeValidation, "unknown execution mode override %q", override)
	}

	switch def.ExecutionMode {
	case ModeSequential, ModeParallel, ModeBatch:
		return def.ExecutionMode, nil
	}

	// Advisory fallback only: a recognized mode in workflow_metadata.
	if raw, ok := def.Metadata["execution_mode"].(string); ok {
		switch m := ExecutionMode(raw); m {
		case ModeSequential, ModeParallel, ModeBatch:
			return m, nil
		}
	}

	return ModeSequential, nil
}

// executionRun carries the bookkeeping of a single Execute call. None of it
// leaks into the result beyond the step buckets and the action stream.
type executionRun struct {
	exec       *Executor
	def        WorkflowDefinition
	steps      []WorkflowStep
	workflowID string
	mode       ExecutionMode
	start      time.Time

	byID      map[string]*WorkflowStep
	outcomes  map[string]stepOutcome
	actionIDs map[string]string // step_id -> action_id for completed steps
	collector *emit.Collector[Action]

	wave      int
	stopped   bool // a failed step with error_action=stop halted the run
	timedOut  bool
	cancelled bool
}

// walk processes the wave sequence, honoring stop semantics, the global
// timeout and context cancellation between waves.
func (r *executionRun) walk(ctx context.Context, waves []Wave) {
	for _, wave := range waves {
		if r.stopped {
			r.skipRemaining(wave, "workflow_stopped")
			continue
		}
		if ctx.Err() != nil {
			r.cancelled = true
			r.failRemaining(wave, "cancelled")
			continue
		}
		if r.globalTimeoutElapsed() {
			r.timedOut = true
			r.failRemaining(wave, "global_timeout")
			continue
		}

		r.wave = r.collector.BeginWave()
		r.emitWave("wave_start", len(wave))

		stopHere := false
		for _, stepID := range wave {
			if stopHere {
				r.skip(stepID, "wave_stopped")
				continue
			}
			outcome := r.runStep(*r.byID[stepID])
			if outcome == outcomeFailed && stepStops(*r.byID[stepID]) {
				stopHere = true
				r.stopped = true
			}
		}
	}
}

// runStep decides the terminal bucket for one step and emits its action
// when it completes.
func (r *executionRun) runStep(step WorkflowStep) stepOutcome {
	if !step.Enabled {
		return r.skip(step.StepID, "disabled")
	}

	// A dependency is satisfied when its step completed or is disabled.
	// Failed dependencies, and skips caused by upstream failure, leave it
	// unmet. skip_on_failure converts the resulting failure to a skip but
	// never lets the step run.
	for _, dep := range step.DependsOn {
		depStep := r.byID[dep]
		if !depStep.Enabled {
			continue
		}
		if r.outcomes[dep] != outcomeCompleted {
			if step.SkipOnFailure {
				return r.skip(step.StepID, "upstream_failure")
			}
			return r.fail(step.StepID, "dependency_unmet")
		}
	}

	action, err := r.createAction(step)
	if err != nil {
		return r.fail(step.StepID, "payload_not_serializable")
	}

	r.outcomes[step.StepID] = outcomeCompleted
	r.actionIDs[step.StepID] = action.ActionID
	r.collector.Append(action)
	r.emitStep(step.StepID, "step_completed", nil)
	r.emitStep(step.StepID, "action_emitted", map[string]any{"action_id": action.ActionID})
	return outcomeCompleted
}

// createAction derives the step's action. The payload is round-tripped
// through JSON both to prove serializability and to decouple the action
// from the caller's value (purity: later mutation of the caller's payload
// cannot reach the emitted action).
func (r *executionRun) createAction(step WorkflowStep) (Action, error) {
	payload, err := clonePayload(step.Payload)
	if err != nil {
		return Action{}, err
	}

	mapping, ok := actionTypeForStep[step.StepType]
	if !ok {
		// Unreachable after Validate: every non-reserved step type maps.
		return Action{}, NewError(CodeValidation, "step %q has unmappable step_type %q", step.StepID, step.StepType)
	}

	deps := make([]string, 0, len(step.DependsOn))
	for _, dep := range step.DependsOn {
		if actionID, emitted := r.actionIDs[dep]; emitted {
			deps = append(deps, actionID)
		}
	}

	priority := step.Priority
	if priority > MaxActionPriority {
		priority = MaxActionPriority
	}

	return Action{
		ActionID:       r.exec.ids.NewID(),
		ActionType:     mapping.actionType,
		TargetNodeType: mapping.targetNode,
		Payload:        payload,
		Dependencies:   deps,
		Priority:       priority,
		TimeoutMS:      step.TimeoutMS,
		LeaseID:        r.exec.ids.NewID(),
		Epoch:          0,
		RetryCount:     step.RetryCount,
		Metadata: map[string]any{
			"step_name":      step.StepName,
			"correlation_id": step.CorrelationID,
		},
		CreatedAt: r.exec.clock().UTC().Format(time.RFC3339Nano),
	}, nil
}

func (r *executionRun) skip(stepID, reason string) stepOutcome {
	r.outcomes[stepID] = outcomeSkipped
	r.emitStep(stepID, "step_skipped", map[string]any{"reason": reason})
	return outcomeSkipped
}

func (r *executionRun) fail(stepID, reason string) stepOutcome {
	r.outcomes[stepID] = outcomeFailed
	r.emitStep(stepID, "step_failed", map[string]any{"reason": reason})
	return outcomeFailed
}

// skipRemaining buckets every still-pending step of the wave as skipped.
func (r *executionRun) skipRemaining(wave Wave, reason string) {
	for _, stepID := range wave {
		if r.outcomes[stepID] == outcomePending {
			r.skip(stepID, reason)
		}
	}
}

// failRemaining buckets every still-pending step of the wave as failed.
func (r *executionRun) failRemaining(wave Wave, reason string) {
	for _, stepID := range wave {
		if r.outcomes[stepID] == outcomePending {
			r.fail(stepID, reason)
		}
	}
}

func (r *executionRun) globalTimeoutElapsed() bool {
	if r.def.GlobalTimeoutMS <= 0 {
		return false
	}
	return r.exec.clock().Sub(r.start) >= time.Duration(r.def.GlobalTimeoutMS)*time.Millisecond
}

// stepStops reports whether a failure of this step halts the workflow.
// An unset error_action defaults to stop, matching the contract default.
func stepStops(step WorkflowStep) bool {
	return step.ErrorAction == ErrorActionStop || step.ErrorAction == ""
}

// buildResult partitions the steps into the three buckets, in declaration
// order, and assembles the final result. No internal bookkeeping (wave
// structures, step-to-action maps, dependency graphs) crosses this boundary.
func (r *executionRun) buildResult() WorkflowResult {
	completed := make([]string, 0, len(r.steps))
	failed := make([]string, 0)
	skipped := make([]string, 0)

	for i := range r.steps {
		id := r.steps[i].StepID
		switch r.outcomes[id] {
		case outcomeCompleted:
			completed = append(completed, id)
		case outcomeFailed:
			failed = append(failed, id)
		case outcomeSkipped:
			skipped = append(skipped, id)
		}
	}

	status := StatusCompleted
	switch {
	case r.cancelled:
		status = StatusCancelled
	case len(failed) > 0:
		status = StatusFailed
	}

	end := r.exec.clock()
	stamp := end.UTC().Format(time.RFC3339Nano)

	return WorkflowResult{
		WorkflowID:      r.workflowID,
		Status:          status,
		CompletedSteps:  completed,
		FailedSteps:     failed,
		SkippedSteps:    skipped,
		ActionsEmitted:  r.collector.Snapshot(),
		ExecutionTimeMS: end.Sub(r.start).Milliseconds(),
		StartedAt:       stamp,
		CompletedAt:     stamp,
		Metadata: map[string]any{
			"execution_mode": string(r.mode),
		},
	}
}

func (r *executionRun) emitWorkflow(msg string, meta map[string]any) {
	r.exec.emitter.Emit(emit.Event{
		WorkflowID: r.workflowID,
		Wave:       -1,
		Msg:        msg,
		Meta:       meta,
	})
}

func (r *executionRun) emitWave(msg string, size int) {
	r.exec.emitter.Emit(emit.Event{
		WorkflowID: r.workflowID,
		Wave:       r.wave,
		Msg:        msg,
		Meta:       map[string]any{"size": size},
	})
}

func (r *executionRun) emitStep(stepID, msg string, meta map[string]any) {
	r.exec.emitter.Emit(emit.Event{
		WorkflowID: r.workflowID,
		Wave:       r.wave,
		StepID:     stepID,
		Msg:        msg,
		Meta:       meta,
	})
}

// clonePayload proves the payload is JSON-serializable and returns a
// decoupled copy. A nil payload stays nil.
func clonePayload(payload any) (any, error) {
	if payload == nil {
		return nil, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
