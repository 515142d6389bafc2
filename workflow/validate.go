package workflow

import "strings"

// Validate verifies that a (WorkflowDefinition, steps) pair is executable.
//
// It returns nil when the pair is valid, or a *ValidationErrors whose
// entries appear in deterministic order:
//
//  1. definition-level errors (empty name, reserved execution mode)
//  2. step-structural errors in declaration order
//  3. dependency-reference errors in declaration order
//  4. cycle errors last
//
// An empty step list is valid and executes to an immediate COMPLETED result.
// Inputs are never modified.
func Validate(def WorkflowDefinition, steps []WorkflowStep) error {
	v := &validator{}

	v.checkDefinition(def)
	v.checkStepStructure(steps)
	v.checkDependencies(steps)
	v.checkCycles(steps)

	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationErrors{Errors: v.errs}
}

type validator struct {
	errs []*Error
}

func (v *validator) add(e *Error) {
	v.errs = append(v.errs, e)
}

func (v *validator) checkDefinition(def WorkflowDefinition) {
	if strings.TrimSpace(def.Name) == "" {
		v.add(NewError(CodeValidation, "workflow name must be non-empty").
			WithContext("workflow_id", def.WorkflowID))
	}

	switch def.ExecutionMode {
	case ModeConditional, ModeStreaming:
		v.add(NewError(CodeValidation, "execution mode %s is reserved and not executable", def.ExecutionMode).
			WithContext("execution_mode", string(def.ExecutionMode)))
	}

	if def.GlobalTimeoutMS < MinGlobalTimeoutMS {
		v.add(NewError(CodeValidation, "global_timeout_ms %d below minimum %d", def.GlobalTimeoutMS, MinGlobalTimeoutMS).
			WithContext("global_timeout_ms", def.GlobalTimeoutMS))
	}
}

// checkStepStructure validates each step in isolation, in declaration order.
func (v *validator) checkStepStructure(steps []WorkflowStep) {
	seen := make(map[string]int, len(steps))

	for i, s := range steps {
		if s.StepID == "" {
			v.add(NewError(CodeValidation, "step at index %d has empty step_id", i).
				WithContext("index", i))
		} else if first, dup := seen[s.StepID]; dup {
			v.add(NewError(CodeValidation, "duplicate step_id %q (indices %d and %d)", s.StepID, first, i).
				WithContext("step_id", s.StepID))
		} else {
			seen[s.StepID] = i
		}

		switch s.StepType {
		case StepCompute, StepEffect, StepReducer, StepOrchestrator, StepCustom, StepParallel:
		case StepConditional:
			v.add(NewError(CodeValidation, "step %q uses reserved step_type %q", s.StepID, StepConditional).
				WithContext("step_id", s.StepID))
		default:
			v.add(NewError(CodeValidation, "step %q has unknown step_type %q", s.StepID, s.StepType).
				WithContext("step_id", s.StepID))
		}

		if s.TimeoutMS < MinStepTimeoutMS || s.TimeoutMS > MaxStepTimeoutMS {
			v.add(NewError(CodeValidation, "step %q timeout_ms %d outside [%d, %d]", s.StepID, s.TimeoutMS, MinStepTimeoutMS, MaxStepTimeoutMS).
				WithContext("step_id", s.StepID).WithContext("timeout_ms", s.TimeoutMS))
		}

		if s.RetryCount < 0 || s.RetryCount > MaxStepRetries {
			v.add(NewError(CodeValidation, "step %q retry_count %d outside [0, %d]", s.StepID, s.RetryCount, MaxStepRetries).
				WithContext("step_id", s.StepID))
		}

		if s.Priority < MinStepPriority || s.Priority > MaxStepPriority {
			v.add(NewError(CodeValidation, "step %q priority %d outside [%d, %d]", s.StepID, s.Priority, MinStepPriority, MaxStepPriority).
				WithContext("step_id", s.StepID))
		}
	}
}

// checkDependencies verifies every depends_on entry names a known step.
func (v *validator) checkDependencies(steps []WorkflowStep) {
	known := make(map[string]bool, len(steps))
	for _, s := range steps {
		known[s.StepID] = true
	}

	for _, s := range steps {
		for _, dep := range s.DependsOn {
			if !known[dep] {
				v.add(NewError(CodeValidation, "step %q depends on unknown step %q", s.StepID, dep).
					WithContext("step_id", s.StepID).WithContext("depends_on", dep))
			}
		}
	}
}

// checkCycles runs a DFS over the dependency graph restricted to enabled
// steps. Disabled steps are treated as satisfied dependencies, so edges
// through them cannot form a reportable cycle; the enabled subgraph must be
// acyclic on its own (DAG invariance under disabling).
func (v *validator) checkCycles(steps []WorkflowStep) {
	enabled := make(map[string]*WorkflowStep, len(steps))
	order := make([]string, 0, len(steps))
	for i := range steps {
		if steps[i].Enabled {
			if _, dup := enabled[steps[i].StepID]; dup {
				continue // duplicate IDs already reported structurally
			}
			enabled[steps[i].StepID] = &steps[i]
			order = append(order, steps[i].StepID)
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS stack
		black = 2 // fully explored
	)
	color := make(map[string]int, len(enabled))
	var stack []string
	reported := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)

		for _, dep := range enabled[id].DependsOn {
			next, ok := enabled[dep]
			if !ok {
				continue // disabled or unknown; unknown already reported
			}
			switch color[next.StepID] {
			case white:
				visit(next.StepID)
			case gray:
				cycle := extractCycle(stack, next.StepID)
				key := strings.Join(cycle, "->")
				if !reported[key] {
					reported[key] = true
					v.add(NewError(CodeValidation, "dependency cycle: %s", strings.Join(cycle, " -> ")).
						WithContext("cycle", cycle))
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range order {
		if color[id] == white {
			visit(id)
		}
	}
}

// extractCycle returns the slice of the DFS stack from the first occurrence
// of start to the top, closed with start again.
func extractCycle(stack []string, start string) []string {
	for i, id := range stack {
		if id == start {
			cycle := make([]string, 0, len(stack)-i+1)
			cycle = append(cycle, stack[i:]...)
			cycle = append(cycle, start)
			return cycle
		}
	}
	return []string{start, start}
}
