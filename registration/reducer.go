package registration

import "github.com/onexlabs/onex-go/workflow"

// transition is one row of the lifecycle table.
type transition struct {
	from    State
	trigger Trigger
	to      State
	guards  []Guard
}

// transitions is the complete lifecycle table. Rows are matched in order
// for a given (from, trigger) pair; FATAL_ERROR is handled before the table
// and wins from any non-terminal state.
var transitions = []transition{
	{StateUnregistered, TriggerRegister, StateValidating,
		[]Guard{{Field: "payload_present", Op: OpEq, Value: true}}},

	{StateValidating, TriggerValidationPassed, StateRegisteringPostgres,
		[]Guard{{Field: "validation_result", Op: OpEq, Value: "passed"}}},
	{StateValidating, TriggerValidationFailed, StateFailed,
		[]Guard{{Field: "validation_result", Op: OpEq, Value: "failed"}}},

	{StateRegisteringPostgres, TriggerPostgresSucceeded, StatePostgresRegistered,
		[]Guard{{Field: "postgres_applied", Op: OpEq, Value: true}}},
	{StateRegisteringPostgres, TriggerPostgresFailed, StateFailed,
		[]Guard{{Field: "postgres_applied", Op: OpEq, Value: false}}},

	{StatePostgresRegistered, TriggerContinue, StateRegisteringConsul, nil},

	{StateRegisteringConsul, TriggerConsulSucceeded, StateRegistered,
		[]Guard{{Field: "consul_applied", Op: OpEq, Value: true}}},
	{StateRegisteringConsul, TriggerConsulFailed, StatePartialRegistered,
		[]Guard{{Field: "consul_applied", Op: OpEq, Value: false}}},

	{StatePartialRegistered, TriggerRetry, StateRegisteringConsul,
		[]Guard{
			{Field: "postgres_applied", Op: OpEq, Value: true},
			{Field: "retry_count", Op: OpLt, Value: MaxRetries},
		}},
	{StatePartialRegistered, TriggerRetryPostgres, StateRegisteringPostgres,
		[]Guard{
			{Field: "consul_applied", Op: OpEq, Value: true},
			{Field: "retry_count", Op: OpLt, Value: MaxRetries},
		}},
	{StatePartialRegistered, TriggerRecoveryComplete, StateRegistered,
		[]Guard{
			{Field: "postgres_applied", Op: OpEq, Value: true},
			{Field: "consul_applied", Op: OpEq, Value: true},
		}},

	{StateRegistered, TriggerDeregister, StateDeregistering, nil},

	{StateDeregistering, TriggerDeregistrationComplete, StateDeregistered, nil},

	{StateFailed, TriggerRetry, StateValidating,
		[]Guard{{Field: "retry_count", Op: OpLt, Value: MaxRetries}}},
	{StateFailed, TriggerAbandon, StateDeregistered, nil},
}

// Reduce advances the registration lifecycle by one event.
//
// It is a pure function: the caller's state and context are never mutated,
// no I/O happens, and the same (state, event, context) triple always yields
// the same (state', context', intents). Callers serialize events for a given
// registration; the function itself is fully re-entrant.
//
// Terminal states are idempotent: reducing any event in deregistered
// returns the state unchanged with no intents and no error.
//
// Errors, all without state change:
//   - STATE_MISMATCH when the supplied state disagrees with the context;
//   - INVALID_TRANSITION when no table row matches (state, trigger);
//   - GUARD_FAILED when a matching row's guard evaluates cleanly to false;
//   - RETRY_EXHAUSTED when the failing guard is the retry bound;
//   - GUARD_EVALUATION_ERROR / GUARD_TYPE_ERROR from guard evaluation.
func Reduce(state State, ev Event, rctx Context) (State, Context, []Intent, error) {
	if state.Terminal() {
		return state, rctx, nil, nil
	}

	if err := checkConsistency(state, rctx); err != nil {
		return state, rctx, nil, err
	}

	// FATAL_ERROR routes any non-terminal state to failed, ahead of the
	// table.
	if ev.Trigger == TriggerFatalError {
		next := StateFailed
		return next, rctx, entryIntents(state, next, ev, rctx), nil
	}

	row, err := matchTransition(state, ev, rctx)
	if err != nil {
		return state, rctx, nil, err
	}

	updated := applyContext(rctx, ev)
	return row.to, updated, entryIntents(state, row.to, ev, updated), nil
}

// matchTransition finds the table row for (state, trigger) and checks its
// guards.
func matchTransition(state State, ev Event, rctx Context) (*transition, error) {
	fields := guardFields(rctx, ev)

	var candidate *transition
	for i := range transitions {
		row := &transitions[i]
		if row.from != state || row.trigger != ev.Trigger {
			continue
		}
		candidate = row

		pass := true
		for _, g := range row.guards {
			ok, err := g.Evaluate(fields)
			if err != nil {
				return nil, err
			}
			if !ok {
				if g.Field == "retry_count" {
					return nil, workflow.NewError(workflow.CodeRetryExhausted, "retry budget exhausted in state %s", state).
						WithContext("state", string(state)).
						WithContext("retry_count", rctx.RetryCount)
				}
				pass = false
				break
			}
		}
		if pass {
			return row, nil
		}
	}

	if candidate != nil {
		return nil, workflow.NewError(workflow.CodeGuardFailed, "guard blocked %s in state %s", ev.Trigger, state).
			WithContext("state", string(state)).
			WithContext("trigger", string(ev.Trigger))
	}
	return nil, workflow.NewError(workflow.CodeInvalidTransition, "no transition for %s in state %s", ev.Trigger, state).
		WithContext("state", string(state)).
		WithContext("trigger", string(ev.Trigger))
}

// checkConsistency rejects (state, context) pairs that cannot coexist.
func checkConsistency(state State, rctx Context) error {
	mismatch := func(detail string) error {
		return workflow.NewError(workflow.CodeStateMismatch, "state %s inconsistent with context: %s", state, detail).
			WithContext("state", string(state)).
			WithContext("postgres_applied", rctx.PostgresApplied).
			WithContext("consul_applied", rctx.ConsulApplied)
	}

	switch state {
	case StateRegistered:
		if !rctx.PostgresApplied || !rctx.ConsulApplied {
			return mismatch("registered requires both registries applied")
		}
	case StatePostgresRegistered, StateRegisteringConsul:
		if !rctx.PostgresApplied {
			return mismatch("postgres must be applied")
		}
	case StatePartialRegistered:
		// Both flags set is legal here: recovery may have reconciled the
		// missing side out of band, pending RECOVERY_COMPLETE.
		if !rctx.PostgresApplied && !rctx.ConsulApplied {
			return mismatch("partial registration requires an applied registry")
		}
	}
	return nil
}

// applyContext folds the event into the context: outcome flags, retry
// accounting.
func applyContext(rctx Context, ev Event) Context {
	switch ev.Trigger {
	case TriggerValidationPassed:
		rctx.RetryCount = 0
	case TriggerPostgresSucceeded:
		rctx.PostgresApplied = true
		rctx.RetryCount = 0
	case TriggerPostgresFailed:
		rctx.PostgresApplied = false
	case TriggerConsulSucceeded:
		rctx.ConsulApplied = true
		rctx.RetryCount = 0
	case TriggerConsulFailed:
		rctx.ConsulApplied = false
	case TriggerRetry, TriggerRetryPostgres:
		rctx.RetryCount++
	}
	return rctx
}

// entryIntents returns the intents emitted on entering a state. Entering
// deregistering emits exactly two intents atomically; the caller
// aggregates both outcomes before supplying DEREGISTRATION_COMPLETE.
func entryIntents(from, to State, ev Event, rctx Context) []Intent {
	p := rctx.Payload

	switch to {
	case StateRegisteringPostgres:
		intents := []Intent{PostgresUpsert{
			CorrelationID: ev.CorrelationID,
			NodeID:        p.NodeID,
			DeploymentID:  p.DeploymentID,
			Environment:   p.Environment,
			NetworkID:     p.NetworkID,
			Record:        p.PostgresRecord,
		}}
		if ev.Trigger == TriggerRetryPostgres {
			intents = append(intents, retryMetric(ev, rctx))
		}
		return intents

	case StateRegisteringConsul:
		intents := []Intent{ConsulRegister{
			CorrelationID: ev.CorrelationID,
			ServiceID:     p.ConsulServiceID,
			ServiceName:   p.ConsulServiceName,
			Tags:          p.ConsulTags,
			HealthCheck:   p.ConsulHealthCheck,
		}}
		if ev.Trigger == TriggerRetry {
			intents = append(intents, retryMetric(ev, rctx))
		}
		return intents

	case StateDeregistering:
		return []Intent{
			ConsulDeregister{CorrelationID: ev.CorrelationID, ServiceID: p.ConsulServiceID},
			PostgresDelete{CorrelationID: ev.CorrelationID, NodeID: p.NodeID},
		}

	case StateFailed:
		return []Intent{LogEvent{
			CorrelationID: ev.CorrelationID,
			Level:         "error",
			Message:       "registration failed",
			Fields:        map[string]any{"node_id": p.NodeID, "from": string(from), "reason": ev.Reason},
		}}

	case StateDeregistered:
		return []Intent{LogEvent{
			CorrelationID: ev.CorrelationID,
			Level:         "info",
			Message:       "node deregistered",
			Fields:        map[string]any{"node_id": p.NodeID, "from": string(from)},
		}}
	}
	return nil
}

// retryMetric records a recovery attempt as a metric intent.
func retryMetric(ev Event, rctx Context) Intent {
	return LogMetric{
		CorrelationID: ev.CorrelationID,
		Name:          "registration_retries",
		Value:         float64(rctx.RetryCount),
		Labels:        map[string]string{"node_id": rctx.Payload.NodeID},
	}
}

// AutoTrigger returns the trigger fired automatically on entering a state.
// postgres_registered is a snapshot state that immediately continues to
// consul registration.
func AutoTrigger(s State) (Trigger, bool) {
	if s == StatePostgresRegistered {
		return TriggerContinue, true
	}
	return "", false
}
