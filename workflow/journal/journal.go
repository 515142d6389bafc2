// Package journal provides the run journal and transactional outbox for
// workflow results and registration intents.
//
// The journal is an audit and delivery record, never a checkpoint: the
// executor does not read it, nothing resumes from it, and its absence does
// not change any result. Its outbox tables implement the transactional
// outbox pattern for the external transport:
//
//  1. SaveRun persists a result and enqueues its emitted actions atomically.
//  2. The transport reads PendingActions, publishes, then calls
//     MarkActionsDispatched.
//  3. A crashed publisher resumes from the pending rows, giving
//     at-least-once delivery without a broker dependency in the core.
//
// The same handshake exists for reducer intents via SaveIntents /
// PendingIntents / MarkIntentsDispatched.
//
// Backends: in-memory (tests, prototyping), SQLite (single process),
// MySQL and Postgres (shared deployments).
package journal

import (
	"context"
	"errors"

	"github.com/onexlabs/onex-go/workflow"
)

// ErrNotFound is returned when a requested workflow ID has no recorded run.
var ErrNotFound = errors.New("not found")

// IntentRecord is one reducer intent queued for delivery. Payload is the
// encoded envelope (kind discriminator plus variant payload) produced by
// the registration codec.
type IntentRecord struct {
	// IntentID is assigned by the journal when empty.
	IntentID string `json:"intent_id"`

	CorrelationID string `json:"correlation_id"`
	Kind          string `json:"kind"`
	Payload       []byte `json:"payload"`
}

// Journal persists workflow results and queues their outputs for delivery.
//
// Implementations must preserve emission order: PendingActions and
// PendingIntents return rows in the order they were enqueued.
type Journal interface {
	// SaveRun records a result and enqueues its emitted actions into the
	// outbox in emission order, atomically. Saving the same workflow ID
	// again replaces the run record; actions already enqueued are not
	// duplicated.
	SaveRun(ctx context.Context, result workflow.WorkflowResult) error

	// LoadRun retrieves the recorded result for a workflow ID.
	// Returns ErrNotFound when the ID has never been saved.
	LoadRun(ctx context.Context, workflowID string) (workflow.WorkflowResult, error)

	// PendingActions returns up to limit undispatched actions in enqueue
	// order. An empty result is not an error.
	PendingActions(ctx context.Context, limit int) ([]workflow.Action, error)

	// MarkActionsDispatched records successful delivery so the actions are
	// not returned by PendingActions again.
	MarkActionsDispatched(ctx context.Context, actionIDs []string) error

	// SaveIntents enqueues reducer intents for delivery, in order.
	SaveIntents(ctx context.Context, records []IntentRecord) error

	// PendingIntents returns up to limit undispatched intents in enqueue
	// order.
	PendingIntents(ctx context.Context, limit int) ([]IntentRecord, error)

	// MarkIntentsDispatched records successful intent delivery.
	MarkIntentsDispatched(ctx context.Context, intentIDs []string) error

	// Close releases backend resources. Idempotent.
	Close() error
}
