package journal

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/onexlabs/onex-go/workflow"
)

// MemJournal is an in-memory Journal for tests and prototyping.
//
// Runs and outbox rows live in process memory; results are stored as their
// JSON encoding so loads return decoupled copies, matching the persistence
// backends. Safe for concurrent use.
type MemJournal struct {
	mu sync.RWMutex

	runs map[string][]byte // workflowID -> JSON result

	actionOrder []string          // enqueue order
	actions     map[string][]byte // actionID -> JSON action
	actionsDone map[string]bool

	intentOrder []string
	intents     map[string]IntentRecord
	intentsDone map[string]bool
}

// NewMemJournal creates an empty in-memory journal.
func NewMemJournal() *MemJournal {
	return &MemJournal{
		runs:        make(map[string][]byte),
		actions:     make(map[string][]byte),
		actionsDone: make(map[string]bool),
		intents:     make(map[string]IntentRecord),
		intentsDone: make(map[string]bool),
	}
}

// SaveRun records the result and enqueues its actions.
func (m *MemJournal) SaveRun(_ context.Context, result workflow.WorkflowResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs[result.WorkflowID] = data

	for _, action := range result.ActionsEmitted {
		if _, exists := m.actions[action.ActionID]; exists {
			continue
		}
		encoded, err := json.Marshal(action)
		if err != nil {
			return err
		}
		m.actions[action.ActionID] = encoded
		m.actionOrder = append(m.actionOrder, action.ActionID)
	}
	return nil
}

// LoadRun retrieves a recorded result.
func (m *MemJournal) LoadRun(_ context.Context, workflowID string) (workflow.WorkflowResult, error) {
	m.mu.RLock()
	data, ok := m.runs[workflowID]
	m.mu.RUnlock()

	if !ok {
		return workflow.WorkflowResult{}, ErrNotFound
	}

	var result workflow.WorkflowResult
	if err := json.Unmarshal(data, &result); err != nil {
		return workflow.WorkflowResult{}, err
	}
	return result, nil
}

// PendingActions returns undispatched actions in enqueue order.
func (m *MemJournal) PendingActions(_ context.Context, limit int) ([]workflow.Action, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []workflow.Action
	for _, id := range m.actionOrder {
		if m.actionsDone[id] {
			continue
		}
		var action workflow.Action
		if err := json.Unmarshal(m.actions[id], &action); err != nil {
			return nil, err
		}
		out = append(out, action)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// MarkActionsDispatched marks delivered actions.
func (m *MemJournal) MarkActionsDispatched(_ context.Context, actionIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range actionIDs {
		m.actionsDone[id] = true
	}
	return nil
}

// SaveIntents enqueues intents, assigning IDs where missing.
func (m *MemJournal) SaveIntents(_ context.Context, records []IntentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range records {
		if rec.IntentID == "" {
			rec.IntentID = uuid.NewString()
		}
		if _, exists := m.intents[rec.IntentID]; exists {
			continue
		}
		m.intents[rec.IntentID] = rec
		m.intentOrder = append(m.intentOrder, rec.IntentID)
	}
	return nil
}

// PendingIntents returns undispatched intents in enqueue order.
func (m *MemJournal) PendingIntents(_ context.Context, limit int) ([]IntentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []IntentRecord
	for _, id := range m.intentOrder {
		if m.intentsDone[id] {
			continue
		}
		out = append(out, m.intents[id])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// MarkIntentsDispatched marks delivered intents.
func (m *MemJournal) MarkIntentsDispatched(_ context.Context, intentIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range intentIDs {
		m.intentsDone[id] = true
	}
	return nil
}

// Close is a no-op for the in-memory journal.
func (m *MemJournal) Close() error { return nil }
