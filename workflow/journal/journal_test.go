package journal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/onexlabs/onex-go/registration"
	"github.com/onexlabs/onex-go/workflow"
	"github.com/onexlabs/onex-go/workflow/journal"
)

// The same contract suite runs against the memory and SQLite backends. The
// MySQL and Postgres backends are not exercised by these tests.

func sampleResult(workflowID string, actionIDs ...string) workflow.WorkflowResult {
	actions := make([]workflow.Action, len(actionIDs))
	completed := make([]string, len(actionIDs))
	for i, id := range actionIDs {
		completed[i] = "step-" + id
		actions[i] = workflow.Action{
			ActionID:       id,
			ActionType:     workflow.ActionCompute,
			TargetNodeType: "NodeCompute",
			Priority:       5,
			TimeoutMS:      1000,
			LeaseID:        "lease-" + id,
			RetryCount:     0,
			Metadata:       map[string]any{"step_name": "step-" + id, "correlation_id": "corr-" + id},
			CreatedAt:      "2025-06-01T12:00:00Z",
		}
	}
	return workflow.WorkflowResult{
		WorkflowID:     workflowID,
		Status:         workflow.StatusCompleted,
		CompletedSteps: completed,
		FailedSteps:    []string{},
		SkippedSteps:   []string{},
		ActionsEmitted: actions,
		Metadata:       map[string]any{"execution_mode": "SEQUENTIAL"},
	}
}

func runJournalSuite(t *testing.T, open func(t *testing.T) journal.Journal) {
	ctx := context.Background()

	t.Run("load missing run", func(t *testing.T) {
		j := open(t)
		defer func() { _ = j.Close() }()

		_, err := j.LoadRun(ctx, "nope")
		if !errors.Is(err, journal.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("save and load run", func(t *testing.T) {
		j := open(t)
		defer func() { _ = j.Close() }()

		want := sampleResult("wf-save", "a1", "a2")
		if err := j.SaveRun(ctx, want); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}

		got, err := j.LoadRun(ctx, "wf-save")
		if err != nil {
			t.Fatalf("LoadRun: %v", err)
		}
		if got.WorkflowID != want.WorkflowID || got.Status != want.Status {
			t.Errorf("loaded %+v, want %+v", got, want)
		}
		if len(got.ActionsEmitted) != 2 {
			t.Errorf("loaded %d actions, want 2", len(got.ActionsEmitted))
		}
	})

	t.Run("action outbox handshake", func(t *testing.T) {
		j := open(t)
		defer func() { _ = j.Close() }()

		if err := j.SaveRun(ctx, sampleResult("wf-outbox", "a1", "a2", "a3")); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}

		pending, err := j.PendingActions(ctx, 0)
		if err != nil {
			t.Fatalf("PendingActions: %v", err)
		}
		if len(pending) != 3 {
			t.Fatalf("pending = %d, want 3", len(pending))
		}
		// Enqueue order is emission order.
		for i, want := range []string{"a1", "a2", "a3"} {
			if pending[i].ActionID != want {
				t.Errorf("pending[%d] = %s, want %s", i, pending[i].ActionID, want)
			}
		}

		if err := j.MarkActionsDispatched(ctx, []string{"a1", "a3"}); err != nil {
			t.Fatalf("MarkActionsDispatched: %v", err)
		}
		pending, err = j.PendingActions(ctx, 0)
		if err != nil {
			t.Fatalf("PendingActions: %v", err)
		}
		if len(pending) != 1 || pending[0].ActionID != "a2" {
			t.Errorf("pending after dispatch = %+v, want only a2", pending)
		}
	})

	t.Run("saving a run twice does not duplicate outbox rows", func(t *testing.T) {
		j := open(t)
		defer func() { _ = j.Close() }()

		result := sampleResult("wf-twice", "a1")
		if err := j.SaveRun(ctx, result); err != nil {
			t.Fatalf("first SaveRun: %v", err)
		}
		if err := j.SaveRun(ctx, result); err != nil {
			t.Fatalf("second SaveRun: %v", err)
		}

		pending, err := j.PendingActions(ctx, 0)
		if err != nil {
			t.Fatalf("PendingActions: %v", err)
		}
		if len(pending) != 1 {
			t.Errorf("pending = %d, want 1", len(pending))
		}
	})

	t.Run("pending limit", func(t *testing.T) {
		j := open(t)
		defer func() { _ = j.Close() }()

		if err := j.SaveRun(ctx, sampleResult("wf-limit", "a1", "a2", "a3")); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
		pending, err := j.PendingActions(ctx, 2)
		if err != nil {
			t.Fatalf("PendingActions: %v", err)
		}
		if len(pending) != 2 {
			t.Errorf("pending = %d, want 2", len(pending))
		}
	})

	t.Run("intent outbox handshake", func(t *testing.T) {
		j := open(t)
		defer func() { _ = j.Close() }()

		encoded, err := registration.EncodeIntent(registration.ConsulRegister{
			CorrelationID: "corr-1",
			ServiceID:     "svc-1",
			ServiceName:   "onex-node",
		})
		if err != nil {
			t.Fatalf("EncodeIntent: %v", err)
		}

		records := []journal.IntentRecord{
			{IntentID: "i1", CorrelationID: "corr-1", Kind: string(registration.IntentConsulRegister), Payload: encoded},
			{CorrelationID: "corr-1", Kind: string(registration.IntentLogEvent), Payload: []byte(`{"kind":"log_event","payload":{}}`)},
		}
		if err := j.SaveIntents(ctx, records); err != nil {
			t.Fatalf("SaveIntents: %v", err)
		}

		pending, err := j.PendingIntents(ctx, 0)
		if err != nil {
			t.Fatalf("PendingIntents: %v", err)
		}
		if len(pending) != 2 {
			t.Fatalf("pending intents = %d, want 2", len(pending))
		}
		if pending[0].IntentID != "i1" {
			t.Errorf("pending[0] = %s, want i1", pending[0].IntentID)
		}
		if pending[1].IntentID == "" {
			t.Error("journal must assign an intent ID when missing")
		}

		decoded, err := registration.DecodeIntent(pending[0].Payload)
		if err != nil {
			t.Fatalf("DecodeIntent: %v", err)
		}
		if decoded.Kind() != registration.IntentConsulRegister {
			t.Errorf("decoded kind = %s", decoded.Kind())
		}

		if err := j.MarkIntentsDispatched(ctx, []string{"i1"}); err != nil {
			t.Fatalf("MarkIntentsDispatched: %v", err)
		}
		pending, err = j.PendingIntents(ctx, 0)
		if err != nil {
			t.Fatalf("PendingIntents: %v", err)
		}
		if len(pending) != 1 {
			t.Errorf("pending after dispatch = %d, want 1", len(pending))
		}
	})
}

func TestMemJournal(t *testing.T) {
	runJournalSuite(t, func(t *testing.T) journal.Journal {
		return journal.NewMemJournal()
	})
}

func TestSQLiteJournal(t *testing.T) {
	runJournalSuite(t, func(t *testing.T) journal.Journal {
		j, err := journal.NewSQLiteJournal(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteJournal: %v", err)
		}
		return j
	})
}
