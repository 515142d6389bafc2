package emit_test

import (
	"context"
	"testing"

	"github.com/onexlabs/onex-go/workflow/emit"
)

func TestBufferedEmitterHistory(t *testing.T) {
	b := emit.NewBufferedEmitter()

	b.Emit(emit.Event{WorkflowID: "wf-1", Wave: 0, StepID: "a", Msg: "step_completed"})
	b.Emit(emit.Event{WorkflowID: "wf-1", Wave: 1, StepID: "b", Msg: "step_failed"})
	b.Emit(emit.Event{WorkflowID: "wf-2", Wave: 0, StepID: "x", Msg: "step_completed"})

	if got := len(b.History("wf-1")); got != 2 {
		t.Errorf("wf-1 history = %d events, want 2", got)
	}
	if got := len(b.History("wf-2")); got != 1 {
		t.Errorf("wf-2 history = %d events, want 1", got)
	}
	if got := len(b.History("missing")); got != 0 {
		t.Errorf("missing history = %d events, want 0", got)
	}
}

func TestBufferedEmitterFilter(t *testing.T) {
	b := emit.NewBufferedEmitter()
	_ = b.EmitBatch(context.Background(), []emit.Event{
		{WorkflowID: "wf", Wave: 0, StepID: "a", Msg: "step_completed"},
		{WorkflowID: "wf", Wave: 1, StepID: "a", Msg: "action_emitted"},
		{WorkflowID: "wf", Wave: 2, StepID: "b", Msg: "step_completed"},
	})

	byStep := b.HistoryWithFilter("wf", emit.HistoryFilter{StepID: "a"})
	if len(byStep) != 2 {
		t.Errorf("filter by step = %d events, want 2", len(byStep))
	}

	minWave, maxWave := 1, 2
	byWave := b.HistoryWithFilter("wf", emit.HistoryFilter{MinWave: &minWave, MaxWave: &maxWave})
	if len(byWave) != 2 {
		t.Errorf("filter by wave = %d events, want 2", len(byWave))
	}

	both := b.HistoryWithFilter("wf", emit.HistoryFilter{StepID: "b", Msg: "step_completed"})
	if len(both) != 1 {
		t.Errorf("combined filter = %d events, want 1", len(both))
	}
}

func TestBufferedEmitterClear(t *testing.T) {
	b := emit.NewBufferedEmitter()
	b.Emit(emit.Event{WorkflowID: "wf-1", Msg: "workflow_start"})
	b.Emit(emit.Event{WorkflowID: "wf-2", Msg: "workflow_start"})

	b.Clear("wf-1")
	if len(b.History("wf-1")) != 0 {
		t.Error("wf-1 should be cleared")
	}
	if len(b.History("wf-2")) != 1 {
		t.Error("wf-2 should be untouched")
	}

	b.Clear("")
	if len(b.History("wf-2")) != 0 {
		t.Error("empty Clear should drop everything")
	}
}
