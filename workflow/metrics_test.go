package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/onexlabs/onex-go/workflow"
)

func TestMetricsCollection(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := workflow.NewMetrics(registry)

	exec := workflow.NewExecutor(
		workflow.WithIDSource(workflow.NewSeededIDSource("metrics")),
		workflow.WithClock(fixedClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))),
		workflow.WithMetrics(metrics),
	)

	def := testDef("metrics", workflow.ModeSequential)
	if _, err := exec.Execute(context.Background(), def, []workflow.WorkflowStep{step("A"), step("B", "A")}, "run-metrics", ""); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"onex_executions_total",
		"onex_steps_total",
		"onex_actions_emitted_total",
		"onex_waves_total",
		"onex_execute_latency_ms",
	} {
		if !names[want] {
			t.Errorf("metric %s not collected; got %v", want, names)
		}
	}
}

func TestMetricsValidationFailure(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := workflow.NewMetrics(registry)
	exec := workflow.NewExecutor(workflow.WithMetrics(metrics))

	def := testDef("bad", workflow.ModeConditional)
	if _, err := exec.Execute(context.Background(), def, nil, "run-bad", ""); err == nil {
		t.Fatal("expected validation error")
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "onex_validation_errors_total" {
			if mf.GetMetric()[0].GetCounter().GetValue() != 1 {
				t.Errorf("validation_errors_total = %v, want 1", mf.GetMetric()[0].GetCounter().GetValue())
			}
			return
		}
	}
	t.Error("onex_validation_errors_total not collected")
}

func TestMetricsNilSafe(t *testing.T) {
	exec := workflow.NewExecutor() // no metrics configured
	def := testDef("nil-metrics", workflow.ModeSequential)
	if _, err := exec.Execute(context.Background(), def, []workflow.WorkflowStep{step("A")}, "run-nil", ""); err != nil {
		t.Fatalf("Execute without metrics errored: %v", err)
	}
}
