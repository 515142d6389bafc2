package workflow_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/onexlabs/onex-go/workflow"
)

func TestErrorValue(t *testing.T) {
	base := errors.New("boom")
	err := workflow.NewError(workflow.CodeValidation, "step %q broken", "A")
	err.Cause = base

	if !strings.HasPrefix(err.Error(), workflow.CodeValidation) {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestErrorWithContext(t *testing.T) {
	err := workflow.NewError(workflow.CodeGuardFailed, "blocked")
	enriched := err.WithContext("state", "failed")

	if err.Context != nil {
		t.Error("WithContext must not mutate the receiver")
	}
	if enriched.Context["state"] != "failed" {
		t.Errorf("context = %v, want state=failed", enriched.Context)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	verrs := &workflow.ValidationErrors{Errors: []*workflow.Error{
		workflow.NewError(workflow.CodeValidation, "first"),
		workflow.NewError(workflow.CodeValidation, "second"),
	}}
	msg := verrs.Error()
	if !strings.Contains(msg, "first") || !strings.Contains(msg, "second") {
		t.Errorf("aggregate message %q should contain both entries", msg)
	}
}
