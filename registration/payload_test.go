package registration_test

import (
	"testing"

	"github.com/onexlabs/onex-go/registration"
	"github.com/onexlabs/onex-go/workflow"
)

func TestValidatePayload(t *testing.T) {
	t.Run("valid payload passes", func(t *testing.T) {
		if err := registration.ValidatePayload(testPayload()); err != nil {
			t.Errorf("valid payload rejected: %v", err)
		}
	})

	t.Run("missing consul service id", func(t *testing.T) {
		p := testPayload()
		p.ConsulServiceID = ""
		wantCode(t, registration.ValidatePayload(p), workflow.CodeValidation)
	})

	t.Run("missing consul service name", func(t *testing.T) {
		p := testPayload()
		p.ConsulServiceName = ""
		wantCode(t, registration.ValidatePayload(p), workflow.CodeValidation)
	})

	t.Run("node id must be a uuid", func(t *testing.T) {
		p := testPayload()
		p.NodeID = "not-a-uuid"
		wantCode(t, registration.ValidatePayload(p), workflow.CodeValidation)
	})

	t.Run("missing postgres record", func(t *testing.T) {
		p := testPayload()
		p.PostgresRecord = nil
		wantCode(t, registration.ValidatePayload(p), workflow.CodeValidation)
	})
}
