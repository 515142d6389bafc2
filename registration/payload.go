// Package registration implements the dual-registry enrollment lifecycle as
// a pure finite-state reducer. The reducer consumes registration events and
// emits typed intents for Effect collaborators (Consul and Postgres
// executors); it performs no I/O of its own.
package registration

import (
	"github.com/go-playground/validator/v10"

	"github.com/onexlabs/onex-go/workflow"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegistrationPayload is the structurally validated input handed to the
// reducer on each registration event. It is immutable once inside the
// context; the reducer only reads it.
type RegistrationPayload struct {
	// NodeID identifies the node being enrolled (UUID string).
	NodeID string `json:"node_id" validate:"required,uuid"`

	DeploymentID string `json:"deployment_id" validate:"required"`
	Environment  string `json:"environment" validate:"required"`
	NetworkID    string `json:"network_id" validate:"required"`

	// ConsulServiceID and ConsulServiceName must be non-empty.
	ConsulServiceID   string `json:"consul_service_id" validate:"required"`
	ConsulServiceName string `json:"consul_service_name" validate:"required"`

	ConsulTags        []string       `json:"consul_tags,omitempty"`
	ConsulHealthCheck map[string]any `json:"consul_health_check,omitempty"`

	// PostgresRecord is the row image upserted into the registration table.
	PostgresRecord map[string]any `json:"postgres_record" validate:"required"`
}

// present reports whether a payload has been supplied at all; it backs the
// payload-presence guard on the initial REGISTER transition.
func (p RegistrationPayload) present() bool {
	return p.NodeID != ""
}

// ValidatePayload performs structural validation of a registration payload
// before it enters the state machine. Failures carry VALIDATION_ERROR with
// the offending fields in the error context.
func ValidatePayload(p RegistrationPayload) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	verr := workflow.NewError(workflow.CodeValidation, "registration payload validation failed: %v", err)
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field())
		}
		verr = verr.WithContext("fields", fields)
	}
	return verr
}
