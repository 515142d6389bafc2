package registration

import (
	"encoding/json"
	"fmt"
)

// IntentKind discriminates the closed set of registration intent variants.
type IntentKind string

const (
	IntentConsulRegister   IntentKind = "consul.register"
	IntentConsulDeregister IntentKind = "consul.deregister"
	IntentPostgresUpsert   IntentKind = "postgres.upsert_registration"
	IntentPostgresDelete   IntentKind = "postgres.delete_registration"
	IntentLogEvent         IntentKind = "log_event"
	IntentLogMetric        IntentKind = "log_metric"
)

// Intent is a declarative description of a side effect emitted by the
// reducer for an Effect collaborator to execute. Intents are immutable and
// JSON-serializable; every intent carries the correlation ID of the event
// whose reduction emitted it.
type Intent interface {
	Kind() IntentKind
	Correlation() string
}

// ConsulRegister asks the Consul Effect executor to register the service.
type ConsulRegister struct {
	CorrelationID string         `json:"correlation_id"`
	ServiceID     string         `json:"service_id"`
	ServiceName   string         `json:"service_name"`
	Tags          []string       `json:"tags,omitempty"`
	HealthCheck   map[string]any `json:"health_check,omitempty"`
}

func (i ConsulRegister) Kind() IntentKind    { return IntentConsulRegister }
func (i ConsulRegister) Correlation() string { return i.CorrelationID }

// ConsulDeregister asks the Consul Effect executor to remove the service.
type ConsulDeregister struct {
	CorrelationID string `json:"correlation_id"`
	ServiceID     string `json:"service_id"`
}

func (i ConsulDeregister) Kind() IntentKind    { return IntentConsulDeregister }
func (i ConsulDeregister) Correlation() string { return i.CorrelationID }

// PostgresUpsert asks the Postgres Effect executor to upsert the
// registration record.
type PostgresUpsert struct {
	CorrelationID string         `json:"correlation_id"`
	NodeID        string         `json:"node_id"`
	DeploymentID  string         `json:"deployment_id"`
	Environment   string         `json:"environment"`
	NetworkID     string         `json:"network_id"`
	Record        map[string]any `json:"record"`
}

func (i PostgresUpsert) Kind() IntentKind    { return IntentPostgresUpsert }
func (i PostgresUpsert) Correlation() string { return i.CorrelationID }

// PostgresDelete asks the Postgres Effect executor to delete the
// registration record.
type PostgresDelete struct {
	CorrelationID string `json:"correlation_id"`
	NodeID        string `json:"node_id"`
}

func (i PostgresDelete) Kind() IntentKind    { return IntentPostgresDelete }
func (i PostgresDelete) Correlation() string { return i.CorrelationID }

// LogEvent asks the logging Effect executor to record a lifecycle fact.
type LogEvent struct {
	CorrelationID string         `json:"correlation_id"`
	Level         string         `json:"level"`
	Message       string         `json:"message"`
	Fields        map[string]any `json:"fields,omitempty"`
}

func (i LogEvent) Kind() IntentKind    { return IntentLogEvent }
func (i LogEvent) Correlation() string { return i.CorrelationID }

// LogMetric asks the logging Effect executor to record a counter or gauge
// observation.
type LogMetric struct {
	CorrelationID string            `json:"correlation_id"`
	Name          string            `json:"name"`
	Value         float64           `json:"value"`
	Labels        map[string]string `json:"labels,omitempty"`
}

func (i LogMetric) Kind() IntentKind    { return IntentLogMetric }
func (i LogMetric) Correlation() string { return i.CorrelationID }

// intentEnvelope is the wire form: the kind discriminator next to the
// variant payload.
type intentEnvelope struct {
	Kind    IntentKind      `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeIntent serializes an intent with its kind discriminator.
func EncodeIntent(i Intent) ([]byte, error) {
	payload, err := json.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("encoding %s intent: %w", i.Kind(), err)
	}
	return json.Marshal(intentEnvelope{Kind: i.Kind(), Payload: payload})
}

// DecodeIntent deserializes an intent by its kind discriminator. The variant
// set is closed: an unknown kind is an error.
func DecodeIntent(data []byte) (Intent, error) {
	var env intentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding intent envelope: %w", err)
	}

	var (
		intent Intent
		err    error
	)
	switch env.Kind {
	case IntentConsulRegister:
		var v ConsulRegister
		err = json.Unmarshal(env.Payload, &v)
		intent = v
	case IntentConsulDeregister:
		var v ConsulDeregister
		err = json.Unmarshal(env.Payload, &v)
		intent = v
	case IntentPostgresUpsert:
		var v PostgresUpsert
		err = json.Unmarshal(env.Payload, &v)
		intent = v
	case IntentPostgresDelete:
		var v PostgresDelete
		err = json.Unmarshal(env.Payload, &v)
		intent = v
	case IntentLogEvent:
		var v LogEvent
		err = json.Unmarshal(env.Payload, &v)
		intent = v
	case IntentLogMetric:
		var v LogMetric
		err = json.Unmarshal(env.Payload, &v)
		intent = v
	default:
		return nil, fmt.Errorf("unknown intent kind %q", env.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s intent: %w", env.Kind, err)
	}
	return intent, nil
}
