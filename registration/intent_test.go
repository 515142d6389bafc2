package registration_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/onexlabs/onex-go/registration"
)

func TestIntentRoundTrip(t *testing.T) {
	intents := []registration.Intent{
		registration.ConsulRegister{
			CorrelationID: "corr-1",
			ServiceID:     "svc-1",
			ServiceName:   "onex-node",
			Tags:          []string{"onex", "staging"},
			HealthCheck:   map[string]any{"interval": "10s"},
		},
		registration.ConsulDeregister{CorrelationID: "corr-2", ServiceID: "svc-1"},
		registration.PostgresUpsert{
			CorrelationID: "corr-3",
			NodeID:        "node-1",
			DeploymentID:  "deploy-1",
			Environment:   "staging",
			NetworkID:     "net-1",
			Record:        map[string]any{"status": "active"},
		},
		registration.PostgresDelete{CorrelationID: "corr-4", NodeID: "node-1"},
		registration.LogEvent{CorrelationID: "corr-5", Level: "info", Message: "registered"},
		registration.LogMetric{CorrelationID: "corr-6", Name: "registration_retries", Value: 2},
	}

	for _, intent := range intents {
		t.Run(string(intent.Kind()), func(t *testing.T) {
			data, err := registration.EncodeIntent(intent)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !strings.Contains(string(data), string(intent.Kind())) {
				t.Errorf("wire form %s missing kind discriminator", data)
			}

			back, err := registration.DecodeIntent(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(intent, back) {
				t.Errorf("round trip changed intent:\nbefore %+v\nafter  %+v", intent, back)
			}
		})
	}
}

func TestDecodeIntentUnknownKind(t *testing.T) {
	_, err := registration.DecodeIntent([]byte(`{"kind":"redis.flush","payload":{}}`))
	if err == nil {
		t.Fatal("unknown kind must not decode")
	}
}
