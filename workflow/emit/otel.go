package emit

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating OpenTelemetry spans.
//
// Each event becomes a span named after event.Msg with attributes for the
// workflow ID, wave, step ID and every Meta entry. Events carrying an
// "error" meta value mark the span status as error.
//
// Usage:
//
//	tracer := otel.Tracer("onex-go")
//	emitter := emit.NewOTelEmitter(tracer)
//
// The span processor configured on the tracer provider handles batching and
// export; spans here are created and ended immediately since events are
// points in time, not durations.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter creates an emitter backed by the given tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

// Emit creates a span for the event.
func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()

	span.SetAttributes(
		attribute.String("workflow_id", event.WorkflowID),
		attribute.Int("wave", event.Wave),
		attribute.String("step_id", event.StepID),
	)

	for k, v := range event.Meta {
		span.SetAttributes(metaAttribute(k, v))
	}

	if errVal, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, errVal)
		span.RecordError(fmt.Errorf("%s", errVal))
	}
}

// EmitBatch creates spans for all events in order.
func (o *OTelEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, e := range events {
		o.Emit(e)
	}
	return nil
}

// Flush is a no-op: export is owned by the tracer provider's span processor.
func (o *OTelEmitter) Flush(context.Context) error {
	return nil
}

// metaAttribute converts a meta value to a typed span attribute, falling
// back to its string rendering.
func metaAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
