package emit

import "context"

// NullEmitter implements Emitter by discarding all events.
//
// Use it where observability overhead is unwanted, or in tests that do not
// assert on events. Safe for concurrent use, zero overhead.
type NullEmitter struct{}

// NewNullEmitter returns an emitter that discards everything.
func NewNullEmitter() *NullEmitter {
	return &NullEmitter{}
}

// Emit discards the event.
func (n *NullEmitter) Emit(Event) {}

// EmitBatch discards the events.
func (n *NullEmitter) EmitBatch(context.Context, []Event) error { return nil }

// Flush is a no-op.
func (n *NullEmitter) Flush(context.Context) error { return nil }
