package registration

import "github.com/onexlabs/onex-go/workflow/emit"

// Advance reduces one event and then follows automatic triggers until the
// machine settles, collecting all emitted intents in order.
//
// The only automatic trigger today is CONTINUE out of postgres_registered,
// so a POSTGRES_SUCCEEDED event advances straight to registering_consul and
// the postgres snapshot never needs caller attention. Auto-fired events
// inherit the originating event's correlation ID.
//
// Intents are accumulated through an append-only collector, one collector
// wave per reduction, so their order is exactly emission order and entries
// from separate reductions are never merged.
func Advance(state State, ev Event, rctx Context) (State, Context, []Intent, error) {
	collector := emit.NewCollector[Intent]()

	for {
		collector.BeginWave()

		next, updated, intents, err := Reduce(state, ev, rctx)
		if err != nil {
			return state, rctx, collector.Snapshot(), err
		}
		collector.Append(intents...)
		state, rctx = next, updated

		auto, ok := AutoTrigger(state)
		if !ok {
			return state, rctx, collector.Snapshot(), nil
		}
		ev = Event{Trigger: auto, CorrelationID: ev.CorrelationID}
	}
}
