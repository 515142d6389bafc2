package emit

// Collector is the ordered append-only sink the executor uses for emitted
// actions and the registration driver uses for emitted intents.
//
// It preserves append order exactly and tracks wave boundaries: entries from
// different waves are never merged, and Snapshot returns the entries in the
// order they were appended: wave-major, then append order within a wave.
// Collector performs no reordering of any kind.
type Collector[T any] struct {
	entries []T
	waves   []int // parallel to entries: wave number of each entry
	current int
}

// NewCollector returns an empty collector positioned before the first wave.
func NewCollector[T any]() *Collector[T] {
	return &Collector[T]{current: -1}
}

// BeginWave marks the start of the next wave. Entries appended afterwards
// belong to it. Waves are numbered from zero in call order.
func (c *Collector[T]) BeginWave() int {
	c.current++
	return c.current
}

// Append adds entries to the current wave in the order given.
func (c *Collector[T]) Append(entries ...T) {
	for _, e := range entries {
		c.entries = append(c.entries, e)
		c.waves = append(c.waves, c.current)
	}
}

// Len returns the number of collected entries.
func (c *Collector[T]) Len() int { return len(c.entries) }

// Snapshot returns a copy of all entries in append order.
func (c *Collector[T]) Snapshot() []T {
	out := make([]T, len(c.entries))
	copy(out, c.entries)
	return out
}

// WaveOf returns the wave number of the i-th entry.
func (c *Collector[T]) WaveOf(i int) int { return c.waves[i] }
