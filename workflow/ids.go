package workflow

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// IDSource produces the action and lease identifiers minted during a run.
//
// The executor is a pure function of its inputs given a deterministic
// IDSource: two Execute calls with identical inputs and equally seeded
// sources yield byte-identical results. The default source is backed by
// random UUIDs, so action IDs differ across runs while every other
// observable output stays stable.
type IDSource interface {
	// NewID returns the next identifier. Implementations must never return
	// the same value twice from one source.
	NewID() string
}

// UUIDSource is the default IDSource, minting random (version 4) UUIDs.
type UUIDSource struct{}

// NewID returns a fresh random UUID string.
func (UUIDSource) NewID() string {
	return uuid.NewString()
}

// SeededIDSource derives a deterministic UUID stream from a seed string.
//
// Each identifier is the first 16 bytes of sha256(seed || counter) laid out
// as a version-4-shaped UUID, so the stream is collision-resistant, stable
// for a given seed, and statistically independent between seeds. Use this
// for replay comparison and determinism tests.
type SeededIDSource struct {
	seed    string
	counter uint64
}

// NewSeededIDSource creates a deterministic source for the given seed.
func NewSeededIDSource(seed string) *SeededIDSource {
	return &SeededIDSource{seed: seed}
}

// NewID returns the next identifier in the seeded stream.
func (s *SeededIDSource) NewID() string {
	h := sha256.New()
	h.Write([]byte(s.seed))

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], s.counter)
	h.Write(buf[:])
	s.counter++

	sum := h.Sum(nil)

	// Stamp version and variant bits so the output parses as a UUID.
	sum[6] = (sum[6] & 0x0f) | 0x40
	sum[8] = (sum[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", sum[0:4], sum[4:6], sum[6:8], sum[8:10], sum[10:16])
}
