// Package synth generates synthetic, deterministically-seeded event corpora
// used by the test suite's end-to-end scenarios (spec §8, S3-S5): pure
// Poisson streams, diurnal inhomogeneous Poisson streams, and self-exciting
// "child" streams generated by offsetting each event of a parent stream.
package synth

import (
	"hash/fnv"
	"math/rand"
)

// Key seeds a PartitionedRNG; the same Key always derives the same
// per-generator RNG streams.
type Key int64

// PartitionedRNG hands out deterministic, isolated RNG streams per named
// generator, adapted from the teacher's per-subsystem RNG isolation
// (sim/rng.go's PartitionedRNG) so that, e.g., a "parent" stream and its
// "child" stream never share a random stream and accidentally correlate.
type PartitionedRNG struct {
	key     Key
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a seed key.
func NewPartitionedRNG(key Key) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[string]*rand.Rand)}
}

// ForGenerator returns a deterministically-seeded RNG for the named
// generator, caching it so repeated calls with the same name return the
// same stream.
func (p *PartitionedRNG) ForGenerator(name string) *rand.Rand {
	if s, ok := p.streams[name]; ok {
		return s
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	s := rand.New(rand.NewSource(derivedSeed))
	p.streams[name] = s
	return s
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
