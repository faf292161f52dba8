package noise

import "github.com/segmentio/fasthash/fnv1a"

// White is a deterministic hash-based noise source: unlike Perlin, it has
// no spatial coherence between neighboring samples, the shape the terrain
// generator wants for dirt-depth choice, ore rolls, and cave-origin
// selection (SPEC_FULL.md §4.2). Grounded on dm-vev-adamant's use of
// github.com/segmentio/fasthash/fnv1a for deterministic, allocation-free
// hashing rather than ad hoc multiply-xor mixing.
type White struct {
	seed uint64
}

// NewWhite returns a white-noise source keyed by seed; distinct seeds (or
// seeds mixed with a per-purpose offset) produce statistically independent
// streams from the same underlying hash.
func NewWhite(seed uint64) White {
	return White{seed: seed}
}

// Sample2 returns a deterministic value in [0,1) for integer coordinates
// (x,z).
func (w White) Sample2(x, z int32) float32 {
	h := fnv1a.HashUint64(w.seed ^ uint64(uint32(x))<<32 ^ uint64(uint32(z)))
	return float32(h%1_000_000) / 1_000_000
}

// Sample3 returns a deterministic value in [0,1) for integer coordinates
// (x,y,z).
func (w White) Sample3(x, y, z int32) float32 {
	h := fnv1a.HashUint64(w.seed ^ uint64(uint32(x))<<40 ^ uint64(uint32(y))<<20 ^ uint64(uint32(z)))
	return float32(h%1_000_000) / 1_000_000
}

// WithOffset derives an independent stream for a distinct purpose (e.g.
// dirt-depth choice vs. ore rolls) from the same base seed, the way the
// terrain generator mixes worldSeed with small integer tags per §4.2.
func (w White) WithOffset(tag uint64) White {
	return White{seed: fnv1a.HashUint64(w.seed ^ tag)}
}
