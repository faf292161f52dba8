// Package light drains the dirty-flag flood-fill queue that keeps outdoor
// and indoor light levels correct after generation, digging, and placing.
// Grounded on the teacher's worker-pool-via-channel idiom
// (dantero-ps-mini-mc-go's internal/meshing/pool.go) for the shape of a
// drain loop, generalized here to a plain FIFO slice since lighting
// relaxation runs on the main thread, not a worker pool (SPEC_FULL.md §5).
package light

import (
	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
)

// Engine owns the process-wide dirty-light queue. It is the sole writer of
// block.FlagLightDirty (SPEC_FULL.md §9) — every other package that wants
// a block re-lit calls Enqueue instead of setting the flag itself.
type Engine struct {
	queue    []chunk.Iterator
	registry *block.Registry
}

// New builds an Engine against the given block registry (for opacity and
// light-emission lookups).
func New(registry *block.Registry) *Engine {
	return &Engine{registry: registry}
}

// Enqueue adds it to the dirty queue iff its block is not already flagged
// dirty, maintaining the "enqueued iff IS_LIGHT_DIRTY" invariant and the
// "no duplicates" invariant (SPEC_FULL.md §3).
func (e *Engine) Enqueue(it chunk.Iterator) {
	if !it.Valid() || it.Block().IsLightDirty() {
		return
	}
	it.SetLightDirty(true)
	e.queue = append(e.queue, it)
}

// Pending reports how many iterators remain queued.
func (e *Engine) Pending() int {
	return len(e.queue)
}

// Purge drops every queued iterator belonging to c, clearing its
// IS_LIGHT_DIRTY flag so Enqueue's "enqueued iff IS_LIGHT_DIRTY" invariant
// still holds afterward. Call this before a chunk is deactivated: an entry
// left queued against an unwired chunk would relax against neighbor
// pointers that have just gone nil instead of the chunks that actually
// border it.
func (e *Engine) Purge(c *chunk.Chunk) {
	kept := e.queue[:0]
	for _, it := range e.queue {
		if it.C == c {
			it.SetLightDirty(false)
			continue
		}
		kept = append(kept, it)
	}
	e.queue = kept
}

func (e *Engine) neighbors(it chunk.Iterator) [6]chunk.Iterator {
	return [6]chunk.Iterator{it.East(), it.West(), it.North(), it.South(), it.Up(), it.Down()}
}

func (e *Engine) isOpaque(it chunk.Iterator) bool {
	if !it.Valid() {
		return true
	}
	return e.registry.ByID(it.Block().Type).IsOpaque
}

// recompute returns the formula-correct (outdoor, indoor) pair for it from
// SPEC_FULL.md §4.3. Opaque blocks are always (0,0).
func (e *Engine) recompute(it chunk.Iterator) (outdoor, indoor uint8) {
	b := it.Block()
	def := e.registry.ByID(b.Type)
	if def.IsOpaque {
		return 0, 0
	}

	if b.IsSky() {
		outdoor = 15
	}
	indoor = def.LightEmission

	for _, n := range e.neighbors(it) {
		if !n.Valid() || e.isOpaque(n) {
			continue
		}
		nb := n.Block()
		if v := int(nb.OutdoorLight()) - 1; v > int(outdoor) {
			outdoor = uint8(v)
		}
		if v := int(nb.IndoorLight()) - 1; v > int(indoor) {
			indoor = uint8(v)
		}
	}
	return outdoor, indoor
}

// Drain runs relaxation steps until the queue is empty, calling
// markChunkAndHorizontalNeighborsDirty for every changed block's chunk
// (the edited block's chunk, its four horizontal neighbors "for safety" per
// §4.3, step 3).
func (e *Engine) Drain() {
	for len(e.queue) > 0 {
		it := e.queue[0]
		e.queue = e.queue[1:]
		it.SetLightDirty(false)

		if !it.Valid() {
			continue
		}

		outdoor, indoor := e.recompute(it)
		current := it.Block()
		if outdoor == current.OutdoorLight() && indoor == current.IndoorLight() {
			continue
		}

		it.SetLight(outdoor, indoor)
		markChunkAndHorizontalNeighborsDirty(it.C)

		for _, n := range e.neighbors(it) {
			if n.Valid() && !e.isOpaque(n) {
				e.Enqueue(n)
			}
		}
	}
}

func markChunkAndHorizontalNeighborsDirty(c *chunk.Chunk) {
	if c == nil {
		return
	}
	c.MarkMeshDirty()
	for _, n := range [4]*chunk.Chunk{c.East, c.West, c.North, c.South} {
		if n != nil {
			n.MarkMeshDirty()
		}
	}
}

// DigSideEffects applies the IS_SKY toggling rule for a block that was just
// dug (SPEC_FULL.md §4.3): if the block above was sky, this block becomes
// sky and the column below it becomes sky down to the first opaque block,
// with every affected block marked dirty.
func (e *Engine) DigSideEffects(it chunk.Iterator) {
	e.Enqueue(it)

	above := it.Up()
	if !above.Valid() || !above.Block().IsSky() {
		return
	}
	e.descendMarkingSky(it, true)
}

// PlaceSideEffects applies the IS_SKY toggling rule for an opaque block
// that was just placed where sky previously reached: the placed block
// itself is opaque (so it already reads IS_SKY=false), and the column
// below it becomes non-sky down to the first already-opaque block.
func (e *Engine) PlaceSideEffects(it chunk.Iterator) {
	e.Enqueue(it)
	e.descendMarkingSky(it.Down(), false)
}

// descendMarkingSky walks from cur downward, setting IS_SKY=sky on cur and
// every non-opaque block below until hitting an opaque block, enqueueing
// each one for relaxation.
func (e *Engine) descendMarkingSky(cur chunk.Iterator, sky bool) {
	for cur.Valid() {
		if e.isOpaque(cur) {
			return
		}
		cur.SetSky(sky)
		e.Enqueue(cur)
		cur = cur.Down()
	}
}
