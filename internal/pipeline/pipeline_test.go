package pipeline

import (
	"testing"

	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
	"voxelcore/internal/config"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	cfg := config.Defaults()
	cfg.SetSavesRoot(t.TempDir())
	return New(cfg, block.Builtin())
}

func TestActivateChunkWiresNeighborsAndScansSky(t *testing.T) {
	w := newTestWorld(t)

	origin := chunk.New(chunk.Coord{0, 0}, 0)
	w.active[chunk.Coord{0, 0}] = origin // pre-seed so the east neighbor finds it
	w.ActivateChunk(chunk.Coord{0, 0}, origin)

	east := chunk.New(chunk.Coord{1, 0}, 0)
	w.ActivateChunk(chunk.Coord{1, 0}, east)

	if origin.East != east || east.West != origin {
		t.Fatalf("ActivateChunk did not wire east/west neighbors")
	}

	top := chunk.At(origin, 0, 0, chunk.SZ-1)
	if !top.Block().IsSky() {
		t.Fatalf("top of an all-air column should be sky after activation")
	}
}

func TestDeactivateChunkUnwiresNeighbors(t *testing.T) {
	w := newTestWorld(t)
	a := chunk.New(chunk.Coord{0, 0}, 0)
	b := chunk.New(chunk.Coord{1, 0}, 0)
	w.ActivateChunk(chunk.Coord{0, 0}, a)
	w.ActivateChunk(chunk.Coord{1, 0}, b)

	w.DeactivateChunk(chunk.Coord{0, 0})

	if _, ok := w.active[chunk.Coord{0, 0}]; ok {
		t.Fatalf("deactivated chunk should be removed from active map")
	}
	if b.West != nil {
		t.Fatalf("DeactivateChunk should unwire the neighbor's back-pointer too")
	}
}

func TestDeactivateAllChunksClearsMaps(t *testing.T) {
	w := newTestWorld(t)
	w.ActivateChunk(chunk.Coord{0, 0}, chunk.New(chunk.Coord{0, 0}, 0))
	w.ActivateChunk(chunk.Coord{1, 1}, chunk.New(chunk.Coord{1, 1}, 0))

	w.DeactivateAllChunks()

	if len(w.active) != 0 || len(w.queued) != 0 {
		t.Fatalf("DeactivateAllChunks left chunks behind: active=%d queued=%d", len(w.active), len(w.queued))
	}
}

func TestNearestMissingChunkFindsClosest(t *testing.T) {
	w := newTestWorld(t)
	coord, found := w.nearestMissingChunk(0, 0, 250)
	if !found {
		t.Fatalf("expected to find a missing chunk near the origin")
	}
	// The chunk containing the origin has its min-corner at the player
	// (squared distance 0), so it is the unique closest candidate.
	if coord != (chunk.Coord{X: 0, Y: 0}) {
		t.Fatalf("nearestMissingChunk = %+v, want the origin chunk {0 0}", coord)
	}
}

func TestSetWorldSeedDeactivatesEverything(t *testing.T) {
	w := newTestWorld(t)
	w.ActivateChunk(chunk.Coord{0, 0}, chunk.New(chunk.Coord{0, 0}, 0))

	w.SetWorldSeed(99)

	if len(w.active) != 0 {
		t.Fatalf("SetWorldSeed should deactivate all chunks")
	}
	if w.cfg.WorldSeed() != 99 {
		t.Fatalf("SetWorldSeed did not update the config blackboard")
	}
	w.Close()
}
