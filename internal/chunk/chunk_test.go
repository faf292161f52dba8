package chunk

import (
	"testing"

	"voxelcore/internal/block"
)

func TestIndexWithinVolume(t *testing.T) {
	for _, c := range []struct{ x, y, z int }{
		{0, 0, 0}, {SX - 1, SY - 1, SZ - 1}, {3, 7, 42},
	} {
		i := Index(c.x, c.y, c.z)
		if i < 0 || i >= Volume {
			t.Fatalf("Index(%d,%d,%d) = %d out of [0,%d)", c.x, c.y, c.z, i, Volume)
		}
	}
}

func TestSetBlockMarksDirty(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	c.ClearNeedsSaving()
	c.ClearMeshDirty()
	c.SetBlock(1, 2, 3, block.Block{Type: 5})
	if !c.NeedsSaving() {
		t.Fatalf("SetBlock did not mark needsSaving")
	}
	if !c.MeshDirty() {
		t.Fatalf("SetBlock did not mark meshDirty")
	}
	if got := c.Block(1, 2, 3).Type; got != 5 {
		t.Fatalf("Block(1,2,3).Type = %d, want 5", got)
	}
}

func TestNeighborWiringAndUnwire(t *testing.T) {
	a := New(Coord{0, 0}, 0)
	b := New(Coord{1, 0}, 0)
	WireEastWest(a, b)
	if a.East != b || b.West != a {
		t.Fatalf("WireEastWest did not set both back-pointers")
	}
	a.UnwireNeighbors()
	if a.East != nil || b.West != nil {
		t.Fatalf("UnwireNeighbors left a back-pointer set")
	}
}

func TestIteratorNeighborInvolutive(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	it := At(c, 5, 5, 5)
	if got := it.East().West(); got != it {
		t.Fatalf("East().West() = %+v, want %+v", got, it)
	}
	if got := it.North().South(); got != it {
		t.Fatalf("North().South() = %+v, want %+v", got, it)
	}
	if got := it.Up().Down(); got != it {
		t.Fatalf("Up().Down() = %+v, want %+v", got, it)
	}
}

func TestIteratorCrossesChunkSeamEastWest(t *testing.T) {
	west := New(Coord{0, 0}, 0)
	east := New(Coord{1, 0}, 0)
	WireEastWest(west, east)

	it := At(west, SX-1, 4, 4)
	next := it.East()
	if !next.Valid() || next.C != east || next.X != 0 {
		t.Fatalf("East() across seam = %+v, want chunk=east x=0", next)
	}
	back := next.West()
	if back != it {
		t.Fatalf("West() back across seam = %+v, want %+v", back, it)
	}
}

func TestIteratorInvalidAtWorldFloorAndCeiling(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	bottom := At(c, 0, 0, 0)
	if bottom.Down().Valid() {
		t.Fatalf("Down() below z=0 should be invalid")
	}
	top := At(c, 0, 0, SZ-1)
	if top.Up().Valid() {
		t.Fatalf("Up() above z=SZ-1 should be invalid")
	}
}

func TestIteratorInvalidWithoutNeighbor(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	it := At(c, SX-1, 0, 0)
	if it.East().Valid() {
		t.Fatalf("East() without a wired neighbor should be invalid")
	}
}

func TestHasAllHorizontalNeighbors(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	if c.HasAllHorizontalNeighbors() {
		t.Fatalf("fresh chunk should have no neighbors wired")
	}
	e := New(Coord{1, 0}, 0)
	w := New(Coord{-1, 0}, 0)
	n := New(Coord{0, 1}, 0)
	s := New(Coord{0, -1}, 0)
	WireEastWest(c, e)
	WireEastWest(w, c)
	WireNorthSouth(c, n)
	WireNorthSouth(s, c)
	if !c.HasAllHorizontalNeighbors() {
		t.Fatalf("all four neighbors wired but HasAllHorizontalNeighbors() = false")
	}
}

func TestStateTransitions(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	if c.Load() != Queued {
		t.Fatalf("new chunk state = %v, want Queued", c.Load())
	}
	if !c.CompareAndSwap(Queued, Generating) {
		t.Fatalf("CompareAndSwap(Queued,Generating) failed")
	}
	c.Store(Completed)
	if c.Load() != Completed {
		t.Fatalf("state = %v, want Completed", c.Load())
	}
	if c.CompareAndSwap(Queued, Activated) {
		t.Fatalf("CompareAndSwap from stale old state should fail")
	}
}
