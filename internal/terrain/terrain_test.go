package terrain

import (
	"testing"

	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
)

func TestPopulateChunkDeterministic(t *testing.T) {
	g := New(42)

	c1 := chunk.New(chunk.Coord{X: 7, Y: -3}, 42)
	g.PopulateChunk(c1)

	c2 := chunk.New(chunk.Coord{X: 7, Y: -3}, 42)
	g.PopulateChunk(c2)

	for x := 0; x < chunk.SX; x++ {
		for y := 0; y < chunk.SY; y++ {
			for z := 0; z < chunk.SZ; z++ {
				a := c1.Block(x, y, z)
				b := c2.Block(x, y, z)
				if a.Type != b.Type {
					t.Fatalf("block (%d,%d,%d) differs between two generations: %d != %d", x, y, z, a.Type, b.Type)
				}
			}
		}
	}
}

func TestPopulateChunkDifferentGeneratorsSameSeedMatch(t *testing.T) {
	g1 := New(7)
	g2 := New(7)

	c1 := chunk.New(chunk.Coord{X: 1, Y: 1}, 7)
	g1.PopulateChunk(c1)
	c2 := chunk.New(chunk.Coord{X: 1, Y: 1}, 7)
	g2.PopulateChunk(c2)

	for i := 0; i < chunk.Volume; i++ {
		x := i & (chunk.SX - 1)
		y := (i >> chunk.BX) & (chunk.SY - 1)
		z := i >> (chunk.BX + chunk.BY)
		if c1.Block(x, y, z).Type != c2.Block(x, y, z).Type {
			t.Fatalf("two independently constructed Generator(7) instances diverge at block %d", i)
		}
	}
}

func TestOriginColumnBottomIsStoneTopIsAir(t *testing.T) {
	g := New(0)
	c := chunk.New(chunk.Coord{X: 0, Y: 0}, 0)
	g.PopulateChunk(c)

	stoneID, _ := block.Builtin().ByName("stone")
	if got := c.Block(0, 0, 0).Type; got != stoneID {
		t.Fatalf("block (0,0,0) = %d, want stone (%d)", got, stoneID)
	}
	if got := c.Block(0, 0, chunk.SZ-1).Type; got != block.Air {
		t.Fatalf("block (0,0,%d) = %d, want air", chunk.SZ-1, got)
	}
}

func TestPopulateChunkClearsNeedsSaving(t *testing.T) {
	g := New(5)
	c := chunk.New(chunk.Coord{X: 0, Y: 0}, 5)
	g.PopulateChunk(c)
	if c.NeedsSaving() {
		t.Fatalf("freshly generated chunk should not need saving")
	}
}
