package raycast

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
)

func testRegistry(t *testing.T) *block.Registry {
	t.Helper()
	const doc = `
[[block]]
name = "stone"
visible = true
solid = true
opaque = true
`
	reg, err := block.NewRegistryFromTOML(doc)
	if err != nil {
		t.Fatalf("NewRegistryFromTOML: %v", err)
	}
	return reg
}

func TestCastMissesThroughAir(t *testing.T) {
	reg := testRegistry(t)
	c := chunk.New(chunk.Coord{}, 0)

	hit := Cast(reg, c, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 0, 0}, 100)
	if hit.DidHit {
		t.Fatalf("Cast through an all-air chunk should miss")
	}
}

func TestCastHitsSolidBlock(t *testing.T) {
	reg := testRegistry(t)
	stoneID, _ := reg.ByName("stone")
	c := chunk.New(chunk.Coord{}, 0)
	c.SetBlock(5, 1, 1, block.Block{Type: stoneID})

	hit := Cast(reg, c, mgl32.Vec3{0.5, 1.5, 1.5}, mgl32.Vec3{1, 0, 0}, 100)
	if !hit.DidHit {
		t.Fatalf("Cast should hit the stone block")
	}
	if hit.Normal != NormalNegX {
		t.Fatalf("hit normal = %v, want NormalNegX (approaching from -X)", hit.Normal)
	}
}

func TestCastOriginInSolidHitsAtZero(t *testing.T) {
	reg := testRegistry(t)
	stoneID, _ := reg.ByName("stone")
	c := chunk.New(chunk.Coord{}, 0)
	c.SetBlock(2, 2, 2, block.Block{Type: stoneID})

	hit := Cast(reg, c, mgl32.Vec3{2.5, 2.5, 2.5}, mgl32.Vec3{1, 0, 0}, 100)
	if !hit.DidHit || hit.Dist != 0 {
		t.Fatalf("Cast from inside a solid block should hit at dist 0, got %+v", hit)
	}
}

func TestCastMonotonicWithMaxDistance(t *testing.T) {
	reg := testRegistry(t)
	stoneID, _ := reg.ByName("stone")
	c := chunk.New(chunk.Coord{}, 0)
	c.SetBlock(10, 1, 1, block.Block{Type: stoneID})

	long := Cast(reg, c, mgl32.Vec3{0.5, 1.5, 1.5}, mgl32.Vec3{1, 0, 0}, 100)
	if !long.DidHit {
		t.Fatalf("long-range cast should hit")
	}
	short := Cast(reg, c, mgl32.Vec3{0.5, 1.5, 1.5}, mgl32.Vec3{1, 0, 0}, long.Dist+0.01)
	if !short.DidHit || short.Dist != long.Dist {
		t.Fatalf("shorter cast with maxDistance just past the hit should report the same dist: got %+v, want dist %v", short, long.Dist)
	}
}

func TestCastMissesCrossingUnwiredChunk(t *testing.T) {
	reg := testRegistry(t)
	c := chunk.New(chunk.Coord{}, 0)
	// No east neighbor wired: a ray that would cross x=SX should miss there.
	hit := Cast(reg, c, mgl32.Vec3{float32(chunk.SX) - 0.5, 1.5, 1.5}, mgl32.Vec3{1, 0, 0}, 100)
	if hit.DidHit {
		t.Fatalf("Cast should miss when stepping into an unwired chunk")
	}
}
