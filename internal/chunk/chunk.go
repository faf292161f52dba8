// Package chunk owns the fixed block grid, its neighbor wiring, atomic
// activation lifecycle, and on-disk encoding — the unit the pipeline
// generates, meshes, and persists. Dimensions follow dantero-ps-mini-mc-go's
// internal/world/chunk.go layout (fixed grid, local-coordinate bounds
// checks), generalized from its fixed 16x256x16 section-of-sections shape
// to the flat, bit-shifted index SPEC_FULL.md §3 requires.
package chunk

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/block"
)

// Dimension bit counts. BX, BY, BZ are part of the on-disk header (§6) and
// must match on load; reference values give a 16x16x128 grid.
const (
	BX = 4
	BY = 4
	BZ = 7

	SX = 1 << BX
	SY = 1 << BY
	SZ = 1 << BZ

	Volume = SX * SY * SZ
)

// Index returns the flat array index for local coordinates (x,y,z), valid
// only when all three are in range — callers must bounds-check first.
func Index(x, y, z int) int {
	return x | (y << BX) | (z << (BX + BY))
}

// InBounds reports whether local coordinates fall inside one chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < SX && y >= 0 && y < SY && z >= 0 && z < SZ
}

// Coord identifies a chunk by its XY column in chunk-grid units.
type Coord struct {
	X, Y int
}

// State is the atomic lifecycle of a Chunk (SPEC_FULL.md §3).
type State int32

const (
	Queued State = iota
	Generating
	Completed
	Activated
)

// Chunk owns one fixed block grid plus the bookkeeping the pipeline needs to
// activate, mesh, and persist it. Neighbor pointers are filled in only while
// the chunk is Activated; a nil neighbor means "not currently active," not
// "does not exist" — the pipeline may still have it queued or on disk.
type Chunk struct {
	Coord Coord

	blocks [Volume]block.Block

	state State // accessed only through the atomic Load/Store/CompareAndSwap helpers in state.go

	East, West, North, South *Chunk

	needsSaving bool
	meshDirty   bool

	// Vertices holds the CPU mesh built by package mesh, typed as any to
	// avoid an import cycle (mesh depends on chunk, not the reverse).
	// Readers type-assert back to []mesh.Vertex.
	Vertices  any
	GPUHandle int

	worldSeed uint32
}

// New allocates an unpopulated chunk at coord, in the Queued state.
func New(coord Coord, worldSeed uint32) *Chunk {
	return &Chunk{
		Coord:     coord,
		state:     Queued,
		worldSeed: worldSeed,
		meshDirty: true,
	}
}

// Block returns the block at local (x,y,z). Callers must pass in-bounds
// coordinates; use BlockIterator for traversal that may cross chunk seams.
func (c *Chunk) Block(x, y, z int) block.Block {
	return c.blocks[Index(x, y, z)]
}

// SetBlock overwrites the block at local (x,y,z) and marks the chunk dirty
// for both meshing and saving.
func (c *Chunk) SetBlock(x, y, z int, b block.Block) {
	c.blocks[Index(x, y, z)] = b
	c.needsSaving = true
	c.meshDirty = true
}

// blockPtr returns a pointer into the flat array for in-place mutation
// (used by the lighting engine, which flips flags/nibbles without touching
// the block's Type).
func (c *Chunk) blockPtr(x, y, z int) *block.Block {
	return &c.blocks[Index(x, y, z)]
}

func (c *Chunk) NeedsSaving() bool   { return c.needsSaving }
func (c *Chunk) ClearNeedsSaving()   { c.needsSaving = false }
func (c *Chunk) MeshDirty() bool     { return c.meshDirty }
func (c *Chunk) ClearMeshDirty()     { c.meshDirty = false }
func (c *Chunk) MarkMeshDirty()      { c.meshDirty = true }
func (c *Chunk) WorldSeed() uint32   { return c.worldSeed }

// HasAllHorizontalNeighbors reports whether all four horizontal neighbors
// are wired, the mesh-rebuild gate from SPEC_FULL.md §4.1/§4.5.
func (c *Chunk) HasAllHorizontalNeighbors() bool {
	return c.East != nil && c.West != nil && c.North != nil && c.South != nil
}

// UnwireNeighbors clears this chunk's back-pointers to its neighbors and
// the corresponding back-pointers those neighbors hold to it.
func (c *Chunk) UnwireNeighbors() {
	if c.East != nil {
		c.East.West = nil
		c.East = nil
	}
	if c.West != nil {
		c.West.East = nil
		c.West = nil
	}
	if c.North != nil {
		c.North.South = nil
		c.North = nil
	}
	if c.South != nil {
		c.South.North = nil
		c.South = nil
	}
}

// WireEastWest links west and east as horizontal neighbors along X, setting
// both sides' back-pointers. WireNorthSouth does the same along Y.
func WireEastWest(west, east *Chunk) {
	west.East = east
	east.West = west
}

func WireNorthSouth(south, north *Chunk) {
	south.North = north
	north.South = south
}

// Bounds returns the chunk's axis-aligned world-space bounding box, for a
// renderer-side collaborator to draw a chunk-boundary debug wireframe
// (SPEC_FULL.md §9A); this module never renders it.
func (c *Chunk) Bounds() (min, max mgl32.Vec3) {
	minX := float32(c.Coord.X * SX)
	minY := float32(c.Coord.Y * SY)
	min = mgl32.Vec3{minX, 0, minY}
	max = mgl32.Vec3{minX + SX, SZ, minY + SY}
	return min, max
}
