// Package mesh builds per-chunk CPU vertex lists: one quad per visible
// block face, culled against opaque neighbors when hidden-surface removal
// is enabled. Grounded on dantero-ps-mini-mc-go's internal/meshing/greedy.go
// for the per-face vertex layout and bit-packed-attribute idiom, but emits
// one quad per exposed face rather than merging coplanar faces — greedy
// merging is an optimization SPEC_FULL.md's mesher does not call for.
package mesh

import (
	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
)

// Vertex is one CPU-side mesh vertex: position, color (light-encoded), and
// UV. GPUUploader implementations decide how to pack these for upload.
type Vertex struct {
	X, Y, Z    float32
	R, G, B    uint8
	U, V       float32
}

// GPUUploader is the renderer-side collaborator's interface: this package
// hands it a finished chunk's vertex slice and never opens a graphics
// context itself.
type GPUUploader interface {
	Upload(handle int, vertices []Vertex) (newHandle int)
}

type face struct {
	dx, dy, dz int // offset to the neighbor this face looks toward
	corners    [4][3]float32
}

var faces = [6]face{
	{1, 0, 0, [4][3]float32{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}}},   // +X
	{-1, 0, 0, [4][3]float32{{0, 0, 1}, {0, 1, 1}, {0, 1, 0}, {0, 0, 0}}},  // -X
	{0, 1, 0, [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}},   // +Y (chunk-local, north)
	{0, -1, 0, [4][3]float32{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {1, 0, 1}}},  // -Y (south)
	{0, 0, 1, [4][3]float32{{1, 0, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}}},   // +Z (up)
	{0, 0, -1, [4][3]float32{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}}},  // -Z (down)
}

// spriteUV maps a sprite-sheet index to its (u,v) origin on a fixed grid;
// the grid dimension is a placeholder the renderer-side collaborator's
// texture atlas must agree with (§1 — the atlas's pixels are out of
// scope here).
const spriteSheetDim = 16

func spriteUV(index int) (u, v float32) {
	col := index % spriteSheetDim
	row := index / spriteSheetDim
	return float32(col) / spriteSheetDim, float32(row) / spriteSheetDim
}

func faceTexture(def block.Definition, faceIdx int) int {
	switch faceIdx {
	case 4: // +Z, up
		return def.TopTexture
	case 5: // -Z, down
		return def.BottomTexture
	default:
		return def.SideTexture
	}
}

// Builder accumulates vertices for one chunk rebuild.
type Builder struct {
	registry               *block.Registry
	hiddenSurfaceRemoval   bool
}

// NewBuilder constructs a mesh Builder against registry, honoring the
// enableHiddenSurfaceRemoval configuration flag (SPEC_FULL.md §6).
func NewBuilder(registry *block.Registry, hiddenSurfaceRemoval bool) *Builder {
	return &Builder{registry: registry, hiddenSurfaceRemoval: hiddenSurfaceRemoval}
}

// Build emits every visible, exposed face of c as a quad (two triangles'
// worth of vertices — 6 per face, for a plain triangle-list mesh) and
// returns the CPU vertex list. It does not check meshDirty or neighbor
// presence; callers (the pipeline) apply that rebuild gate.
func (b *Builder) Build(c *chunk.Chunk) []Vertex {
	var out []Vertex

	for x := 0; x < chunk.SX; x++ {
		for y := 0; y < chunk.SY; y++ {
			for z := 0; z < chunk.SZ; z++ {
				bl := c.Block(x, y, z)
				def := b.registry.ByID(bl.Type)
				if !def.IsVisible {
					continue
				}
				for faceIdx, f := range faces {
					it := chunk.At(c, x+f.dx, y+f.dy, z+f.dz)
					if b.faceHidden(it) {
						continue
					}
					out = append(out, b.emitFace(def, faceIdx, f, x, y, z, it)...)
				}
			}
		}
	}
	return out
}

func (b *Builder) faceHidden(neighbor chunk.Iterator) bool {
	if !b.hiddenSurfaceRemoval {
		return false
	}
	if !neighbor.Valid() {
		return false
	}
	return b.registry.ByID(neighbor.Block().Type).IsOpaque
}

func (b *Builder) emitFace(def block.Definition, faceIdx int, f face, x, y, z int, neighbor chunk.Iterator) []Vertex {
	var outdoor, indoor uint8
	if neighbor.Valid() {
		nb := neighbor.Block()
		outdoor, indoor = nb.OutdoorLight(), nb.IndoorLight()
	}
	r := remapByte(outdoor)
	g := remapByte(indoor)

	u0, v0 := spriteUV(faceTexture(def, faceIdx))
	uvs := [4][2]float32{{u0, v0}, {u0, v0 + 1.0 / spriteSheetDim}, {u0 + 1.0/spriteSheetDim, v0 + 1.0/spriteSheetDim}, {u0 + 1.0/spriteSheetDim, v0}}

	quad := make([]Vertex, 4)
	for i, corner := range f.corners {
		quad[i] = Vertex{
			X: float32(x) + corner[0],
			Y: float32(y) + corner[1],
			Z: float32(z) + corner[2],
			R: r, G: g, B: 255,
			U: uvs[i][0], V: uvs[i][1],
		}
	}
	// Two triangles: (0,1,2) and (0,2,3).
	return []Vertex{quad[0], quad[1], quad[2], quad[0], quad[2], quad[3]}
}

func remapByte(level uint8) uint8 {
	return uint8((uint32(level) * 255) / 15)
}

// Rebuild rebuilds c's mesh if the rebuild gate (meshDirty, all four
// horizontal neighbors present) is satisfied, uploading the result through
// uploader and clearing meshDirty. It is a no-op otherwise.
func (b *Builder) Rebuild(c *chunk.Chunk, uploader GPUUploader) {
	if !c.MeshDirty() || !c.HasAllHorizontalNeighbors() {
		return
	}
	vertices := b.Build(c)
	c.Vertices = vertices
	c.GPUHandle = uploader.Upload(c.GPUHandle, vertices)
	c.ClearMeshDirty()
}
