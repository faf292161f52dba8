// Package terrain is the pure (seed, cx, cy) -> block grid generator:
// biome-aware height/ore/cave/template stamping. Grounded on
// dantero-ps-mini-mc-go's internal/world/chunk_provider_189.go (the MC
// 1.8.9 density-field port this engine's generator plays the same role
// as) and internal/world/generator.go for the simpler seed/scale/height
// shape, but follows the distinct per-column algorithm SPEC_FULL.md §4.2
// specifies rather than either file's density field.
package terrain

import (
	"github.com/segmentio/fasthash/fnv1a"

	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
	"voxelcore/internal/noise"
)

const (
	base            = 63
	seaLevel        = chunk.SZ / 2
	oceanFloorDepth = 30
	maxHilliness    = 60.0

	// caveSegmentsForOrigin's worst case: caveMaxSegments segments of
	// caveSegmentMaxLength each, plus the widest carve radius — the
	// farthest an origin's capsule chain can reach from its chunk.
	caveMaxSegments      = 20
	caveSegmentMaxLength = 10
	caveMaxRadius        = 6
	caveMaxBlockRadius   = caveMaxSegments*caveSegmentMaxLength + caveMaxRadius
	caveMaxChunkRadius   = (caveMaxBlockRadius + chunk.SX - 1) / chunk.SX

	caveOriginChance = 0.025
)

// noise source tags, mixed into worldSeed so every named source draws from
// an independent permutation table without needing a distinct field per
// source in the caller.
const (
	tagHumidity = iota + 1
	tagTemperature
	tagTemperatureJitter
	tagHilliness
	tagOceanness
	tagTreeDensity
	tagDirtDepth
	tagOreRoll
	tagCaveOrigin
	tagCaveDirection
	tagCaveVolcanic
	tagHeightNoise
)

// Generator produces deterministic block grids for a fixed world seed. All
// state is read-only after construction, so one Generator is safely shared
// across worker goroutines (SPEC_FULL.md §5).
type Generator struct {
	seed uint32

	humidity    *noise.Octaves
	temperature *noise.Octaves
	tempJitter  noise.White
	hilliness   *noise.Octaves
	oceanness   *noise.Octaves
	treeDensity *noise.Octaves
	heightNoise *noise.Octaves

	dirtDepth    noise.White
	oreRoll      noise.White
	caveOrigin   noise.White
	caveVolcanic noise.White

	caveDirectionNoise *noise.Perlin

	registry  *block.Registry
	templates *block.TemplateLibrary
}

// New builds a Generator for worldSeed using the built-in block registry
// and template library.
func New(worldSeed uint32) *Generator {
	return NewWithRegistry(worldSeed, block.Builtin(), block.BuiltinTemplates())
}

// NewWithRegistry builds a Generator against an explicit registry/template
// library, e.g. for tests that define a minimal block set.
func NewWithRegistry(worldSeed uint32, registry *block.Registry, templates *block.TemplateLibrary) *Generator {
	s := uint64(worldSeed)
	mix := func(tag uint64) uint64 { return fnv1a.HashUint64(s ^ tag) }

	return &Generator{
		seed:        worldSeed,
		humidity:    noise.NewOctaves(mix(tagHumidity), 5, 0.5, 2.0),
		temperature: noise.NewOctaves(mix(tagTemperature), 5, 0.5, 2.0),
		tempJitter:  noise.NewWhite(mix(tagTemperatureJitter)),
		hilliness:   noise.NewOctaves(mix(tagHilliness), 2, 0.5, 2.0),
		oceanness:   noise.NewOctaves(mix(tagOceanness), 3, 0.5, 2.0),
		treeDensity: noise.NewOctaves(mix(tagTreeDensity), 4, 0.5, 2.0),
		heightNoise: noise.NewOctaves(mix(tagHeightNoise), 5, 0.5, 2.0),

		dirtDepth:    noise.NewWhite(mix(tagDirtDepth)),
		oreRoll:      noise.NewWhite(mix(tagOreRoll)),
		caveOrigin:   noise.NewWhite(mix(tagCaveOrigin)),
		caveVolcanic: noise.NewWhite(mix(tagCaveVolcanic)),

		caveDirectionNoise: noise.NewPerlin(mix(tagCaveDirection)),

		registry:  registry,
		templates: templates,
	}
}

// column holds the per-(x,y) quantities §4.2 steps 1-5 compute once and
// reuse across every z in that column.
type column struct {
	humidity      float32
	temperature   float32
	hilliness     float32
	oceanness     float32
	terrainHeight int
	dirtDepth     int
	stoneHeight   int
	sandThickness int
	iceThickness  int
}

func (g *Generator) computeColumn(gx, gy float32) column {
	h := noise.Clamp01(g.humidity.Normalized2(gx, gy, 400))
	temp := noise.Clamp01(g.temperature.Normalized2(gx, gy, 400) + (g.tempJitter.Sample2(int32(gx), int32(gy))-0.5)*0.05)
	hilliness := noise.Clamp01((noise.Smoothstep(g.hilliness.Signed2(gx, gy, 400)) + 1) / 2)
	oceanness := noise.Smoothstep(g.oceanness.Signed2(gx, gy, 1200))

	perlinHeight := g.heightNoise.Signed2(gx, gy, 200)
	if perlinHeight < 0 {
		perlinHeight = -perlinHeight
	}
	terrainHeight := base + int(hilliness*maxHilliness*perlinHeight)

	if oceanness > 0.5 {
		terrainHeight -= oceanFloorDepth
	} else if oceanness > 0 {
		weight := noise.SmoothStart5(oceanness / 0.5)
		terrainHeight -= int(weight * oceanFloorDepth)
	}

	dd := 3
	if g.dirtDepth.Sample2(int32(gx), int32(gy)) >= 0.5 {
		dd = 4
	}

	sandThickness := int(noise.Remap(h, 0, 0.45, 8, 0) + 0.5)
	if sandThickness < 0 {
		sandThickness = 0
	}
	iceThickness := int(noise.Remap(temp, 0, 0.5, 10, 0) + 0.5)
	if iceThickness < 0 {
		iceThickness = 0
	}

	return column{
		humidity:      h,
		temperature:   temp,
		hilliness:     hilliness,
		oceanness:     oceanness,
		terrainHeight: terrainHeight,
		dirtDepth:     dd,
		stoneHeight:   terrainHeight - dd,
		sandThickness: sandThickness,
		iceThickness:  iceThickness,
	}
}

func (g *Generator) blockAt(col column, gx, gy float32, z int) block.Type {
	name := "stone"

	switch {
	case z == col.terrainHeight:
		if col.humidity < 0.45 {
			name = "sand"
		} else if col.humidity < 0.6 && z == seaLevel {
			name = "sand"
		} else {
			name = "grass"
		}
	case z >= col.stoneHeight && z < col.terrainHeight:
		if col.humidity < 0.45 && col.terrainHeight-z <= col.sandThickness {
			name = "sand"
		} else {
			name = "dirt"
		}
	case z < col.stoneHeight:
		r := g.oreRoll.Sample3(int32(gx), int32(z), int32(gy))
		switch {
		case r <= 0.001:
			name = "diamond_ore"
		case r <= 0.006:
			name = "gold_ore"
		case r <= 0.026:
			name = "iron_ore"
		case r <= 0.076:
			name = "coal_ore"
		default:
			name = "stone"
		}
	case z > col.terrainHeight && z <= seaLevel:
		if col.temperature < 0.5 && seaLevel-z <= col.iceThickness {
			name = "ice"
		} else {
			name = "water"
		}
	default:
		return block.Air
	}

	id, ok := g.registry.ByName(name)
	if !ok {
		panic("terrain: block registry missing required name " + name)
	}
	return id
}

// PopulateChunk fills c's block array deterministically from (g.seed,
// c.Coord) alone, then stamps caves and templates. Calling it twice on
// fresh chunks with the same coord yields byte-identical arrays
// (SPEC_FULL.md §8 "Determinism").
func (g *Generator) PopulateChunk(c *chunk.Chunk) {
	cols := make([]column, chunk.SX*chunk.SY)

	for lx := 0; lx < chunk.SX; lx++ {
		for ly := 0; ly < chunk.SY; ly++ {
			gx := float32(c.Coord.X*chunk.SX + lx)
			gy := float32(c.Coord.Y*chunk.SY + ly)
			col := g.computeColumn(gx, gy)
			cols[lx*chunk.SY+ly] = col

			for z := 0; z < chunk.SZ; z++ {
				t := g.blockAt(col, gx, gy, z)
				if t != block.Air {
					c.SetBlock(lx, ly, z, block.Block{Type: t})
				}
			}
		}
	}

	g.stampVegetation(c, cols)
	g.carveCaves(c)

	c.ClearNeedsSaving()
}

// treeNoiseAt samples the tree-density field SPEC_FULL.md §4.2 step 1 names
// (renormalized to [0,1]); step 2's tree/mushroom seed tests are both grid
// maxima of this same field, not a separate per-cell probability roll.
func (g *Generator) treeNoiseAt(gx, gy float32) float32 {
	return noise.Clamp01(g.treeDensity.Normalized2(gx, gy, 500))
}

// isLocalMax reports whether treeNoiseAt(gx,gy) is strictly greater than
// every other sample in the (2*radius+1)x(2*radius+1) neighborhood
// centered on it — the strict-maximum test SPEC_FULL.md §4.2 step 2 uses
// for both the 5x5 tree-seed grid (radius 2) and the 15x15 mushroom-seed
// grid (radius 7).
func (g *Generator) isLocalMax(gx, gy float32, radius int) bool {
	center := g.treeNoiseAt(gx, gy)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.treeNoiseAt(gx+float32(dx), gy+float32(dy)) >= center {
				return false
			}
		}
	}
	return true
}

func (g *Generator) stampVegetation(c *chunk.Chunk, cols []column) {
	for lx := 0; lx < chunk.SX; lx++ {
		for ly := 0; ly < chunk.SY; ly++ {
			gx := float32(c.Coord.X*chunk.SX + lx)
			gy := float32(c.Coord.Y*chunk.SY + ly)
			col := cols[lx*chunk.SY+ly]

			if col.terrainHeight > seaLevel && g.isLocalMax(gx, gy, 2) {
				var name string
				switch {
				case col.humidity < 0.45:
					name = block.TemplateCactus
				case col.temperature < 0.5:
					name = block.TemplateSpruceTree
				default:
					name = block.TemplateOakTree
				}
				g.stamp(c, name, lx, ly, col.terrainHeight+1)
			}

			if col.humidity > 0.6 && g.treeNoiseAt(gx, gy) > 0.5 && g.isLocalMax(gx, gy, 7) {
				g.stamp(c, block.TemplateGiantMushroom, lx, ly, col.terrainHeight)
			}
		}
	}
}

// stamp writes a named template's entries at local (originX, originY,
// originZ), clipping any entry that falls outside this chunk.
func (g *Generator) stamp(c *chunk.Chunk, name string, originX, originY, originZ int) {
	tpl, ok := g.templates.ByName(name)
	if !ok {
		panic("terrain: missing template " + name)
	}
	for _, e := range tpl.Entries {
		x := originX + e.Offset.X
		y := originY + e.Offset.Y
		z := originZ + e.Offset.Z
		if !chunk.InBounds(x, y, z) {
			continue
		}
		id, ok := g.registry.ByName(e.BlockName)
		if !ok {
			panic("terrain: template " + name + " references unknown block " + e.BlockName)
		}
		c.SetBlock(x, y, z, block.Block{Type: id})
	}
}
