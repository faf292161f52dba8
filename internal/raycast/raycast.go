// Package raycast implements the Amanatides-Woo grid walker used for dig
// and place targeting. dantero-ps-mini-mc-go's internal/physics/raycast.go
// steps along the ray in fixed-size increments rather than voxel-to-voxel,
// so it is not a grounding source for the algorithm itself — only for the
// shape of its Hit result struct, which this package keeps. The voxel walk
// instead follows the classic Amanatides & Woo formulation, adapted to
// advance via chunk.Iterator so seam crossings use neighbor back-pointers
// rather than recomputing a chunk lookup every step.
package raycast

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
)

// Normal identifies which face of the hit block was struck.
type Normal int

const (
	NormalNone Normal = iota
	NormalPosX
	NormalNegX
	NormalPosY
	NormalNegY
	NormalPosZ
	NormalNegZ
)

// Hit is the result of a Cast call.
type Hit struct {
	DidHit bool
	Dist   float32
	Pos    mgl32.Vec3
	Normal Normal
	Iter   chunk.Iterator
}

func sign(v float32) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func normalFor(axis int, step int) Normal {
	switch {
	case axis == 0 && step > 0:
		return NormalNegX
	case axis == 0 && step < 0:
		return NormalPosX
	case axis == 1 && step > 0:
		return NormalNegY
	case axis == 1 && step < 0:
		return NormalPosY
	case axis == 2 && step > 0:
		return NormalNegZ
	case axis == 2 && step < 0:
		return NormalPosZ
	default:
		return NormalNone
	}
}

// Cast walks from origin along direction (need not be pre-normalized; it is
// normalized internally) up to maxDistance, starting inside startChunk at
// the voxel containing origin. registry resolves block.Type to isSolid.
//
// Termination, in priority order (SPEC_FULL.md §4.4):
//  1. origin voxel solid -> hit at dist 0.
//  2. stepping into an unwired (inactive) chunk -> miss.
//  3. tMax exceeds maxDistance -> miss.
//  4. next voxel solid -> hit at tMax.
func Cast(registry *block.Registry, startChunk *chunk.Chunk, origin, direction mgl32.Vec3, maxDistance float32) Hit {
	dir := direction.Normalize()

	worldX := int(math32.Floor(origin.X()))
	worldY := int(math32.Floor(origin.Z())) // chunk Y axis maps to world Z (horizontal depth)
	worldZ := int(math32.Floor(origin.Y())) // chunk Z axis maps to world Y (vertical)

	cx := floorDiv(worldX, chunk.SX)
	cy := floorDiv(worldY, chunk.SY)
	lx := worldX - cx*chunk.SX
	ly := worldY - cy*chunk.SY
	lz := worldZ

	c := startChunk
	if c == nil || c.Coord.X != cx || c.Coord.Y != cy {
		return Hit{}
	}
	it := chunk.At(c, lx, ly, lz)
	if !it.Valid() {
		return Hit{}
	}

	isSolid := func(it chunk.Iterator) bool {
		if !it.Valid() {
			return false
		}
		return registry.ByID(it.Block().Type).IsSolid
	}

	if isSolid(it) {
		return Hit{DidHit: true, Dist: 0, Pos: origin, Normal: NormalNone, Iter: it}
	}

	stepX, stepY, stepZ := sign(dir.X()), sign(dir.Y()), sign(dir.Z())

	tMaxX := axisTMax(origin.X(), dir.X(), stepX)
	tMaxY := axisTMax(origin.Y(), dir.Y(), stepY)
	tMaxZ := axisTMax(origin.Z(), dir.Z(), stepZ)

	tDeltaX := axisTDelta(dir.X())
	tDeltaY := axisTDelta(dir.Y())
	tDeltaZ := axisTDelta(dir.Z())

	for {
		var axis int
		var tMax float32
		switch {
		case tMaxX <= tMaxY && tMaxX <= tMaxZ:
			axis, tMax = 0, tMaxX
		case tMaxY <= tMaxZ:
			axis, tMax = 1, tMaxY
		default:
			axis, tMax = 2, tMaxZ
		}

		if tMax > maxDistance {
			return Hit{}
		}

		var next chunk.Iterator
		var stepDir int
		switch axis {
		case 0: // world X -> chunk local X
			stepDir = stepX
			if stepX > 0 {
				next = it.East()
			} else {
				next = it.West()
			}
			tMaxX += tDeltaX
		case 1: // world Y (vertical) -> chunk local Z
			stepDir = stepY
			if stepY > 0 {
				next = it.Up()
			} else {
				next = it.Down()
			}
			tMaxY += tDeltaY
		default: // world Z (depth) -> chunk local Y
			stepDir = stepZ
			if stepZ > 0 {
				next = it.North()
			} else {
				next = it.South()
			}
			tMaxZ += tDeltaZ
		}

		if !next.Valid() {
			return Hit{}
		}

		it = next
		if isSolid(it) {
			hitPos := origin.Add(dir.Mul(tMax))
			return Hit{DidHit: true, Dist: tMax, Pos: hitPos, Normal: normalFor(axis, stepDir), Iter: it}
		}
	}
}

func axisTMax(originComp, dirComp float32, step int) float32 {
	if step == 0 {
		return math32.Inf(1)
	}
	if step > 0 {
		frac := originComp - math32.Floor(originComp)
		return (1 - frac) / math32.Abs(dirComp)
	}
	frac := originComp - math32.Floor(originComp)
	return frac / math32.Abs(dirComp)
}

func axisTDelta(dirComp float32) float32 {
	if dirComp == 0 {
		return math32.Inf(1)
	}
	return 1 / math32.Abs(dirComp)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
