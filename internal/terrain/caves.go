package terrain

import (
	"math/rand"

	"github.com/chewxy/math32"

	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
	"voxelcore/internal/noise"
)

type vec3 struct{ x, y, z float32 }

func (a vec3) sub(b vec3) vec3 { return vec3{a.x - b.x, a.y - b.y, a.z - b.z} }
func (a vec3) add(b vec3) vec3 { return vec3{a.x + b.x, a.y + b.y, a.z + b.z} }
func (a vec3) dot(b vec3) float32 { return a.x*b.x + a.y*b.y + a.z*b.z }
func (a vec3) scale(s float32) vec3 { return vec3{a.x * s, a.y * s, a.z * s} }

type segment struct {
	start, end vec3
	radius     float32
	volcanic   float32
}

// closestPoint returns the nearest point on the segment to p.
func (s segment) closestPoint(p vec3) vec3 {
	d := s.end.sub(s.start)
	denom := d.dot(d)
	if denom == 0 {
		return s.start
	}
	t := p.sub(s.start).dot(d) / denom
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return s.start.add(d.scale(t))
}

func distance(a, b vec3) float32 {
	d := a.sub(b)
	return math32.Sqrt(d.dot(d))
}

// caveSegmentsForOrigin walks N segments of a single cave starting at a
// deterministic per-(ocx,ocy) origin, mirroring SPEC_FULL.md §4.2's
// wanderer: seed an RNG by cx+cy*357239, random origin at
// (lx,ly,lz∈[20,BASE-10]), N∈[10,20] segments of length∈[5,10], yaw drift
// up to ±90° driven by 3-D Perlin, vertical drift ±12.
func (g *Generator) caveSegmentsForOrigin(ocx, ocy int) []segment {
	rngSeed := int64(ocx) + int64(ocy)*357239
	rng := rand.New(rand.NewSource(rngSeed))

	lx := rng.Intn(chunk.SX)
	ly := rng.Intn(chunk.SY)
	lz := 20 + rng.Intn(base-10-20+1)

	pos := vec3{
		x: float32(ocx*chunk.SX + lx),
		y: float32(ocy*chunk.SY + ly),
		z: float32(lz),
	}
	yaw := rng.Float32() * 360

	n := 10 + rng.Intn(caveMaxSegments-10+1)
	segments := make([]segment, 0, n)

	for i := 0; i < n; i++ {
		length := float32(5 + rng.Intn(caveSegmentMaxLength-5+1))
		driftSample := g.caveDirectionNoise.Eval3(pos.x*0.05, pos.y*0.05, pos.z*0.05)
		yaw += driftSample * 90
		vertical := (rng.Float32()*2 - 1) * 12

		radiusSample := noise.Smoothstep(driftSample)
		radius := remapClamped(radiusSample, -0.8, 0.8, 2, 6)

		volcanic := rng.Float32()

		dx := length * cos32(yaw)
		dy := length * sin32(yaw)
		next := vec3{pos.x + dx, pos.y + dy, pos.z + vertical}

		segments = append(segments, segment{start: pos, end: next, radius: radius, volcanic: volcanic})
		pos = next
	}
	return segments
}

func remapClamped(v, inLo, inHi, outLo, outHi float32) float32 {
	if v < inLo {
		v = inLo
	}
	if v > inHi {
		v = inHi
	}
	t := (v - inLo) / (inHi - inLo)
	return outLo + t*(outHi-outLo)
}

func cos32(degrees float32) float32 {
	return math32.Cos(degrees * (3.14159265 / 180))
}

func sin32(degrees float32) float32 {
	return math32.Sin(degrees * (3.14159265 / 180))
}

// carveCaves replaces qualifying blocks with air for every cave segment
// whose capsule might reach into c, walking the CAVE_MAX_CHUNK_RADIUS
// neighborhood of origin chunks in the fixed row-major order
// (ocy outer, ocx inner, both ascending) §4.2/§9 requires for determinism,
// regardless of any map's native iteration order.
func (g *Generator) carveCaves(c *chunk.Chunk) {
	airID := block.Air
	waterID, _ := g.registry.ByName("water")
	iceID, _ := g.registry.ByName("ice")

	chunkMinX := float32(c.Coord.X * chunk.SX)
	chunkMinY := float32(c.Coord.Y * chunk.SY)
	chunkMaxX := chunkMinX + chunk.SX
	chunkMaxY := chunkMinY + chunk.SY
	chunkCenter := vec3{chunkMinX + chunk.SX/2, chunkMinY + chunk.SY/2, float32(chunk.SZ / 2)}

	for ocy := c.Coord.Y - caveMaxChunkRadius; ocy <= c.Coord.Y+caveMaxChunkRadius; ocy++ {
		for ocx := c.Coord.X - caveMaxChunkRadius; ocx <= c.Coord.X+caveMaxChunkRadius; ocx++ {
			if g.caveOrigin.Sample2(int32(ocx), int32(ocy)) >= caveOriginChance {
				continue
			}
			for _, seg := range g.caveSegmentsForOrigin(ocx, ocy) {
				cp := seg.closestPoint(chunkCenter)
				if cp.x < chunkMinX || cp.x >= chunkMaxX || cp.y < chunkMinY || cp.y >= chunkMaxY {
					continue
				}

				for lx := 0; lx < chunk.SX; lx++ {
					for ly := 0; ly < chunk.SY; ly++ {
						for lz := 0; lz < chunk.SZ; lz++ {
							p := vec3{chunkMinX + float32(lx), chunkMinY + float32(ly), float32(lz)}
							if distance(p, seg.closestPoint(p)) > seg.radius {
								continue
							}
							existing := c.Block(lx, ly, lz)
							if existing.Type == waterID || existing.Type == iceID {
								continue
							}
							c.SetBlock(lx, ly, lz, block.Block{Type: airID})
						}
					}
				}

				if seg.volcanic > 0.75 {
					originZ := int(seg.start.z) - caveMaxRadius
					localX := int(seg.start.x) - c.Coord.X*chunk.SX
					localY := int(seg.start.y) - c.Coord.Y*chunk.SY
					g.stamp(c, block.TemplateLavaPit, localX, localY, originZ)
				}
			}
		}
	}
}
