// Package pipeline is the chunk activation pipeline: the per-frame loop
// that decides which chunks to generate, load, mesh, and retire as the
// player moves, and the dig/place entry points an input collaborator
// drives. Grounded on dantero-ps-mini-mc-go's internal/world/world.go
// (component composition: store + generator + streamer) and
// internal/world/chunk_store.go (radius queries, double-checked chunk
// lookups), generalized from that file's always-resident ChunkStore into
// the queued/active two-map model SPEC_FULL.md §3/§4.1 specifies.
package pipeline

import (
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/block"
	"voxelcore/internal/chunk"
	"voxelcore/internal/config"
	"voxelcore/internal/light"
	"voxelcore/internal/mesh"
	"voxelcore/internal/profiling"
	"voxelcore/internal/raycast"
	"voxelcore/internal/terrain"
)

// World owns the queued/active chunk maps, the generation worker pool, the
// lighting engine, and the mesh builder — the whole per-frame activation
// loop in one place, the way internal/world.World composes its
// sub-systems in the teacher.
type World struct {
	cfg      *config.Blackboard
	registry *block.Registry

	gen    *terrain.Generator
	pool   *workerPool
	lights *light.Engine
	mesher *mesh.Builder

	queued map[chunk.Coord]*chunk.Chunk
	active map[chunk.Coord]*chunk.Chunk

	// Uploader receives every rebuilt chunk's vertex list. Left nil in
	// headless contexts (tests, the demo command without a window), in
	// which case rebuilds run against a no-op uploader.
	Uploader mesh.GPUUploader

	// lockedOrigin/lockedDirection freeze Dig/Place's ray to a past camera
	// position (SPEC_FULL.md §9A "raycast lock toggle"); nil means "use the
	// live camera" the caller passes in.
	lockedOrigin    *mgl32.Vec3
	lockedDirection *mgl32.Vec3
}

// New builds a pipeline World against the given configuration blackboard
// and block registry, starting its generation worker pool immediately.
func New(cfg *config.Blackboard, registry *block.Registry) *World {
	gen := terrain.NewWithRegistry(cfg.WorldSeed(), registry, block.BuiltinTemplates())
	w := &World{
		cfg:      cfg,
		registry: registry,
		gen:      gen,
		pool:     newWorkerPool(gen),
		lights:   light.New(registry),
		mesher:   mesh.NewBuilder(registry, cfg.HiddenSurfaceRemoval()),
		queued:   make(map[chunk.Coord]*chunk.Chunk),
		active:   make(map[chunk.Coord]*chunk.Chunk),
	}
	return w
}

// maxChunks bounds |queued|+|active| per SPEC_FULL.md §4.1:
// "≈ 4·⌈R_a/SX⌉·⌈R_a/SY⌉".
func (w *World) maxChunks() int {
	ra := w.cfg.ActivationDistance()
	cx := int(ra)/chunk.SX + 1
	cy := int(ra)/chunk.SY + 1
	return 4 * cx * cy
}

func (w *World) deactivationRadius() float64 {
	return w.cfg.ActivationDistance() + chunk.SX + chunk.SY
}

// Tick runs one pass of the per-frame loop from SPEC_FULL.md §4.1, centered
// on playerX,playerY (world XY).
func (w *World) Tick(playerX, playerY float64) {
	defer profiling.Track("pipeline.Tick")()

	w.harvestCompletedJobs()
	w.fillMissingChunks(playerX, playerY)
	w.evictFarChunks(playerX, playerY)
	w.lights.Drain()
	w.rebuildDirtyMeshes()
}

func (w *World) harvestCompletedJobs() {
	defer profiling.Track("pipeline.harvestCompletedJobs")()
	for _, c := range w.pool.harvest() {
		w.ActivateChunk(c.Coord, c)
	}
}

func (w *World) fillMissingChunks(playerX, playerY float64) {
	defer profiling.Track("pipeline.fillMissingChunks")()
	max := w.maxChunks()
	ra := w.cfg.ActivationDistance()

	for len(w.queued)+len(w.active) < max {
		coord, found := w.nearestMissingChunk(playerX, playerY, ra)
		if !found {
			return
		}

		root, err := w.cfg.SavesRoot()
		if err == nil {
			loaded, loadErr := chunk.Load(root, w.cfg.WorldSeed(), coord)
			switch {
			case loadErr == nil:
				w.ActivateChunk(coord, loaded)
				continue
			case os.IsNotExist(loadErr), loadErr == chunk.ErrSeedMismatch:
				// normal: fall through to generation
			default:
				log.Printf("pipeline: load %v: %v (regenerating)", coord, loadErr)
			}
		}

		c := chunk.New(coord, w.cfg.WorldSeed())
		w.queued[coord] = c
		w.pool.submit(c)
	}
}

// nearestMissingChunk finds the chunk coord within ra of (playerX,playerY)
// that is neither queued nor active, tie-breaking by squared distance to
// the chunk's min-corner (SPEC_FULL.md §4.1 step 2).
func (w *World) nearestMissingChunk(playerX, playerY, ra float64) (chunk.Coord, bool) {
	reachX := int(ra)/chunk.SX + 1
	reachY := int(ra)/chunk.SY + 1
	pcx := floorDivF(playerX, chunk.SX)
	pcy := floorDivF(playerY, chunk.SY)

	best := chunk.Coord{}
	bestDist := -1.0
	found := false

	for dy := -reachY; dy <= reachY; dy++ {
		for dx := -reachX; dx <= reachX; dx++ {
			coord := chunk.Coord{X: pcx + dx, Y: pcy + dy}
			if _, ok := w.queued[coord]; ok {
				continue
			}
			if _, ok := w.active[coord]; ok {
				continue
			}
			minX := float64(coord.X * chunk.SX)
			minY := float64(coord.Y * chunk.SY)
			if !aabbWithinRadius(minX, minY, chunk.SX, chunk.SY, playerX, playerY, ra) {
				continue
			}
			ddx := playerX - minX
			ddy := playerY - minY
			d := ddx*ddx + ddy*ddy
			if !found || d < bestDist {
				best, bestDist, found = coord, d, true
			}
		}
	}
	return best, found
}

func aabbWithinRadius(minX, minY float64, sx, sy int, px, py, r float64) bool {
	maxX := minX + float64(sx)
	maxY := minY + float64(sy)
	cx := clampF(px, minX, maxX)
	cy := clampF(py, minY, maxY)
	dx := px - cx
	dy := py - cy
	return dx*dx+dy*dy <= r*r
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorDivF(v float64, size int) int {
	return int(v) / size // player position is assumed non-negative in chunk-grid-relative space; callers offset as needed
}

func (w *World) evictFarChunks(playerX, playerY float64) {
	defer profiling.Track("pipeline.evictFarChunks")()
	rd := w.deactivationRadius()

	var farthest chunk.Coord
	farthestDist := -1.0
	found := false
	for coord := range w.active {
		cx := float64(coord.X*chunk.SX) + chunk.SX/2
		cy := float64(coord.Y*chunk.SY) + chunk.SY/2
		dx := playerX - cx
		dy := playerY - cy
		d := dx*dx + dy*dy
		if d <= rd*rd {
			continue
		}
		if !found || d > farthestDist {
			farthest, farthestDist, found = coord, d, true
		}
	}
	if found {
		w.DeactivateChunk(farthest)
	}
}

func (w *World) rebuildDirtyMeshes() {
	defer profiling.Track("pipeline.rebuildDirtyMeshes")()
	for _, c := range w.active {
		if c.MeshDirty() && c.HasAllHorizontalNeighbors() {
			w.mesher.Rebuild(c, w.uploaderOrDefault())
		}
	}
}

// noopUploader is used when World.Uploader is nil: a no-op that keeps the
// chunk's GPU handle unchanged.
var noopUploader mesh.GPUUploader = noopUpload{}

type noopUpload struct{}

func (noopUpload) Upload(handle int, vertices []mesh.Vertex) int { return handle }

func (w *World) uploaderOrDefault() mesh.GPUUploader {
	if w.Uploader != nil {
		return w.Uploader
	}
	return noopUploader
}

// ActivateChunk moves c from queued to active, wires neighbors, and
// performs the initial sky-light scan, following the exact step order in
// SPEC_FULL.md §4.1.
func (w *World) ActivateChunk(coord chunk.Coord, c *chunk.Chunk) {
	defer profiling.Track("pipeline.ActivateChunk")()

	delete(w.queued, coord)
	w.active[coord] = c
	c.Store(chunk.Activated)

	if e, ok := w.active[chunk.Coord{X: coord.X + 1, Y: coord.Y}]; ok {
		chunk.WireEastWest(c, e)
	}
	if west, ok := w.active[chunk.Coord{X: coord.X - 1, Y: coord.Y}]; ok {
		chunk.WireEastWest(west, c)
	}
	if n, ok := w.active[chunk.Coord{X: coord.X, Y: coord.Y + 1}]; ok {
		chunk.WireNorthSouth(c, n)
	}
	if s, ok := w.active[chunk.Coord{X: coord.X, Y: coord.Y - 1}]; ok {
		chunk.WireNorthSouth(s, c)
	}

	w.scanSkyAndEnqueueInitialDirty(c)
}

func (w *World) scanSkyAndEnqueueInitialDirty(c *chunk.Chunk) {
	for x := 0; x < chunk.SX; x++ {
		for y := 0; y < chunk.SY; y++ {
			sky := true
			for z := chunk.SZ - 1; z >= 0; z-- {
				it := chunk.At(c, x, y, z)
				if sky && w.registry.ByID(it.Block().Type).IsOpaque {
					sky = false
				}
				it.SetSky(sky)
			}
			for z := chunk.SZ - 1; z >= 0; z-- {
				it := chunk.At(c, x, y, z)
				if !it.Block().IsSky() {
					break
				}
				w.lights.Enqueue(it)
				for _, n := range [4]chunk.Iterator{it.East(), it.West(), it.North(), it.South()} {
					if n.Valid() && !w.registry.ByID(n.Block().Type).IsOpaque && !n.Block().IsSky() {
						w.lights.Enqueue(n)
					}
				}
			}
		}
	}

	for x := 0; x < chunk.SX; x++ {
		for y := 0; y < chunk.SY; y++ {
			if x != 0 && x != chunk.SX-1 && y != 0 && y != chunk.SY-1 {
				continue
			}
			for z := 0; z < chunk.SZ; z++ {
				it := chunk.At(c, x, y, z)
				if !w.registry.ByID(it.Block().Type).IsOpaque {
					w.lights.Enqueue(it)
				}
			}
		}
	}

	for x := 0; x < chunk.SX; x++ {
		for y := 0; y < chunk.SY; y++ {
			for z := 0; z < chunk.SZ; z++ {
				it := chunk.At(c, x, y, z)
				if w.registry.ByID(it.Block().Type).LightEmission > 0 {
					w.lights.Enqueue(it)
				}
			}
		}
	}
}

// DeactivateChunk unwires, optionally saves, and drops an active chunk.
func (w *World) DeactivateChunk(coord chunk.Coord) {
	defer profiling.Track("pipeline.DeactivateChunk")()

	c, ok := w.active[coord]
	if !ok {
		return
	}
	delete(w.active, coord)
	w.lights.Purge(c)
	c.UnwireNeighbors()

	if c.NeedsSaving() {
		root, err := w.cfg.SavesRoot()
		if err != nil {
			log.Printf("pipeline: resolve saves root for %v: %v", coord, err)
		} else if err := c.Save(root); err != nil {
			log.Printf("pipeline: save %v: %v", coord, err)
		}
	}
}

// Dig removes the block hit by a raycast from origin along direction (or
// the locked ray, if one is set), applying the sky-side-effect rule.
func (w *World) Dig(startChunk *chunk.Chunk, origin, direction mgl32.Vec3, maxDistance float32) bool {
	origin, direction = w.resolveRay(origin, direction)
	hit := raycast.Cast(w.registry, startChunk, origin, direction, maxDistance)
	if !hit.DidHit || !hit.Iter.Valid() {
		return false
	}
	hit.Iter.Set(block.NewAir())
	w.lights.DigSideEffects(hit.Iter)
	return true
}

// Place inserts selectedBlock at the face-adjacent neighbor of the raycast
// hit (or the locked ray, if one is set), applying the sky-side-effect rule.
func (w *World) Place(startChunk *chunk.Chunk, origin, direction mgl32.Vec3, maxDistance float32, placeType block.Type) bool {
	origin, direction = w.resolveRay(origin, direction)
	hit := raycast.Cast(w.registry, startChunk, origin, direction, maxDistance)
	if !hit.DidHit {
		return false
	}
	target := neighborForNormal(hit.Iter, hit.Normal)
	if !target.Valid() {
		return false
	}
	target.Set(block.Block{Type: placeType})
	if w.registry.ByID(placeType).IsOpaque {
		w.lights.PlaceSideEffects(target)
	} else {
		w.lights.Enqueue(target)
	}
	return true
}

// resolveRay returns the locked origin/direction if a lock is set, else
// the live values the caller passed in.
func (w *World) resolveRay(origin, direction mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if w.lockedOrigin != nil && w.lockedDirection != nil {
		return *w.lockedOrigin, *w.lockedDirection
	}
	return origin, direction
}

func neighborForNormal(it chunk.Iterator, n raycast.Normal) chunk.Iterator {
	switch n {
	case raycast.NormalPosX:
		return it.East()
	case raycast.NormalNegX:
		return it.West()
	case raycast.NormalPosY:
		return it.Up()
	case raycast.NormalNegY:
		return it.Down()
	case raycast.NormalPosZ:
		return it.North()
	case raycast.NormalNegZ:
		return it.South()
	default:
		return chunk.Iterator{}
	}
}

// SetWorldSeed implements the world-seed increment/reset action
// (SPEC_FULL.md §9A): deactivates every chunk, bumps the seed, and lets the
// pipeline repopulate from scratch around the current player position.
func (w *World) SetWorldSeed(seed uint32) {
	w.DeactivateAllChunks()
	w.cfg.SetWorldSeed(seed)
	w.gen = terrain.NewWithRegistry(seed, w.registry, block.BuiltinTemplates())
	w.pool.shutdown()
	w.pool = newWorkerPool(w.gen)
}

// DeactivateAllChunks saves every modified chunk and destroys it, then
// clears both maps (SPEC_FULL.md §5 "Cancellation / teardown").
func (w *World) DeactivateAllChunks() {
	for coord := range w.active {
		w.DeactivateChunk(coord)
	}
	w.queued = make(map[chunk.Coord]*chunk.Chunk)
}

// Close shuts down the generation worker pool. Register this with
// xlab/closer in the demo command for clean save-and-exit on Ctrl-C.
func (w *World) Close() {
	w.DeactivateAllChunks()
	w.pool.shutdown()
}

// RaycastLocked reports whether a frozen origin/direction is currently set
// (SPEC_FULL.md §6 action list "toggle raycast lock").
func (w *World) RaycastLocked() bool {
	return w.lockedOrigin != nil && w.lockedDirection != nil
}

// ToggleRaycastLock freezes Dig/Place's ray to (origin, direction) if
// currently unlocked, or releases it back to the live camera the caller
// passes in if currently locked.
func (w *World) ToggleRaycastLock(origin, direction mgl32.Vec3) {
	if w.RaycastLocked() {
		w.lockedOrigin, w.lockedDirection = nil, nil
		return
	}
	o, d := origin, direction
	w.lockedOrigin, w.lockedDirection = &o, &d
}
