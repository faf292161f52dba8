package pipeline

import (
	"runtime"
	"sync"

	"voxelcore/internal/chunk"
	"voxelcore/internal/terrain"
)

// workerPool runs chunk generation jobs on a fixed pool of
// hardware_concurrency-1 workers, the shape dantero-ps-mini-mc-go's
// internal/world/chunk_streamer.go uses (jobs channel, worker goroutines
// sized off runtime.NumCPU), generalized to report completions back
// through a channel the main thread polls rather than writing straight
// into a shared store, per SPEC_FULL.md §5 ("main thread never blocks on
// workers; polls the pool's completed queue").
type workerPool struct {
	gen *terrain.Generator

	jobs      chan *chunk.Chunk
	completed chan *chunk.Chunk

	wg sync.WaitGroup
}

func newWorkerPool(gen *terrain.Generator) *workerPool {
	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}

	p := &workerPool{
		gen:       gen,
		jobs:      make(chan *chunk.Chunk, 4096),
		completed: make(chan *chunk.Chunk, 4096),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for c := range p.jobs {
		c.Store(chunk.Generating)
		p.gen.PopulateChunk(c)
		c.Store(chunk.Completed)
		p.completed <- c
	}
}

// submit enqueues c for generation. c must already be in the Queued state.
func (p *workerPool) submit(c *chunk.Chunk) {
	p.jobs <- c
}

// harvest drains every currently-ready completion without blocking.
func (p *workerPool) harvest() []*chunk.Chunk {
	var out []*chunk.Chunk
	for {
		select {
		case c := <-p.completed:
			out = append(out, c)
		default:
			return out
		}
	}
}

// shutdown closes the job channel and waits for in-flight jobs to finish;
// their results are discarded (SPEC_FULL.md §5 "in-flight jobs are allowed
// to finish and their chunks are discarded").
func (p *workerPool) shutdown() {
	close(p.jobs)
	p.wg.Wait()
	close(p.completed)
}
