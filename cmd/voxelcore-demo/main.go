// Command voxelcore-demo drives the chunk pipeline headlessly: no window,
// no GPU, just the per-tick activation loop from a fixed spawn point,
// logging profiling breakdowns the way mini-mc's HUD does, until
// interrupted. It exists to exercise internal/pipeline end to end without
// a renderer collaborator.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/xlab/closer"

	"voxelcore/internal/block"
	"voxelcore/internal/config"
	"voxelcore/internal/pipeline"
	"voxelcore/internal/profiling"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config overlay (optional)")
	seed := flag.Uint64("seed", 0, "world seed")
	ticks := flag.Int("ticks", 0, "stop after this many ticks (0 = run until interrupted)")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("voxelcore-demo: %v", err)
		}
		cfg = loaded
	}
	cfg.SetWorldSeed(uint32(*seed))

	registry := block.Builtin()
	world := pipeline.New(cfg, registry)
	closer.Bind(world.Close)

	spawnX, spawnY := 0.0, 0.0
	log.Printf("voxelcore-demo: seed=%d activationDistance=%.0f", cfg.WorldSeed(), cfg.ActivationDistance())

	if *ticks > 0 {
		runFixed(world, spawnX, spawnY, *ticks)
		closer.Close()
		return
	}

	go runForever(world, spawnX, spawnY)
	closer.Hold() // blocks until SIGINT/SIGTERM, then runs world.Close and exits
}

// runFixed ticks the pipeline a fixed number of times, for smoke-testing a
// build without waiting on a signal.
func runFixed(world *pipeline.World, x, y float64, ticks int) {
	for i := 0; i < ticks; i++ {
		profiling.ResetFrame()
		world.Tick(x, y)
	}
	log.Printf("voxelcore-demo: ran %d ticks; %s", ticks, profiling.TopN(5))
}

// runForever ticks the pipeline once per frame period, reporting a
// profiling breakdown every second, until the process is signaled and
// closer.Hold tears it down from main.
func runForever(world *pipeline.World, x, y float64) {
	const frame = 50 * time.Millisecond
	report := time.NewTicker(time.Second)
	defer report.Stop()

	go func() {
		for range report.C {
			fmt.Println("voxelcore-demo:", profiling.TopN(5))
		}
	}()

	for {
		profiling.ResetFrame()
		world.Tick(x, y)
		time.Sleep(frame)
	}
}
