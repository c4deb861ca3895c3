package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/sgshea/sandengine/internal/core"
	"github.com/sgshea/sandengine/internal/sand"
)

func main() {
	width := flag.Int("w", 512, "world width in cells")
	height := flag.Int("h", 512, "world height in cells")
	chunksX := flag.Int("chunks-x", 8, "chunk columns")
	chunksY := flag.Int("chunks-y", 8, "chunk rows")
	seed := flag.Int64("seed", 1337, "world seed")
	ticks := flag.Int("ticks", 600, "ticks to simulate")
	workers := flag.Int("workers", 0, "worker goroutines (0 = all CPUs)")
	profileMode := flag.String("profile", "", "write a profile: cpu or mem")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", *profileMode)
		os.Exit(2)
	}

	cfg := sand.Config{
		Width:   *width,
		Height:  *height,
		ChunksX: *chunksX,
		ChunksY: *chunksY,
		Seed:    *seed,
	}
	world, err := sand.NewWorld(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	exec := core.NewExecutor(*workers)

	// A standing scene that keeps a realistic share of the world active:
	// sand pouring onto a stone shelf with a pool of water beside it.
	shelfY := *height / 4
	for x := *width / 8; x < *width/2; x++ {
		world.SetCellExternal(core.Point{X: x, Y: shelfY}, world.SpawnCell(sand.MaterialStone))
	}
	for y := 0; y < shelfY/2; y++ {
		for x := *width / 2; x < *width*7/8; x++ {
			world.SetCellExternal(core.Point{X: x, Y: y}, world.SpawnCell(sand.MaterialWater))
		}
	}

	fmt.Printf("sand-bench: %dx%d world, %dx%d chunks, %d workers, %d ticks\n",
		cfg.Width, cfg.Height, cfg.ChunksX, cfg.ChunksY, exec.Workers(), *ticks)

	pourX := *width / 4
	start := time.Now()
	for tick := 0; tick < *ticks; tick++ {
		// Keep feeding grains so the world never fully settles.
		if tick%2 == 0 {
			sand.PaintBrush(world, core.Point{X: pourX, Y: *height - 4}, 6, sand.MaterialSand)
		}
		world.Update(exec)
	}
	elapsed := time.Since(start)

	cells := cfg.Width * cfg.Height
	perTick := elapsed / time.Duration(*ticks)
	fmt.Printf("simulated %d ticks in %s (%s/tick, %.1f ticks/s, %d cells)\n",
		*ticks, elapsed.Round(time.Millisecond), perTick.Round(time.Microsecond),
		float64(*ticks)/elapsed.Seconds(), cells)
}
