package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sgshea/sandengine/internal/core"
	"github.com/sgshea/sandengine/internal/sand"
	"github.com/sgshea/sandengine/internal/stream"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	width := flag.Int("w", 256, "world width in cells")
	height := flag.Int("h", 256, "world height in cells")
	chunksX := flag.Int("chunks-x", 4, "chunk columns")
	chunksY := flag.Int("chunks-y", 4, "chunk rows")
	seed := flag.Int64("seed", 1337, "world seed")
	tps := flag.Int("tps", 30, "simulation ticks per second")
	workers := flag.Int("workers", 0, "worker goroutines (0 = all CPUs)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := NewLogger(*logLevel)

	world, err := sand.NewWorld(sand.Config{
		Width:   *width,
		Height:  *height,
		ChunksX: *chunksX,
		ChunksY: *chunksY,
		Seed:    *seed,
	})
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	exec := core.NewExecutor(*workers)
	broadcaster := stream.NewBroadcaster()
	defer broadcaster.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/ws", broadcaster.Handler())

	srv := &http.Server{Addr: *addr, Handler: mux}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("sand-server listening on %s (%dx%d world, %d tps)", *addr, *width, *height, *tps)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	runLoop(ctx, logger, world, exec, broadcaster, *tps)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
	logger.Infof("sand-server stopped after %d ticks", world.Iteration())
}

// runLoop paces the simulation, applies remote brush strokes between ticks
// and publishes the pixel data of every chunk that changed.
func runLoop(ctx context.Context, logger *Logger, world *sand.World, exec *core.Executor, b *stream.Broadcaster, tps int) {
	pacer := core.NewFixedStep(tps)
	amount := world.ChunkAmount()
	cs := world.ChunkSize()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !pacer.ShouldStep() {
			time.Sleep(time.Millisecond)
			continue
		}

		drainCommands(logger, world, b)
		world.Update(exec)

		tick := world.Iteration()
		for cy := 0; cy < amount.H; cy++ {
			for cx := 0; cx < amount.W; cx++ {
				pos := core.Point{X: cx, Y: cy}
				data, ok := world.ShouldRenderData(pos)
				if !ok {
					continue
				}
				frame := stream.Frame{
					Tick:   tick,
					ChunkX: cx,
					ChunkY: cy,
					Width:  cs.W,
					Height: cs.H,
					Data:   data,
				}
				if err := b.Publish(ctx, frame); err != nil {
					if ctx.Err() != nil {
						return
					}
					logger.Warnf("dropping frame for chunk %v: %v", pos, err)
				}
			}
		}
	}
}

// drainCommands applies every pending remote placement before the next tick.
func drainCommands(logger *Logger, world *sand.World, b *stream.Broadcaster) {
	for {
		select {
		case cmd := <-b.Commands():
			m, ok := sand.MaterialByName(cmd.Material)
			if !ok {
				logger.Debugf("ignoring unknown material %q", cmd.Material)
				continue
			}
			sand.PaintBrush(world, core.Point{X: cmd.X, Y: cmd.Y}, cmd.Amount, m)
		default:
			return
		}
	}
}
