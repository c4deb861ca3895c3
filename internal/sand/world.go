package sand

import (
	"sync"

	"github.com/sgshea/sandengine/internal/core"
)

// World owns the full chunk grid and orchestrates the tick: neighborhood
// construction, checkerboard phase dispatch, and the single-threaded merge
// of dirty-region updates afterwards.
type World struct {
	worldSize   core.Size
	chunkSize   core.Size
	chunkAmount core.Size

	chunks map[core.Point]*Chunk

	// iteration only feeds cosmetic alternation (phase shuffling, RNG
	// stream derivation); it carries no correctness weight.
	iteration uint64
	seed      int64
	rng       *core.RNG
}

// NewWorld validates the configuration and allocates every chunk up front.
// Chunks are never reallocated afterwards.
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		worldSize:   core.Size{W: cfg.Width, H: cfg.Height},
		chunkSize:   core.Size{W: cfg.Width / cfg.ChunksX, H: cfg.Height / cfg.ChunksY},
		chunkAmount: core.Size{W: cfg.ChunksX, H: cfg.ChunksY},
		chunks:      make(map[core.Point]*Chunk, cfg.ChunksX*cfg.ChunksY),
		seed:        cfg.Seed,
		rng:         core.NewRNG(cfg.Seed),
	}
	for x := 0; x < cfg.ChunksX; x++ {
		for y := 0; y < cfg.ChunksY; y++ {
			pos := core.Point{X: x, Y: y}
			w.chunks[pos] = NewChunk(w.chunkSize, pos)
		}
	}
	return w, nil
}

// Size returns the world dimensions in cells.
func (w *World) Size() core.Size { return w.worldSize }

// ChunkSize returns the per-chunk dimensions in cells.
func (w *World) ChunkSize() core.Size { return w.chunkSize }

// ChunkAmount returns the chunk grid dimensions.
func (w *World) ChunkAmount() core.Size { return w.chunkAmount }

// Iteration returns the number of completed ticks.
func (w *World) Iteration() uint64 { return w.iteration }

// CellToChunk maps a world cell position to its chunk coordinate using
// floor semantics, so coordinates just past an edge resolve off-grid rather
// than wrapping.
func (w *World) CellToChunk(p core.Point) core.Point {
	return core.Point{
		X: core.FloorDiv(p.X, w.chunkSize.W),
		Y: core.FloorDiv(p.Y, w.chunkSize.H),
	}
}

// CellToLocal maps a world cell position to its chunk-local coordinate.
func (w *World) CellToLocal(p core.Point) core.Point {
	return core.Point{
		X: core.FloorMod(p.X, w.chunkSize.W),
		Y: core.FloorMod(p.Y, w.chunkSize.H),
	}
}

// ChunkAt returns the chunk at a chunk coordinate, or nil outside the grid.
func (w *World) ChunkAt(pos core.Point) *Chunk { return w.chunks[pos] }

// Chunks returns every chunk. Iteration order is unspecified.
func (w *World) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(w.chunks))
	for _, ch := range w.chunks {
		out = append(out, ch)
	}
	return out
}

// GetCell reads a cell by world coordinate. Out-of-grid positions are a
// normal absent case, never a fault.
func (w *World) GetCell(p core.Point) (Cell, bool) {
	ch := w.chunks[w.CellToChunk(p)]
	if ch == nil {
		return Cell{}, false
	}
	return ch.CellAt(w.CellToLocal(p)), true
}

// SetCellExternal places a cell from outside the simulation (interaction,
// rigid-body stamping). Out-of-grid positions no-op silently; in-grid writes
// arm a short render override so the cell is guaranteed to be drawn even if
// the automaton immediately settles.
func (w *World) SetCellExternal(p core.Point, cell Cell) {
	ch := w.chunks[w.CellToChunk(p)]
	if ch == nil {
		return
	}
	local := w.CellToLocal(p)
	ch.SetCell(local.X, local.Y, cell)
	ch.MarkRenderOverride(renderOverrideTicks)
	// Immediate feedback even when the simulation is paused.
	ch.renderDirty = true
}

// SpawnCell builds a cell of the given material using the world's RNG for
// color jitter. Not safe to call concurrently with Update.
func (w *World) SpawnCell(m Material) Cell {
	if m == MaterialEmpty {
		return EmptyCell()
	}
	return NewCell(m, w.rng)
}

// CellInsideDirty reports whether the world position sits inside its
// chunk's current dirty rectangle (debug overlays).
func (w *World) CellInsideDirty(p core.Point) bool {
	ch := w.chunks[w.CellToChunk(p)]
	if ch == nil {
		return false
	}
	return ch.DirtyRect().Contains(w.CellToLocal(p))
}

// ChunkDirtyRect pairs a chunk coordinate with its current dirty rectangle.
type ChunkDirtyRect struct {
	Position core.Point
	Rect     core.BoundRect
}

// ChunkDirtyRects snapshots every chunk's dirty rectangle (debug overlays).
func (w *World) ChunkDirtyRects() []ChunkDirtyRect {
	out := make([]ChunkDirtyRect, 0, len(w.chunks))
	for pos, ch := range w.chunks {
		out = append(out, ChunkDirtyRect{Position: pos, Rect: ch.DirtyRect()})
	}
	return out
}

// ShouldRenderData returns the chunk's flattened RGBA buffer only when the
// chunk changed this tick or a render override is still counting down, so
// callers skip re-uploading textures for quiet chunks.
func (w *World) ShouldRenderData(pos core.Point) ([]byte, bool) {
	ch := w.chunks[pos]
	if ch == nil || !ch.renderDirty {
		return nil, false
	}
	return ch.RenderData(), true
}

// phaseSelects is the checkerboard membership predicate: within one phase no
// two selected chunks are adjacent (Chebyshev distance >= 2), so their 3x3
// neighborhoods never share a center and border writes cannot collide.
func phaseSelects(pos, phase core.Point) bool {
	return core.FloorMod(pos.X+phase.X, 2) == 0 && core.FloorMod(pos.Y+phase.Y, 2) == 0
}

// buildContext assembles the 3x3 neighborhood view for one center chunk.
// The per-neighborhood RNG is derived from the world seed, the tick, and
// the chunk coordinate so tasks share no mutable state.
func (w *World) buildContext(pos core.Point) *simulationContext {
	ctx := &simulationContext{
		center: pos,
		size:   w.chunkSize,
		rng:    core.NewStreamRNG(uint64(w.seed), w.iteration*0x9E3779B9+uint64(pos.X)*0x85EBCA77+uint64(pos.Y)*0xC2B2AE3D),
	}
	for i, dir := range core.Directions {
		ctx.chunks[i] = w.chunks[pos.Add(dir)]
	}
	return ctx
}

// Update advances the world one tick. The four checkerboard phases run
// strictly in sequence (shuffled order per tick to avoid directional bias);
// chunks within a phase run fully in parallel on the executor. A tick
// always runs to completion.
func (w *World) Update(exec *core.Executor) {
	for _, ch := range w.chunks {
		ch.ResetUpdated()
	}

	phases := []core.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	w.rng.Shuffle(len(phases), func(i, j int) { phases[i], phases[j] = phases[j], phases[i] })

	// Write positions per chunk, collected from every neighborhood task
	// and folded into the authoritative rects only after all phases join.
	updates := make(map[core.Point][]core.Point)
	simulated := make(map[core.Point]bool)
	var mu sync.Mutex

	for _, phase := range phases {
		var tasks []func()
		for pos, ch := range w.chunks {
			if !phaseSelects(pos, phase) || !ch.ShouldUpdate() {
				continue
			}
			simulated[pos] = true
			ctx := w.buildContext(pos)
			tasks = append(tasks, func() {
				result := ctx.simulate()
				mu.Lock()
				for slot, pts := range result {
					if len(pts) == 0 {
						continue
					}
					cpos := ctx.center.Add(core.Directions[slot])
					updates[cpos] = append(updates[cpos], pts...)
				}
				mu.Unlock()
			})
		}
		exec.Run(tasks)
	}

	w.mergeDirtyRects(updates, simulated)
	w.iteration++
}

// mergeDirtyRects folds the tick's write positions into each chunk's rects.
// Simulated chunks swap their scanned rect into the settle slot and rebuild
// the current rect precisely from this tick's writes; chunks that only
// received border writes grow their pending rect instead.
func (w *World) mergeDirtyRects(updates map[core.Point][]core.Point, simulated map[core.Point]bool) {
	for pos, ch := range w.chunks {
		pts, wrote := updates[pos]
		switch {
		case simulated[pos]:
			ch.SwapRects()
			ch.ConstructDirtyRect(pts)
		case wrote:
			ch.UnionDirtyRect(pts)
		}
		ch.renderDirty = wrote || simulated[pos] || ch.renderOverride > 0
		if ch.renderOverride > 0 {
			ch.renderOverride--
		}
	}
}
