package sand

import "github.com/sgshea/sandengine/internal/core"

// renderOverrideTicks is how many ticks a chunk keeps rendering after an
// external write, so painted cells show up even when the automaton decides
// nothing needs to move.
const renderOverrideTicks = 3

// Chunk is a fixed-size tile of cells with dirty-rectangle bookkeeping. The
// world allocates every chunk once at construction; afterwards only cell
// contents and the rectangles mutate.
type Chunk struct {
	// Position is the chunk's coordinate on the chunk grid, not a world
	// cell coordinate.
	Position core.Point
	Size     core.Size

	cells []Cell

	// current covers every cell written during the most recent pass; it
	// may be a conservative superset but never a subset. previous holds
	// last tick's rect, granting a one-tick settle pass after a region
	// goes quiet.
	current  core.BoundRect
	previous core.BoundRect

	renderOverride int
	renderDirty    bool
}

// NewChunk allocates an all-empty chunk. The dirty rect starts at the full
// extent so the very first tick scans everything.
func NewChunk(size core.Size, position core.Point) *Chunk {
	return &Chunk{
		Position: position,
		Size:     size,
		cells:    make([]Cell, size.W*size.H),
		current: core.BoundRect{
			Min: core.Point{X: 0, Y: 0},
			Max: core.Point{X: size.W - 1, Y: size.H - 1},
		},
		previous:    core.EmptyRect(),
		renderDirty: true,
	}
}

// Index maps local coordinates to the row-major cell index. Callers must
// keep x and y inside the chunk; out-of-range values are a programming
// error, not a recoverable condition.
func (c *Chunk) Index(x, y int) int { return y*c.Size.W + x }

// InBounds reports whether the local coordinate lies inside the chunk.
func (c *Chunk) InBounds(x, y int) bool {
	return x >= 0 && x < c.Size.W && y >= 0 && y < c.Size.H
}

// CellAt returns the cell at a local position by value.
func (c *Chunk) CellAt(p core.Point) Cell { return c.cells[c.Index(p.X, p.Y)] }

// Cells exposes the backing array for in-package iteration.
func (c *Chunk) Cells() []Cell { return c.cells }

// SetCell writes a cell and grows the current dirty rect to cover it. This
// is the single-writer path used by external placement; simulation tasks go
// through writeCell instead so neighboring tasks never race on the rect.
func (c *Chunk) SetCell(x, y int, cell Cell) {
	c.cells[c.Index(x, y)] = cell
	c.current = c.current.UnionPoint(core.Point{X: x, Y: y})
}

// writeCell stores a cell without touching the dirty rect. Simulation
// contexts record write positions separately and the world folds them into
// the rects after all phases join.
func (c *Chunk) writeCell(p core.Point, cell Cell) {
	c.cells[c.Index(p.X, p.Y)] = cell
}

// markUpdated flags a cell as claimed for this tick without changing its
// contents.
func (c *Chunk) markUpdated(p core.Point) {
	c.cells[c.Index(p.X, p.Y)].Updated = true
}

// ShouldUpdate reports whether the next tick needs to simulate this chunk.
func (c *Chunk) ShouldUpdate() bool {
	return !c.current.IsEmpty() || !c.previous.IsEmpty() || c.renderOverride > 0
}

// DirtyRect returns the current dirty rectangle.
func (c *Chunk) DirtyRect() core.BoundRect { return c.current }

// ScanRect is the region a simulate pass must visit: everything written last
// tick plus the settle-grace region from the tick before.
func (c *Chunk) ScanRect() core.BoundRect { return c.current.Union(c.previous) }

// SwapRects retires the current rect into the settle slot. The region just
// scanned gets exactly one more pass next tick, then sleeps if still quiet.
func (c *Chunk) SwapRects() {
	c.previous = c.current
	c.current = core.EmptyRect()
}

// ConstructDirtyRect replaces the current rect with the bounding box of the
// given write positions, so next tick scans precisely the active region.
func (c *Chunk) ConstructDirtyRect(points []core.Point) {
	c.current = core.BoundRectFromPoints(points)
}

// UnionDirtyRect grows the current rect to cover the given positions. Used
// for chunks that were not simulated this tick but received border writes
// from a neighbor's pass.
func (c *Chunk) UnionDirtyRect(points []core.Point) {
	for _, p := range points {
		c.current = c.current.UnionPoint(p)
	}
}

// ResetUpdated clears every cell's Updated flag. Called once per chunk at
// the start of each tick.
func (c *Chunk) ResetUpdated() {
	for i := range c.cells {
		c.cells[i].Updated = false
	}
}

// MarkRenderOverride guarantees the chunk renders for at least n more ticks.
func (c *Chunk) MarkRenderOverride(n int) {
	if n > c.renderOverride {
		c.renderOverride = n
	}
}

// RenderOverride reports the remaining forced-render ticks.
func (c *Chunk) RenderOverride() int { return c.renderOverride }

// CellsAsFloats projects occupancy for collision-mesh extraction: 1.0 for
// any non-empty cell, 0.0 for empty, row-major.
func (c *Chunk) CellsAsFloats() []float64 {
	out := make([]float64, len(c.cells))
	for i, cell := range c.cells {
		if !cell.IsEmpty() {
			out[i] = 1.0
		}
	}
	return out
}

// RenderData flattens the chunk into RGBA bytes, 4 per cell, row-major with
// no padding.
func (c *Chunk) RenderData() []byte {
	buf := make([]byte, len(c.cells)*4)
	for i, cell := range c.cells {
		copy(buf[i*4:], cell.Color[:])
	}
	return buf
}
