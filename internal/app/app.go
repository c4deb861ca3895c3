//go:build ebiten

package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/sgshea/sandengine/internal/core"
	"github.com/sgshea/sandengine/internal/render"
	"github.com/sgshea/sandengine/internal/sand"
)

// paintable is the palette cycled by the number keys.
var paintable = []sand.Material{
	sand.MaterialSand,
	sand.MaterialWater,
	sand.MaterialStone,
	sand.MaterialDirt,
	sand.MaterialSmoke,
}

// Game adapts the sand world to the ebiten.Game interface.
type Game struct {
	cfg     *Config
	world   *sand.World
	exec    *core.Executor
	painter *render.ChunkPainter

	material  sand.Material
	brushSize int

	paused    bool
	tickOnce  bool
	showDirty bool
}

// New constructs a Game for the provided configuration.
func New(cfg *Config) (*Game, error) {
	world, err := sand.NewWorld(cfg.SandConfig())
	if err != nil {
		return nil, err
	}
	return &Game{
		cfg:       cfg,
		world:     world,
		exec:      core.NewExecutor(cfg.Workers),
		painter:   render.NewChunkPainter(world),
		material:  sand.MaterialSand,
		brushSize: 8,
	}, nil
}

// Reset replaces the world with a fresh one built from the same config.
func (g *Game) Reset() {
	world, err := sand.NewWorld(g.cfg.SandConfig())
	if err != nil {
		// The config already built a world once; it cannot go bad now.
		panic(err)
	}
	g.world = world
	g.painter = render.NewChunkPainter(world)
	g.tickOnce = false
}

// Update handles input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.showDirty = !g.showDirty
	}
	for i, m := range paintable {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(i)) {
			g.material = m
		}
	}
	if _, wheel := ebiten.Wheel(); wheel != 0 {
		g.brushSize += int(wheel) * 2
		if g.brushSize < 1 {
			g.brushSize = 1
		}
		if g.brushSize > 64 {
			g.brushSize = 64
		}
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		sand.PaintBrush(g.world, g.cursorCell(), g.brushSize, g.material)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		sand.PaintBrush(g.world, g.cursorCell(), g.brushSize, sand.MaterialEmpty)
	}

	if !g.paused || g.tickOnce {
		g.world.Update(g.exec)
		g.tickOnce = false
	}
	g.painter.Update(g.world)
	return nil
}

// cursorCell maps the mouse position to a world cell. Screen y grows down,
// world y grows up.
func (g *Game) cursorCell() core.Point {
	mx, my := ebiten.CursorPosition()
	return core.Point{
		X: mx / g.cfg.Scale,
		Y: g.world.Size().H - 1 - my/g.cfg.Scale,
	}
}

// Draw renders the world plus the optional dirty-rect overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Draw(screen, g.world, g.cfg.Scale)
	if g.showDirty {
		g.drawDirtyRects(screen)
	}
	hover := g.cursorCell()
	hoverName := "off-grid"
	if cell, ok := g.world.GetCell(hover); ok {
		hoverName = cell.Material.String()
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"tick %d  brush %s/%d  cell (%d,%d) %s dirty=%v\n[space] pause=%v  [n] step  [r] reset  [f2] rects",
		g.world.Iteration(), g.material, g.brushSize,
		hover.X, hover.Y, hoverName, g.world.CellInsideDirty(hover), g.paused))
}

func (g *Game) drawDirtyRects(screen *ebiten.Image) {
	cs := g.world.ChunkSize()
	worldH := g.world.Size().H
	scale := g.cfg.Scale
	outline := color.RGBA{R: 255, G: 64, B: 64, A: 200}
	for _, cd := range g.world.ChunkDirtyRects() {
		if cd.Rect.IsEmpty() {
			continue
		}
		size := cd.Rect.Size()
		x := (cd.Position.X*cs.W + cd.Rect.Min.X) * scale
		top := worldH - 1 - (cd.Position.Y*cs.H + cd.Rect.Max.Y)
		vector.StrokeRect(screen,
			float32(x), float32(top*scale),
			float32(size.W*scale), float32(size.H*scale),
			1, outline, false)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.world.Size()
	return s.W * g.cfg.Scale, s.H * g.cfg.Scale
}
