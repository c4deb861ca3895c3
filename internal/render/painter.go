//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/sgshea/sandengine/internal/core"
	"github.com/sgshea/sandengine/internal/sand"
)

// ChunkPainter keeps one GPU image per chunk and re-uploads only the chunks
// the world reports as changed, so quiet regions cost nothing per frame.
type ChunkPainter struct {
	images map[core.Point]*ebiten.Image
	flip   []byte
	cw, ch int
}

// NewChunkPainter allocates an image for every chunk in the world.
func NewChunkPainter(w *sand.World) *ChunkPainter {
	cs := w.ChunkSize()
	cp := &ChunkPainter{
		images: make(map[core.Point]*ebiten.Image),
		cw:     cs.W,
		ch:     cs.H,
	}
	amount := w.ChunkAmount()
	for x := 0; x < amount.W; x++ {
		for y := 0; y < amount.H; y++ {
			cp.images[core.Point{X: x, Y: y}] = ebiten.NewImage(cs.W, cs.H)
		}
	}
	return cp
}

// Update re-uploads pixel data for every chunk that changed last tick.
func (cp *ChunkPainter) Update(w *sand.World) {
	for pos, img := range cp.images {
		data, ok := w.ShouldRenderData(pos)
		if !ok {
			continue
		}
		cp.flip = FlipChunkRGBA(cp.flip, data, cp.cw, cp.ch)
		img.WritePixels(cp.flip)
	}
}

// Draw blits every chunk image onto dst at the given pixel scale. Chunk row 0
// sits at the bottom of the world, so its image lands at the bottom of the
// screen.
func (cp *ChunkPainter) Draw(dst *ebiten.Image, w *sand.World, scale int) {
	amount := w.ChunkAmount()
	for pos, img := range cp.images {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(scale), float64(scale))
		px := pos.X * cp.cw * scale
		py := (amount.H - 1 - pos.Y) * cp.ch * scale
		op.GeoM.Translate(float64(px), float64(py))
		dst.DrawImage(img, op)
	}
}
