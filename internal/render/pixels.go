package render

import (
	"github.com/sgshea/sandengine/internal/core"
	"github.com/sgshea/sandengine/internal/sand"
)

// FlipChunkRGBA converts a chunk's row-major RGBA data from simulation space
// (row 0 at the bottom) to image space (row 0 at the top). dst is reused when
// it has the right length, otherwise a fresh buffer is allocated.
func FlipChunkRGBA(dst, data []byte, w, h int) []byte {
	n := w * h * 4
	if len(dst) != n {
		dst = make([]byte, n)
	}
	stride := w * 4
	for y := 0; y < h; y++ {
		src := data[y*stride : (y+1)*stride]
		copy(dst[(h-1-y)*stride:], src)
	}
	return dst
}

// ComposeWorldRGBA flattens the whole world into a single top-down RGBA
// image, 4 bytes per cell. buf is reused when it has the right length.
func ComposeWorldRGBA(w *sand.World, buf []byte) []byte {
	size := w.Size()
	n := size.W * size.H * 4
	if len(buf) != n {
		buf = make([]byte, n)
	}
	cs := w.ChunkSize()
	amount := w.ChunkAmount()
	stride := size.W * 4
	for cy := 0; cy < amount.H; cy++ {
		for cx := 0; cx < amount.W; cx++ {
			ch := w.ChunkAt(core.Point{X: cx, Y: cy})
			data := ch.RenderData()
			for y := 0; y < cs.H; y++ {
				worldY := cy*cs.H + y
				row := size.H - 1 - worldY
				off := row*stride + cx*cs.W*4
				copy(buf[off:off+cs.W*4], data[y*cs.W*4:(y+1)*cs.W*4])
			}
		}
	}
	return buf
}
