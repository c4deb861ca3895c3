package render

import (
	"testing"

	"github.com/sgshea/sandengine/internal/core"
	"github.com/sgshea/sandengine/internal/sand"
)

func TestFlipChunkRGBA(t *testing.T) {
	// 2x3 chunk, each pixel tagged with its simulation row.
	w, h := 2, 3
	data := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data[(y*w+x)*4] = byte(y)
		}
	}
	out := FlipChunkRGBA(nil, data, w, h)
	for y := 0; y < h; y++ {
		if got := out[y*w*4]; got != byte(h-1-y) {
			t.Fatalf("image row %d holds sim row %d, want %d", y, got, h-1-y)
		}
	}
}

func TestFlipChunkRGBAReusesBuffer(t *testing.T) {
	data := make([]byte, 4*4*4)
	buf := make([]byte, 4*4*4)
	out := FlipChunkRGBA(buf, data, 4, 4)
	if &out[0] != &buf[0] {
		t.Fatal("correctly sized destination must be reused")
	}
}

func TestComposeWorldRGBAPlacesCellsTopDown(t *testing.T) {
	cfg := sand.Config{Width: 16, Height: 16, ChunksX: 2, ChunksY: 2, Seed: 1}
	w, err := sand.NewWorld(cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	// A stone cell near the simulation floor must land near the image
	// bottom, crossing into the upper-right chunk's region horizontally.
	p := core.Point{X: 9, Y: 1}
	w.SetCellExternal(p, sand.OverlayCell(sand.MaterialStone, [4]uint8{255, 0, 0, 255}))

	img := ComposeWorldRGBA(w, nil)
	if len(img) != 16*16*4 {
		t.Fatalf("image length = %d", len(img))
	}
	row := 16 - 1 - p.Y
	off := (row*16 + p.X) * 4
	if img[off] != 255 || img[off+3] != 255 {
		t.Fatalf("pixel at image row %d = %v", row, img[off:off+4])
	}
	for i := 0; i < len(img); i += 4 {
		if i != off && img[i+3] != 0 {
			t.Fatalf("unexpected opaque pixel at byte %d", i)
		}
	}
}
