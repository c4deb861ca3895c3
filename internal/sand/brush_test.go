package sand

import (
	"testing"

	"github.com/sgshea/sandengine/internal/core"
)

func TestPaintBrushStampsDisc(t *testing.T) {
	w := testWorld(t, smallConfig(1))
	center := core.Point{X: 8, Y: 8}
	PaintBrush(w, center, 8, MaterialSand)

	grains := findCells(w, MaterialSand)
	// Diameter 8 gives radius 2: the 13 lattice points with x*x+y*y <= 4.
	if len(grains) != 13 {
		t.Fatalf("painted %d cells, want 13", len(grains))
	}
	r := 8 / 4
	for _, g := range grains {
		dx, dy := g.X-center.X, g.Y-center.Y
		if dx*dx+dy*dy > r*r {
			t.Fatalf("cell %+v painted outside the brush disc", g)
		}
	}
}

func TestPaintBrushMinimumIsOneCell(t *testing.T) {
	w := testWorld(t, smallConfig(1))
	PaintBrush(w, core.Point{X: 3, Y: 3}, 0, MaterialStone)
	if got := len(findCells(w, MaterialStone)); got != 1 {
		t.Fatalf("zero-size brush painted %d cells, want 1", got)
	}
}

func TestPaintBrushErases(t *testing.T) {
	w := testWorld(t, smallConfig(1))
	center := core.Point{X: 8, Y: 8}
	PaintBrush(w, center, 8, MaterialWater)
	PaintBrush(w, center, 12, MaterialEmpty)
	if got := len(findCells(w, MaterialWater)); got != 0 {
		t.Fatalf("%d water cells survived the eraser", got)
	}
}

func TestPaintBrushClipsAtWorldEdge(t *testing.T) {
	w := testWorld(t, smallConfig(1))
	PaintBrush(w, core.Point{X: 0, Y: 0}, 8, MaterialSand)
	for _, g := range findCells(w, MaterialSand) {
		if g.X < 0 || g.Y < 0 {
			t.Fatalf("cell painted off-grid at %+v", g)
		}
	}
	if len(findCells(w, MaterialSand)) == 0 {
		t.Fatal("the in-grid quarter of the brush must still paint")
	}
}
