package sand

import "github.com/sgshea/sandengine/internal/core"

// PaintBrush stamps a filled disc of the given material centered on a world
// position. amount is the brush diameter in cells; positions falling off the
// world are ignored by SetCellExternal. MaterialEmpty erases.
func PaintBrush(w *World, center core.Point, amount int, m Material) {
	if amount < 1 {
		amount = 1
	}
	half := amount / 2
	radius := amount / 4
	r2 := radius * radius
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			if x*x+y*y > r2 {
				continue
			}
			w.SetCellExternal(center.Add(core.Point{X: x, Y: y}), w.SpawnCell(m))
		}
	}
}
