package sand

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/sgshea/sandengine/internal/core"
)

// Movement-rule probabilities and ballistic tuning. Kept as named constants
// so the balance is auditable in one place; all randomness flows through the
// context's injectable RNG.
const (
	// DiagonalTiebreakP picks left over right when both diagonals are open.
	DiagonalTiebreakP = 0.5
	// StraightFallP keeps a soft solid falling straight when a diagonal
	// is also open; the remainder shears sideways early for looser piles.
	StraightFallP = 0.9
	// SidewaysPreferenceP keeps a fluid falling (or a gas rising) rather
	// than spreading when both options are open.
	SidewaysPreferenceP = 0.95
	// DoubleStepP is the chance a move jumps two cells instead of one
	// when the far cell is also free.
	DoubleStepP = 0.5

	// GravityStep is the per-tick velocity gained by a cell falling
	// through empty space.
	GravityStep float32 = 0.15
	// BallisticThreshold is the speed above which a cell moves along its
	// velocity line instead of the per-class rules.
	BallisticThreshold float32 = 1.5
	// DragFactor damps velocity each ballistic step.
	DragFactor float32 = 0.9
	// maxBallisticSteps caps line traversal so a runaway velocity cannot
	// escape the 3x3 neighborhood (which only extends one chunk out).
	maxBallisticSteps = 8
)

const ctxCenter = 4

// simulationContext is a transient view over a 3x3 block of chunks built for
// one chunk's simulate pass. Positions are local to the center chunk and may
// fall outside [0,w)x[0,h), addressing a neighbor. Slots holding nil mark
// the world edge.
//
// Within one tick the checkerboard phase schedule guarantees that contexts
// running concurrently never share a center and that their border writes land
// on disjoint cells, so the chunk handles are used without locks.
type simulationContext struct {
	center core.Point
	size   core.Size
	chunks [9]*Chunk
	// updates collects write positions per slot, local to that slot's
	// chunk; the world folds them into dirty rects after the tick.
	updates [9][]core.Point
	rng     *core.RNG
}

// slotFor resolves a center-local position to its neighborhood slot and the
// local coordinate inside that slot's chunk. Floor semantics keep negative
// positions resolving to the correct neighbor.
func (s *simulationContext) slotFor(p core.Point) (int, core.Point) {
	cx := core.FloorDiv(p.X, s.size.W)
	cy := core.FloorDiv(p.Y, s.size.H)
	local := core.Point{X: core.FloorMod(p.X, s.size.W), Y: core.FloorMod(p.Y, s.size.H)}
	return (cx + 1) + (cy+1)*3, local
}

func (s *simulationContext) cellAt(p core.Point) Cell {
	slot, local := s.slotFor(p)
	return s.chunks[slot].CellAt(local)
}

// cellIsEmpty reports whether a cell can be claimed as a move destination.
// Positions past the world edge or beyond the 3x3 neighborhood read as
// blocked, and a cell already written this tick cannot be claimed again; that
// check is what keeps the sequential in-row sweep race-free when several
// cells want one destination.
func (s *simulationContext) cellIsEmpty(p core.Point) bool {
	cx := core.FloorDiv(p.X, s.size.W)
	cy := core.FloorDiv(p.Y, s.size.H)
	if cx < -1 || cx > 1 || cy < -1 || cy > 1 {
		return false
	}
	slot, local := s.slotFor(p)
	ch := s.chunks[slot]
	if ch == nil {
		return false
	}
	cell := ch.CellAt(local)
	return cell.IsEmpty() && !cell.Updated
}

// canDisplace reports whether a mover may probabilistically swap with the
// non-empty cell at p. Only fluids yield; the swap chance scales with the
// density difference. rising flips the comparison for buoyant movers.
func (s *simulationContext) canDisplace(p core.Point, mover Cell, rising bool) bool {
	slot, local := s.slotFor(p)
	ch := s.chunks[slot]
	if ch == nil {
		return false
	}
	target := ch.CellAt(local)
	if target.IsEmpty() || target.Updated {
		return false
	}
	if target.Physics != PhysicsLiquid && target.Physics != PhysicsGas {
		return false
	}
	diff := mover.Density() - target.Density()
	if rising {
		diff = -diff
	}
	if diff <= 0 {
		return false
	}
	return s.rng.Chance(float64(diff / MaxDensity))
}

// setCell writes through to the resolved chunk and records the position for
// the dirty-rect merge. Writes on a chunk border also wake the adjacent
// chunk so it does not miss activity sitting on the shared edge.
func (s *simulationContext) setCell(p core.Point, cell Cell) {
	slot, local := s.slotFor(p)
	ch := s.chunks[slot]
	if ch == nil {
		return
	}
	ch.writeCell(local, cell)
	s.recordUpdate(slot, local)
}

// setUpdatedCell claims a cell for this tick without changing its contents,
// used for the intermediate cell a two-step move passes through.
func (s *simulationContext) setUpdatedCell(p core.Point) {
	slot, local := s.slotFor(p)
	ch := s.chunks[slot]
	if ch == nil {
		return
	}
	ch.markUpdated(local)
}

func (s *simulationContext) recordUpdate(slot int, local core.Point) {
	s.updates[slot] = append(s.updates[slot], local)

	sx, sy := slot%3, slot/3
	onLeft := local.X == 0 && sx > 0
	onRight := local.X == s.size.W-1 && sx < 2
	onBottom := local.Y == 0 && sy > 0
	onTop := local.Y == s.size.H-1 && sy < 2

	if onLeft && s.chunks[slot-1] != nil {
		s.updates[slot-1] = append(s.updates[slot-1], core.Point{X: s.size.W - 1, Y: local.Y})
	}
	if onRight && s.chunks[slot+1] != nil {
		s.updates[slot+1] = append(s.updates[slot+1], core.Point{X: 0, Y: local.Y})
	}
	if onBottom && s.chunks[slot-3] != nil {
		s.updates[slot-3] = append(s.updates[slot-3], core.Point{X: local.X, Y: s.size.H - 1})
	}
	if onTop && s.chunks[slot+3] != nil {
		s.updates[slot+3] = append(s.updates[slot+3], core.Point{X: local.X, Y: 0})
	}
	if onLeft && onBottom && s.chunks[slot-4] != nil {
		s.updates[slot-4] = append(s.updates[slot-4], core.Point{X: s.size.W - 1, Y: s.size.H - 1})
	}
	if onRight && onBottom && s.chunks[slot-2] != nil {
		s.updates[slot-2] = append(s.updates[slot-2], core.Point{X: 0, Y: s.size.H - 1})
	}
	if onLeft && onTop && s.chunks[slot+2] != nil {
		s.updates[slot+2] = append(s.updates[slot+2], core.Point{X: s.size.W - 1, Y: 0})
	}
	if onRight && onTop && s.chunks[slot+4] != nil {
		s.updates[slot+4] = append(s.updates[slot+4], core.Point{X: 0, Y: 0})
	}
}

// simulate runs the per-cell rules over the center chunk's scan rect and
// returns the per-slot write positions for the merge step. Rows run bottom
// to top so gravity settles stacks in one pass; the horizontal direction is
// re-rolled per row to avoid a visible left/right pile-up bias.
func (s *simulationContext) simulate() [9][]core.Point {
	rect := s.chunks[ctxCenter].ScanRect()
	if rect.IsEmpty() {
		return s.updates
	}
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		if s.rng.Bool() {
			for x := rect.Min.X; x <= rect.Max.X; x++ {
				s.step(core.Point{X: x, Y: y})
			}
		} else {
			for x := rect.Max.X; x >= rect.Min.X; x-- {
				s.step(core.Point{X: x, Y: y})
			}
		}
	}
	return s.updates
}

func (s *simulationContext) step(pos core.Point) {
	result, moved := s.processCell(pos)
	if !moved {
		return
	}
	// Committed cells carry no staleness into the rest of the tick.
	result.Updated = false
	s.setCell(pos, result)
}

// processCell dispatches one cell to its movement rule. When the rule moves
// the cell it returns the replacement for the origin position (normally the
// empty cell, or the displaced cell for a density swap) and true.
func (s *simulationContext) processCell(pos core.Point) (Cell, bool) {
	current := s.chunks[ctxCenter].CellAt(pos)
	if current.Updated {
		return Cell{}, false
	}
	// The stamp travels with the cell to its destination, blocking a
	// second move this tick.
	current.Updated = true

	if speed := current.Velocity.Len(); speed > BallisticThreshold {
		return s.ruleBallistic(current, pos)
	}

	switch current.Physics {
	case PhysicsSoftSolid:
		return s.ruleSoftSolid(current, pos)
	case PhysicsLiquid:
		return s.ruleLiquid(current, pos)
	case PhysicsGas:
		return s.ruleGas(current, pos)
	default:
		// Empty, hard solids and rigid overlays never move.
		return Cell{}, false
	}
}

func (s *simulationContext) ruleSoftSolid(current Cell, pos core.Point) (Cell, bool) {
	downEmpty := s.cellIsEmpty(pos.Add(core.Down))
	downLeftEmpty := s.cellIsEmpty(pos.Add(core.DownLeft))
	downRightEmpty := s.cellIsEmpty(pos.Add(core.DownRight))

	if downEmpty && (!(downLeftEmpty || downRightEmpty) || s.rng.Chance(StraightFallP)) {
		return s.moveCell(accrueGravity(current), pos, core.Down)
	}
	if downLeftEmpty || downRightEmpty {
		dir := s.pickSide(core.DownLeft, core.DownRight, downLeftEmpty, downRightEmpty)
		return s.moveCell(current, pos, dir)
	}
	// Sink through a lighter fluid underneath (sand through water).
	if s.canDisplace(pos.Add(core.Down), current, false) {
		return s.swapCells(current, pos.Add(core.Down))
	}
	return Cell{}, false
}

func (s *simulationContext) ruleLiquid(current Cell, pos core.Point) (Cell, bool) {
	downEmpty := s.cellIsEmpty(pos.Add(core.Down))
	leftEmpty := s.cellIsEmpty(pos.Add(core.Left))
	rightEmpty := s.cellIsEmpty(pos.Add(core.Right))

	if downEmpty && (!(leftEmpty || rightEmpty) || s.rng.Chance(SidewaysPreferenceP)) {
		return s.moveCell(accrueGravity(current), pos, core.Down)
	}
	if leftEmpty || rightEmpty {
		dir := s.pickSide(core.Left, core.Right, leftEmpty, rightEmpty)
		return s.moveCell(current, pos, dir)
	}
	if s.canDisplace(pos.Add(core.Down), current, false) {
		return s.swapCells(current, pos.Add(core.Down))
	}
	return Cell{}, false
}

func (s *simulationContext) ruleGas(current Cell, pos core.Point) (Cell, bool) {
	upEmpty := s.cellIsEmpty(pos.Add(core.Up))
	leftEmpty := s.cellIsEmpty(pos.Add(core.Left))
	rightEmpty := s.cellIsEmpty(pos.Add(core.Right))

	if upEmpty && (!(leftEmpty || rightEmpty) || s.rng.Chance(SidewaysPreferenceP)) {
		return s.moveCell(current, pos, core.Up)
	}
	if leftEmpty || rightEmpty {
		dir := s.pickSide(core.Left, core.Right, leftEmpty, rightEmpty)
		return s.moveCell(current, pos, dir)
	}
	// Bubble up through a denser fluid sitting on top.
	if s.canDisplace(pos.Add(core.Up), current, true) {
		return s.swapCells(current, pos.Add(core.Up))
	}
	return Cell{}, false
}

// pickSide resolves a left/right choice, tie-breaking at random when both
// are open. At least one side must be available.
func (s *simulationContext) pickSide(left, right core.Point, leftOK, rightOK bool) core.Point {
	if leftOK && rightOK {
		if s.rng.Chance(DiagonalTiebreakP) {
			return left
		}
		return right
	}
	if leftOK {
		return left
	}
	return right
}

// moveCell relocates a cell one step in dir, speculatively jumping two steps
// half the time when the far cell is also free. The skipped intermediate
// cell is claimed so nothing else moves into or out of it this tick.
func (s *simulationContext) moveCell(current Cell, pos, dir core.Point) (Cell, bool) {
	one := pos.Add(dir)
	two := one.Add(dir)
	if s.rng.Chance(DoubleStepP) && s.cellIsEmpty(two) {
		s.setCell(two, current)
		s.setUpdatedCell(one)
	} else {
		s.setCell(one, current)
	}
	return EmptyCell(), true
}

// swapCells moves the current cell onto dst and hands dst's previous
// occupant back to be committed at the origin.
func (s *simulationContext) swapCells(current Cell, dst core.Point) (Cell, bool) {
	displaced := s.cellAt(dst)
	s.setCell(dst, current)
	return displaced, true
}

// ruleBallistic walks the discretized velocity line up to round(speed)
// steps, stopping at the first obstruction and landing on the furthest
// reachable empty cell. Obstruction kills the velocity; free flight only
// damps it.
func (s *simulationContext) ruleBallistic(current Cell, pos core.Point) (Cell, bool) {
	vel := current.Velocity
	speed := vel.Len()
	steps := int(math.Round(float64(speed)))
	if steps > maxBallisticSteps {
		steps = maxBallisticSteps
	}
	dir := vel.Mul(1 / speed)

	last := pos
	fx, fy := float32(pos.X), float32(pos.Y)
	blocked := false
	for i := 0; i < steps; i++ {
		fx += dir.X()
		fy += dir.Y()
		next := core.Point{X: int(math.Round(float64(fx))), Y: int(math.Round(float64(fy)))}
		if next == last {
			continue
		}
		if !s.cellIsEmpty(next) {
			blocked = true
			break
		}
		if last != pos {
			// Cells flown through cannot be claimed by later movers.
			s.setUpdatedCell(last)
		}
		last = next
	}

	if last == pos {
		// Immediate obstruction: drop out of ballistic flight in place.
		current.Velocity = mgl32.Vec2{}
		return current, true
	}
	if blocked {
		current.Velocity = mgl32.Vec2{}
	} else {
		current.Velocity = vel.Mul(DragFactor)
	}
	s.setCell(last, current)
	return EmptyCell(), true
}

// accrueGravity adds fall acceleration to a cell entering a downward move.
func accrueGravity(c Cell) Cell {
	c.Velocity = mgl32.Vec2{c.Velocity.X(), c.Velocity.Y() - GravityStep}
	return c
}
