package sand

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/sgshea/sandengine/internal/core"
)

// PhysicsType classifies how a cell participates in the automaton.
type PhysicsType uint8

const (
	PhysicsEmpty PhysicsType = iota
	// PhysicsSoftSolid is granular material: falls, slides diagonally.
	PhysicsSoftSolid
	// PhysicsHardSolid never moves.
	PhysicsHardSolid
	// PhysicsLiquid falls and spreads sideways.
	PhysicsLiquid
	// PhysicsGas rises.
	PhysicsGas
	// PhysicsRigidOverlay marks cells owned by an external rigid body;
	// they occupy space but the automaton never moves them.
	PhysicsRigidOverlay
)

// Cell is the smallest unit of simulation state. It is a plain value living
// inline in a chunk's cell array and is only ever replaced whole. The zero
// value is the canonical empty cell.
type Cell struct {
	Color    [4]uint8
	Velocity mgl32.Vec2
	Material Material
	Physics  PhysicsType
	// Updated marks a cell already written during the current tick so a
	// sweep never moves it twice. It is cleared for every cell before
	// each tick.
	Updated bool
}

// NewCell builds a cell of the given material. RGB channels are jittered by
// the material's amplitude so grains of one material differ slightly.
func NewCell(m Material, rng *core.RNG) Cell {
	if m >= materialCount {
		m = MaterialEmpty
	}
	props := materials[m]
	c := Cell{
		Color:    props.base,
		Material: m,
		Physics:  props.physics,
	}
	if props.jitter > 0 && rng != nil {
		for i := 0; i < 3; i++ {
			c.Color[i] = jitterChannel(props.base[i], props.jitter, rng)
		}
	}
	return c
}

// OverlayCell builds a rigid-overlay cell carrying an externally supplied
// color, for material stamped under a rigid body.
func OverlayCell(m Material, color [4]uint8) Cell {
	return Cell{Color: color, Material: m, Physics: PhysicsRigidOverlay}
}

// EmptyCell returns the canonical empty cell.
func EmptyCell() Cell { return Cell{} }

// IsEmpty reports whether the cell holds no material.
func (c Cell) IsEmpty() bool { return c.Physics == PhysicsEmpty }

// Density returns the density of the cell's material.
func (c Cell) Density() float32 { return c.Material.Density() }

func jitterChannel(base uint8, amplitude int, rng *core.RNG) uint8 {
	v := int(base) + rng.IntN(2*amplitude+1) - amplitude
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
