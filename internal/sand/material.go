package sand

import "strings"

// Material identifies the substance stored in a cell. The zero value is the
// empty material.
type Material uint8

const (
	MaterialEmpty Material = iota
	MaterialSand
	MaterialDirt
	MaterialStone
	MaterialWater
	MaterialSmoke

	materialCount
)

// MaxDensity normalizes density differences when deciding probabilistic
// displacement swaps.
const MaxDensity float32 = 100

type materialProps struct {
	name    string
	physics PhysicsType
	// density orders which materials sink through which; higher sinks.
	density float32
	// base color plus per-channel RGB jitter amplitude, so two cells of
	// one material render slightly differently.
	base   [4]uint8
	jitter int
}

var materials = [materialCount]materialProps{
	MaterialEmpty: {name: "empty", physics: PhysicsEmpty},
	MaterialSand:  {name: "sand", physics: PhysicsSoftSolid, density: 60, base: [4]uint8{230, 195, 92, 255}, jitter: 20},
	MaterialDirt:  {name: "dirt", physics: PhysicsSoftSolid, density: 60, base: [4]uint8{139, 69, 19, 255}, jitter: 10},
	MaterialStone: {name: "stone", physics: PhysicsHardSolid, density: 100, base: [4]uint8{80, 80, 80, 255}, jitter: 10},
	MaterialWater: {name: "water", physics: PhysicsLiquid, density: 50, base: [4]uint8{20, 125, 205, 150}, jitter: 20},
	MaterialSmoke: {name: "smoke", physics: PhysicsGas, density: 10, base: [4]uint8{192, 192, 192, 150}, jitter: 20},
}

// String returns the material's lowercase name.
func (m Material) String() string {
	if m >= materialCount {
		return "unknown"
	}
	return materials[m].name
}

// Physics returns the physics class a cell of this material starts with.
func (m Material) Physics() PhysicsType {
	if m >= materialCount {
		return PhysicsEmpty
	}
	return materials[m].physics
}

// Density returns the material's density constant. Empty has density 0.
func (m Material) Density() float32 {
	if m >= materialCount {
		return 0
	}
	return materials[m].density
}

// Materials lists every placeable material, empty included (for erasing).
func Materials() []Material {
	out := make([]Material, 0, materialCount)
	for m := Material(0); m < materialCount; m++ {
		out = append(out, m)
	}
	return out
}

// MaterialByName resolves a case-insensitive material name, for config and
// remote placement commands.
func MaterialByName(name string) (Material, bool) {
	name = strings.ToLower(name)
	for m := Material(0); m < materialCount; m++ {
		if materials[m].name == name {
			return m, true
		}
	}
	return MaterialEmpty, false
}
