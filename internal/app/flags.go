package app

import (
	"flag"

	"github.com/sgshea/sandengine/internal/sand"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Width   int
	Height  int
	ChunksX int
	ChunksY int
	Scale   int
	TPS     int
	Seed    int64
	Workers int
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	sc := sand.DefaultConfig()
	return &Config{
		Width:   sc.Width,
		Height:  sc.Height,
		ChunksX: sc.ChunksX,
		ChunksY: sc.ChunksY,
		Scale:   2,
		TPS:     60,
		Seed:    sc.Seed,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "world width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "world height in cells")
	fs.IntVar(&c.ChunksX, "chunks-x", c.ChunksX, "chunk columns")
	fs.IntVar(&c.ChunksY, "chunks-y", c.ChunksY, "chunk rows")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for color jitter and tie breaks")
	fs.IntVar(&c.Workers, "workers", c.Workers, "simulation worker goroutines (0 = all CPUs)")
}

// SandConfig projects the flag values onto the engine configuration.
func (c *Config) SandConfig() sand.Config {
	return sand.Config{
		Width:   c.Width,
		Height:  c.Height,
		ChunksX: c.ChunksX,
		ChunksY: c.ChunksY,
		Seed:    c.Seed,
	}
}
