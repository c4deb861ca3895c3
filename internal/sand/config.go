package sand

import (
	"fmt"
	"strconv"
)

// minChunkDim keeps the checkerboard safety argument valid: moves reach at
// most two cells, so chunks this small or larger guarantee concurrently
// simulated neighborhoods write disjoint cells.
const minChunkDim = 4

// Config controls world construction. Material constants are compile-time
// data; these are the only runtime-tunable inputs the engine takes.
type Config struct {
	// Width and Height are the world size in cells.
	Width  int
	Height int
	// ChunksX and ChunksY subdivide the world; each axis must divide the
	// world size evenly.
	ChunksX int
	ChunksY int

	Seed int64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:   512,
		Height:  512,
		ChunksX: 8,
		ChunksY: 8,
		Seed:    1337,
	}
}

// Validate rejects configurations with no valid degraded mode, before any
// chunk is allocated.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.ChunksX <= 0 || c.ChunksY <= 0 {
		return fmt.Errorf("chunk subdivision must be positive, got %dx%d", c.ChunksX, c.ChunksY)
	}
	if c.Width%c.ChunksX != 0 || c.Height%c.ChunksY != 0 {
		return fmt.Errorf("world size %dx%d not divisible by chunk amount %dx%d",
			c.Width, c.Height, c.ChunksX, c.ChunksY)
	}
	if c.Width/c.ChunksX < minChunkDim || c.Height/c.ChunksY < minChunkDim {
		return fmt.Errorf("chunk size %dx%d below minimum %d",
			c.Width/c.ChunksX, c.Height/c.ChunksY, minChunkDim)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value
// pairs). Unknown keys and unparsable values are ignored.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["chunks_x"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ChunksX = parsed
		}
	}
	if v, ok := cfg["chunks_y"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ChunksY = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}
