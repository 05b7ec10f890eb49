package wall

import (
	"math"

	"github.com/driftwall/driftwall/pkg/errors"
)

// Default world geometry. Changing any of these changes the packing
// output, so persisted or cached layouts must be rebuilt when they
// change; Config participates in every cache and store key for exactly
// that reason.
const (
	// DefaultWorldSize is the side length of the square world tile,
	// in world units.
	DefaultWorldSize = 12000.0

	// DefaultTargetRowHeight is the row height images are measured at
	// before per-row scaling.
	DefaultTargetRowHeight = 320.0

	// DefaultGap is the spacing between images, both within a row and
	// between rows. The trailing gap of each row doubles as the seam
	// gap toward the next world copy.
	DefaultGap = 30.0

	// DefaultCellSize is the side length of one spatial-index cell.
	DefaultCellSize = 600.0
)

// Config holds the world geometry tunables. The zero value is not
// usable; start from DefaultConfig and override fields as needed.
type Config struct {
	WorldSize       float64 `json:"world_size" bson:"world_size" toml:"world_size"`
	TargetRowHeight float64 `json:"target_row_height" bson:"target_row_height" toml:"target_row_height"`
	Gap             float64 `json:"gap" bson:"gap" toml:"gap"`
	CellSize        float64 `json:"cell_size" bson:"cell_size" toml:"cell_size"`
}

// DefaultConfig returns the default world geometry.
func DefaultConfig() Config {
	return Config{
		WorldSize:       DefaultWorldSize,
		TargetRowHeight: DefaultTargetRowHeight,
		Gap:             DefaultGap,
		CellSize:        DefaultCellSize,
	}
}

// ApplyDefaults fills zero-valued fields from DefaultConfig.
// Negative values are left in place for Validate to reject.
func (c *Config) ApplyDefaults() {
	d := DefaultConfig()
	if c.WorldSize == 0 {
		c.WorldSize = d.WorldSize
	}
	if c.TargetRowHeight == 0 {
		c.TargetRowHeight = d.TargetRowHeight
	}
	if c.Gap == 0 {
		c.Gap = d.Gap
	}
	if c.CellSize == 0 {
		c.CellSize = d.CellSize
	}
}

// Validate checks that the configuration describes a usable world.
func (c Config) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"world_size", c.WorldSize},
		{"target_row_height", c.TargetRowHeight},
		{"gap", c.Gap},
		{"cell_size", c.CellSize},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be finite, got %g", f.name, f.value)
		}
	}

	if c.WorldSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "world_size must be positive, got %g", c.WorldSize)
	}
	if c.TargetRowHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "target_row_height must be positive, got %g", c.TargetRowHeight)
	}
	if c.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gap cannot be negative, got %g", c.Gap)
	}
	if c.CellSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cell_size must be positive, got %g", c.CellSize)
	}
	if c.CellSize > c.WorldSize {
		return errors.New(errors.ErrCodeInvalidConfig, "cell_size %g exceeds world_size %g", c.CellSize, c.WorldSize)
	}
	if c.TargetRowHeight+c.Gap >= c.WorldSize {
		return errors.New(errors.ErrCodeInvalidConfig, "target_row_height %g leaves no room in world_size %g", c.TargetRowHeight, c.WorldSize)
	}
	return nil
}
