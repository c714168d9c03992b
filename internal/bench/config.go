package bench

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid bench config")

// Config describes one benchmark run.
type Config struct {
	// Start is the first list size.
	Start int `mapstructure:"start"`
	// Max is the largest list size; the series stops before exceeding it.
	Max int `mapstructure:"max"`
	// StepsPerDecade sets the growth factor 10^(1/StepsPerDecade) between sizes.
	StepsPerDecade int `mapstructure:"steps_per_decade"`
	// Repetitions is the number of spaced deletes, re-inserts and lookups per
	// size. Duplicate inserts use a tenth of it.
	Repetitions int `mapstructure:"repetitions"`
	// MinMaxRepetitions is the number of Min and Max reads per size.
	MinMaxRepetitions int `mapstructure:"minmax_repetitions"`
	// Contenders names the structures to run, squarelist included.
	Contenders []string `mapstructure:"contenders"`
	// MemoryLimitBytes caps the squarelist backing stores; 0 means unlimited.
	MemoryLimitBytes int64 `mapstructure:"memory_limit_bytes"`
}

// DefaultConfig returns the workload of the reference harness, capped at a
// million values.
func DefaultConfig() Config {
	return Config{
		Start:             1_000,
		Max:               1_000_000,
		StepsPerDecade:    4,
		Repetitions:       1_000,
		MinMaxRepetitions: 1_000_000,
		Contenders:        []string{SquareList},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Start < 2:
		return fmt.Errorf("%w: start must be at least 2, got %d", ErrInvalidConfig, c.Start)
	case c.Max < c.Start:
		return fmt.Errorf("%w: max %d is below start %d", ErrInvalidConfig, c.Max, c.Start)
	case c.StepsPerDecade < 1:
		return fmt.Errorf("%w: steps per decade must be positive, got %d", ErrInvalidConfig, c.StepsPerDecade)
	case c.Repetitions < 10:
		return fmt.Errorf("%w: repetitions must be at least 10, got %d", ErrInvalidConfig, c.Repetitions)
	case c.Repetitions > c.Start:
		// Spaced values would repeat and the delete checks would not hold.
		return fmt.Errorf("%w: repetitions %d exceed start %d", ErrInvalidConfig, c.Repetitions, c.Start)
	case c.MinMaxRepetitions < 1:
		return fmt.Errorf("%w: min/max repetitions must be positive, got %d", ErrInvalidConfig, c.MinMaxRepetitions)
	case c.MemoryLimitBytes < 0:
		return fmt.Errorf("%w: memory limit must not be negative", ErrInvalidConfig)
	case len(c.Contenders) == 0:
		return fmt.Errorf("%w: no contenders", ErrInvalidConfig)
	}
	for _, name := range c.Contenders {
		if !slices.Contains(Contenders, name) {
			return fmt.Errorf("%w: unknown contender %q (want one of %v)", ErrInvalidConfig, name, Contenders)
		}
	}
	return nil
}

// Sizes returns the geometric series of list sizes from Start to Max.
func (c Config) Sizes() []int {
	factor := math.Pow(10, 1/float64(c.StepsPerDecade))

	var sizes []int
	for f := float64(c.Start); f <= float64(c.Max)+0.5; f *= factor {
		size := min(int(math.Ceil(f-1e-9)), c.Max)
		if len(sizes) > 0 && sizes[len(sizes)-1] == size {
			continue
		}
		sizes = append(sizes, size)
	}
	return sizes
}
