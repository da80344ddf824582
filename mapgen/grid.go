package mapgen

import (
	"math/rand/v2"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/config"
)

// Params controls initial board generation.
type Params struct {
	Seed              int64
	Octaves           int
	BaseLevel         float64
	TemperatureScale  float64
	AltitudeRange     float64
	TemperatureRange  float64
	HumanProbability  float64
	ZombieProbability float64
	HumanMin          int
	HumanMax          int // exclusive
	ZombieMin         int
	ZombieMax         int // exclusive
}

// ParamsFromConfig copies the seed section of the config.
func ParamsFromConfig(c config.SeedConfig) Params {
	return Params{
		Seed:              c.Seed,
		Octaves:           c.Octaves,
		BaseLevel:         c.BaseLevel,
		TemperatureScale:  c.TemperatureScale,
		AltitudeRange:     c.AltitudeRange,
		TemperatureRange:  c.TemperatureRange,
		HumanProbability:  c.HumanProbability,
		ZombieProbability: c.ZombieProbability,
		HumanMin:          c.HumanMin,
		HumanMax:          c.HumanMax,
		ZombieMin:         c.ZombieMin,
		ZombieMax:         c.ZombieMax,
	}
}

// GenerateInitialGrid returns width*height cells in row-major order.
// The same Params always produce the same grid.
func GenerateInitialGrid(width, height int, p Params) []components.CellState {
	if width <= 0 || height <= 0 {
		return nil
	}
	terrain := NewTerrainGenerator(p.Seed, p.Octaves, p.BaseLevel, p.TemperatureScale)
	rng := rand.New(rand.NewPCG(uint64(p.Seed), uint64(p.Seed)^0x9E3779B97F4A7C15))

	cells := make([]components.CellState, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := &cells[y*width+x]
			c.EdgeDistance = int32(min(x, y, width-1-x, height-1-y))
			c.NeighborsCount = neighbourCount(x, y, width, height)
			c.Altitude = int32(terrain.Altitude(x, y) * p.AltitudeRange)
			c.Temperature = int32(terrain.Temperature(x, y) * p.TemperatureRange)

			switch r := rng.Float64(); {
			case r < p.HumanProbability:
				*c = c.WithOccupant(components.StatusHuman, randRange(rng, p.HumanMin, p.HumanMax))
			case r < p.HumanProbability+p.ZombieProbability:
				*c = c.WithOccupant(components.StatusZombie, randRange(rng, p.ZombieMin, p.ZombieMax))
			}
		}
	}
	return cells
}

// neighbourCount is 3 in corners, 5 along edges and 8 elsewhere.
func neighbourCount(x, y, w, h int) int32 {
	onX := x == 0 || x == w-1
	onY := y == 0 || y == h-1
	switch {
	case onX && onY:
		return 3
	case onX || onY:
		return 5
	default:
		return 8
	}
}

func randRange(rng *rand.Rand, lo, hi int) int32 {
	if hi <= lo {
		return int32(lo)
	}
	return int32(lo + rng.IntN(hi-lo))
}
