// Package mapgen produces the initial board: terrain from simplex noise and a
// random scattering of humans and zombies.
package mapgen

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// TerrainGenerator samples altitude and temperature from two independent
// noise fields derived from one seed.
type TerrainGenerator struct {
	altitude    opensimplex.Noise
	temperature opensimplex.Noise
	octaves     int
	baseLevel   float64
	tempScale   float64
}

// NewTerrainGenerator splits seed into its low and high 32 bits, one per field.
func NewTerrainGenerator(seed int64, octaves int, baseLevel, tempScale float64) *TerrainGenerator {
	if octaves < 1 {
		octaves = 1
	}
	if baseLevel <= 0 {
		baseLevel = 100
	}
	if tempScale <= 0 {
		tempScale = 20
	}
	return &TerrainGenerator{
		altitude:    opensimplex.New(seed & 0xFFFF_FFFF),
		temperature: opensimplex.New((seed >> 32) & 0xFFFF_FFFF),
		octaves:     octaves,
		baseLevel:   baseLevel,
		tempScale:   tempScale,
	}
}

// Altitude averages the octaves of the altitude field at (x, y). Each octave
// doubles the frequency. Result is in [-1, 1].
func (g *TerrainGenerator) Altitude(x, y int) float64 {
	var sum float64
	for level := 0; level < g.octaves; level++ {
		period := g.baseLevel / float64(int(1)<<level)
		sum += g.altitude.Eval2(float64(x)/period, float64(y)/period)
	}
	return sum / float64(g.octaves)
}

// Temperature samples the single-octave temperature field. Result is in [-1, 1].
func (g *TerrainGenerator) Temperature(x, y int) float64 {
	return g.temperature.Eval2(float64(x)/g.tempScale, float64(y)/g.tempScale)
}
