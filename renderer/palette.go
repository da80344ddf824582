package renderer

import (
	"image/color"

	"github.com/pthm-cable/outbreak/components"
	"github.com/pthm-cable/outbreak/compute"
)

// ViewMode selects which cell field drives the board colour.
type ViewMode int

const (
	ViewOccupants ViewMode = iota
	ViewAltitude
	ViewTemperature
	ViewScent
	numViewModes
)

// String returns the display name for a ViewMode.
func (m ViewMode) String() string {
	switch m {
	case ViewOccupants:
		return "occupants"
	case ViewAltitude:
		return "altitude"
	case ViewTemperature:
		return "temperature"
	case ViewScent:
		return "scent"
	default:
		return "unknown"
	}
}

// Next cycles to the following view mode.
func (m ViewMode) Next() ViewMode {
	return (m + 1) % numViewModes
}

var (
	humanColor  = color.RGBA{R: 65, G: 105, B: 225, A: 255} // royal blue
	zombieColor = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	groundColor = color.RGBA{R: 244, G: 164, B: 96, A: 255} // sandy brown
)

// Palette maps cells to pixel colours.
type Palette struct {
	Mode ViewMode

	// Span of the terrain fields, used to normalise altitude and temperature.
	AltitudeRange    float32
	TemperatureRange float32
}

// Fill writes one pixel per cell into dst, which must be as long as cells.
func (p Palette) Fill(dst []color.RGBA, cells []components.CellState) {
	for i := range cells {
		dst[i] = p.Color(&cells[i])
	}
}

// Color returns the pixel colour for one cell.
func (p Palette) Color(c *components.CellState) color.RGBA {
	switch p.Mode {
	case ViewAltitude:
		return ramp(color.RGBA{B: 80, A: 255}, color.RGBA{R: 240, G: 240, B: 240, A: 255}, signedUnit(c.Altitude, p.AltitudeRange))
	case ViewTemperature:
		return ramp(color.RGBA{B: 200, A: 255}, color.RGBA{R: 220, A: 255}, signedUnit(c.Temperature, p.TemperatureRange))
	case ViewScent:
		h := unit(c.SmellHuman, compute.MaxPopulation)
		z := unit(c.SmellZombie, compute.MaxPopulation)
		return color.RGBA{R: 0, G: uint8(z * 255), B: uint8(h * 255), A: 255}
	}

	shade := 0.35 + 0.3*signedUnit(c.Altitude, p.AltitudeRange)
	ground := scale(groundColor, shade)
	switch c.Status {
	case components.StatusHuman:
		return ramp(ground, humanColor, 0.4+0.6*unit(c.Population, compute.MaxPopulation))
	case components.StatusZombie:
		return ramp(ground, zombieColor, 0.4+0.6*unit(c.Population, compute.MaxPopulation))
	}
	return ground
}

// unit maps [0, max] onto [0, 1], clamped.
func unit(v int32, max int32) float32 {
	if max <= 0 || v <= 0 {
		return 0
	}
	if v >= max {
		return 1
	}
	return float32(v) / float32(max)
}

// signedUnit maps [-span, span] onto [0, 1], clamped.
func signedUnit(v int32, span float32) float32 {
	if span <= 0 {
		return 0.5
	}
	f := (float32(v)/span + 1) / 2
	return min(max(f, 0), 1)
}

func ramp(a, b color.RGBA, t float32) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

func scale(c color.RGBA, f float32) color.RGBA {
	return color.RGBA{R: uint8(float32(c.R) * f), G: uint8(float32(c.G) * f), B: uint8(float32(c.B) * f), A: 255}
}
