// Package lighting maps the viewer's brightness and saturation controls onto
// renderer exposure, light-ensemble intensities and the display filter.
package lighting

import (
	"fmt"
	"math"
)

// Brightness slider range.
const (
	MinBrightness float64 = 1
	MaxBrightness float64 = 100
)

// Exposure curve. The exponent keeps the low end of the slider fine-grained.
const (
	ResponseExponent float64 = 3.2
	MinExposure      float64 = 0.0001
	MaxExposure      float64 = 5000
)

// Role identifies a light (or group of lights) driven by the curve.
type Role int

const (
	RoleAmbient Role = iota
	RoleHemisphere
	RoleFill // all four symmetric fill lights
	RoleBottomFill
	RoleBottomFillSecondary
)

// Roles lists every role in cascade order.
var Roles = []Role{RoleAmbient, RoleHemisphere, RoleFill, RoleBottomFill, RoleBottomFillSecondary}

func (r Role) String() string {
	switch r {
	case RoleAmbient:
		return "ambient"
	case RoleHemisphere:
		return "hemisphere"
	case RoleFill:
		return "fill"
	case RoleBottomFill:
		return "bottom_fill"
	case RoleBottomFillSecondary:
		return "bottom_fill_2"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Coupling is how one role follows exposure.
type Coupling struct {
	Factor float64
	Min    float64
	Max    float64
}

// Intensity returns the clamped intensity for the given exposure.
func (c Coupling) Intensity(exposure float64) float64 {
	return clamp(exposure*c.Factor, c.Min, c.Max)
}

// couplings is the per-role multiplier and bounds table.
var couplings = map[Role]Coupling{
	RoleAmbient:             {Factor: 0.02, Min: 0.05, Max: 300},
	RoleHemisphere:          {Factor: 0.006, Min: 0.03, Max: 150},
	RoleFill:                {Factor: 0.003, Min: 0.06, Max: 150},
	RoleBottomFill:          {Factor: 0.006, Min: 0.12, Max: 300},
	RoleBottomFillSecondary: {Factor: 0.003, Min: 0.08, Max: 150},
}

// CouplingFor returns the coupling for role.
func CouplingFor(role Role) (Coupling, bool) {
	c, ok := couplings[role]
	return c, ok
}

// Levels is the full output of the curve for one brightness value.
type Levels struct {
	Exposure    float64
	Ambient     float64
	Hemisphere  float64
	Fill        float64
	BottomFill  float64
	BottomFill2 float64
}

// Intensity returns the level for role.
func (l Levels) Intensity(role Role) float64 {
	switch role {
	case RoleAmbient:
		return l.Ambient
	case RoleHemisphere:
		return l.Hemisphere
	case RoleFill:
		return l.Fill
	case RoleBottomFill:
		return l.BottomFill
	case RoleBottomFillSecondary:
		return l.BottomFill2
	}
	return 0
}

// ClampBrightness limits b to the slider range. NaN maps to the minimum.
func ClampBrightness(b float64) float64 {
	if math.IsNaN(b) {
		return MinBrightness
	}
	return clamp(b, MinBrightness, MaxBrightness)
}

// Progress maps brightness onto [0,1].
func Progress(b float64) float64 {
	return (ClampBrightness(b) - MinBrightness) / (MaxBrightness - MinBrightness)
}

// Exposure returns the clamped renderer exposure for brightness b.
func Exposure(b float64) float64 {
	t := Progress(b)
	e := 1 + (MaxExposure-1)*math.Pow(t, ResponseExponent)
	return clamp(e, MinExposure, MaxExposure)
}

// Response computes exposure and every light intensity for brightness b.
func Response(b float64) Levels {
	e := Exposure(b)
	return Levels{
		Exposure:    e,
		Ambient:     couplings[RoleAmbient].Intensity(e),
		Hemisphere:  couplings[RoleHemisphere].Intensity(e),
		Fill:        couplings[RoleFill].Intensity(e),
		BottomFill:  couplings[RoleBottomFill].Intensity(e),
		BottomFill2: couplings[RoleBottomFillSecondary].Intensity(e),
	}
}

// BrightnessLabel formats brightness as shown next to the slider.
func BrightnessLabel(b float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(ClampBrightness(b))))
}

// SaturationLabel formats saturation as a percentage.
func SaturationLabel(s float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(s*100)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
