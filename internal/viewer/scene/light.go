package scene

import (
	"github.com/Faultbox/glbview/pkg/math"
)

// LightRadius is the distance at which every directional light is placed from the origin.
const LightRadius = 10

// LightKind identifies how a light contributes to shading.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightHemisphere
	LightDirectional
)

// Light is a fixed member of the viewer's light ensemble.
// Only Intensity changes after construction.
type Light struct {
	Name        string
	Kind        LightKind
	Color       [3]float32
	GroundColor [3]float32 // Hemisphere lights only
	Position    math.Vec3
	Intensity   float64
	CastShadow  bool
}

// Direction returns the unit vector from the origin toward the light.
func (l *Light) Direction() math.Vec3 {
	return l.Position.Normalize()
}

func directional(name string, dir math.Vec3, intensity float64) *Light {
	return &Light{
		Name:      name,
		Kind:      LightDirectional,
		Color:     [3]float32{1, 1, 1},
		Position:  dir.Normalize().Scale(LightRadius),
		Intensity: intensity,
	}
}

// Ensemble is the fixed set of lights every scene carries.
type Ensemble struct {
	Ambient     *Light
	Hemisphere  *Light
	Fill        [4]*Light
	BottomFill  *Light
	BottomFill2 *Light
}

// NewEnsemble builds the light set at its authored starting intensities.
// The lighting controller overwrites the intensities on its first refresh.
func NewEnsemble() Ensemble {
	return Ensemble{
		Ambient: &Light{
			Name:      "ambient",
			Kind:      LightAmbient,
			Color:     [3]float32{1, 1, 1},
			Intensity: 0.45,
		},
		Hemisphere: &Light{
			Name:        "hemisphere",
			Kind:        LightHemisphere,
			Color:       [3]float32{1, 1, 1},
			GroundColor: [3]float32{0x22 / 255.0, 0x22 / 255.0, 0x22 / 255.0},
			Position:    math.Vec3{X: 0, Y: 1, Z: 0},
			Intensity:   0.18,
		},
		Fill: [4]*Light{
			directional("fill-front-right", math.Vec3{X: 1, Y: 1, Z: 1}, 0.2),
			directional("fill-front-left", math.Vec3{X: -1, Y: 1, Z: 1}, 0.2),
			directional("fill-back-right", math.Vec3{X: 1, Y: 1, Z: -1}, 0.2),
			directional("fill-back-left", math.Vec3{X: -1, Y: 1, Z: -1}, 0.2),
		},
		BottomFill:  directional("bottom-fill", math.Vec3{X: 0, Y: -1, Z: 0}, 0.35),
		BottomFill2: directional("bottom-fill-2", math.Vec3{X: 0.6, Y: -0.8, Z: 0.4}, 0.18),
	}
}

// All returns the lights in a stable order: ambient, hemisphere, fills, bottom fills.
func (e *Ensemble) All() []*Light {
	lights := []*Light{e.Ambient, e.Hemisphere}
	lights = append(lights, e.Fill[:]...)
	return append(lights, e.BottomFill, e.BottomFill2)
}

// Directional returns the six directional lights in shader order.
func (e *Ensemble) Directional() []*Light {
	lights := append([]*Light{}, e.Fill[:]...)
	return append(lights, e.BottomFill, e.BottomFill2)
}
