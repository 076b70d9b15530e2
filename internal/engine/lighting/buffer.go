// Package lighting packs the viewer's light ensemble and display filter
// into the flat values the shaders consume.
package lighting

import (
	"github.com/Faultbox/glbview/internal/viewer/scene"
)

// MaxDirectionalLights is the size of the directional light array in the scene shader.
const MaxDirectionalLights = 6

// DirectionalLight is one directional light ready for GPU upload.
type DirectionalLight struct {
	Direction [3]float32 // unit vector toward the light
	Color     [3]float32 // premultiplied by intensity
}

// Buffer holds every light uniform the scene shader reads.
type Buffer struct {
	Ambient     [3]float32
	SkyColor    [3]float32
	GroundColor [3]float32
	Directional [MaxDirectionalLights]DirectionalLight
	Count       int
}

// FromEnsemble packs the current ensemble intensities.
func FromEnsemble(e *scene.Ensemble) Buffer {
	var b Buffer
	if e.Ambient != nil {
		b.Ambient = premultiply(e.Ambient)
	}
	if h := e.Hemisphere; h != nil {
		b.SkyColor = premultiply(h)
		b.GroundColor = scale(h.GroundColor, h.Intensity)
	}
	for _, l := range e.Directional() {
		if l == nil || b.Count == MaxDirectionalLights {
			continue
		}
		b.Directional[b.Count] = DirectionalLight{
			Direction: l.Direction().Array(),
			Color:     premultiply(l),
		}
		b.Count++
	}
	return b
}

// Directions returns the light directions flattened for glUniform3fv.
func (b *Buffer) Directions() []float32 {
	out := make([]float32, 0, MaxDirectionalLights*3)
	for _, l := range b.Directional {
		out = append(out, l.Direction[:]...)
	}
	return out
}

// Colors returns the light colors flattened for glUniform3fv.
func (b *Buffer) Colors() []float32 {
	out := make([]float32, 0, MaxDirectionalLights*3)
	for _, l := range b.Directional {
		out = append(out, l.Color[:]...)
	}
	return out
}

func premultiply(l *scene.Light) [3]float32 {
	return scale(l.Color, l.Intensity)
}

func scale(c [3]float32, s float64) [3]float32 {
	f := float32(s)
	return [3]float32{c[0] * f, c[1] * f, c[2] * f}
}
