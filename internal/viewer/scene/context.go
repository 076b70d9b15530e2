package scene

import (
	"github.com/Faultbox/glbview/internal/engine/camera"
	"github.com/Faultbox/glbview/internal/viewer/lighting"
	"github.com/Faultbox/glbview/pkg/math"
)

// ToneMapping selects the renderer's tone-mapping operator.
type ToneMapping int

const (
	ToneMappingNone ToneMapping = iota
	ToneMappingACESFilmic
)

// RendererState is the renderer-facing part of the context.
type RendererState struct {
	Exposure         float64
	ToneMapping      ToneMapping
	OutputColorSpace ColorSpace
	ShadowsEnabled   bool
	Background       [3]float32
}

// DisplayState is the display filter applied after the frame is composited.
type DisplayState struct {
	Saturation float64
}

// Context is the scene, renderer settings, light ensemble and camera for one viewer session.
// It is owned by the render goroutine.
type Context struct {
	Renderer RendererState
	Display  DisplayState
	Lights   Ensemble
	Camera   *camera.OrbitCamera
	Root     *Node

	model *Node
}

// DefaultBackground is the clear color (#071018).
var DefaultBackground = [3]float32{0x07 / 255.0, 0x10 / 255.0, 0x18 / 255.0}

// NewContext creates a scene with the light ensemble and default camera.
func NewContext() *Context {
	return &Context{
		Renderer: RendererState{
			Exposure:         1,
			ToneMapping:      ToneMappingACESFilmic,
			OutputColorSpace: ColorSpaceSRGB,
			ShadowsEnabled:   true,
			Background:       DefaultBackground,
		},
		Display: DisplayState{Saturation: 1},
		Lights:  NewEnsemble(),
		Camera:  camera.NewOrbitCamera(),
		Root:    NewNode("scene"),
	}
}

// Model returns the current model, or nil.
func (c *Context) Model() *Node {
	return c.model
}

// SetModel inserts model under the root and makes it current.
// A previously current model is detached from the graph first.
func (c *Context) SetModel(model *Node) {
	if c.model != nil && c.model != model {
		c.Root.Remove(c.model)
	}
	if model != nil {
		c.Root.Add(model)
	}
	c.model = model
}

// SetExposure implements lighting.Rig.
func (c *Context) SetExposure(exposure float64) {
	c.Renderer.Exposure = exposure
}

// SetSaturation implements lighting.Rig.
func (c *Context) SetSaturation(saturation float64) {
	c.Display.Saturation = saturation
}

// SetLightIntensity implements lighting.Rig.
func (c *Context) SetLightIntensity(role lighting.Role, intensity float64) {
	switch role {
	case lighting.RoleAmbient:
		c.Lights.Ambient.Intensity = intensity
	case lighting.RoleHemisphere:
		c.Lights.Hemisphere.Intensity = intensity
	case lighting.RoleFill:
		for _, l := range c.Lights.Fill {
			l.Intensity = intensity
		}
	case lighting.RoleBottomFill:
		c.Lights.BottomFill.Intensity = intensity
	case lighting.RoleBottomFillSecondary:
		c.Lights.BottomFill2.Intensity = intensity
	}
}

// DefaultFrameDistance is the framing distance for models with no extent.
const DefaultFrameDistance = 10

// FrameElevation is the camera height as a fraction of the framing distance.
const FrameElevation = 0.7

// Recenter moves the current model so its bounding-box center sits at the origin
// and places the camera to frame it. It reports false when there is no model.
func (c *Context) Recenter() bool {
	if c.model == nil {
		return false
	}

	box := BoundingBox(c.model)
	center := box.Center()
	if c.model.Matrix != nil {
		m := math.Translate(-center.X, -center.Y, -center.Z).Mul(*c.model.Matrix)
		c.model.Matrix = &m
	} else {
		c.model.Position = c.model.Position.Sub(center)
	}

	distance := box.Size().MaxComponent() * 2
	if !(distance > 0) {
		distance = DefaultFrameDistance
	}
	eye := math.Vec3{X: distance, Y: distance * FrameElevation, Z: distance}
	c.Camera.SetPosition(eye, math.Vec3{})
	return true
}
