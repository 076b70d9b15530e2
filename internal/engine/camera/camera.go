// Package camera provides the orbiting perspective camera used by the viewer.
package camera

import (
	gomath "math"

	"github.com/Faultbox/glbview/pkg/math"
)

// Default projection and placement, matching the viewer's initial framing.
const (
	DefaultFOV     = 45.0 // degrees
	DefaultNear    = 0.01
	DefaultFar     = 1000.0
	DefaultDamping = 0.06
)

// DefaultEye is where the camera starts before any model is framed.
var DefaultEye = math.Vec3{X: 5, Y: 5, Z: 5}

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	// Target point to orbit around
	Target math.Vec3

	// Spherical coordinates relative to Target
	Distance float32 // Distance from target
	Pitch    float32 // Elevation above the XZ plane (radians)
	Yaw      float32 // Rotation around Y, 0 looks down -Z (radians)

	// Projection
	FOV    float32 // Vertical field of view in degrees
	Near   float32
	Far    float32
	Aspect float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Damping is the fraction of pending rotation applied per Update.
	// Zero applies rotation immediately.
	Damping float32

	pendingYaw   float32
	pendingPitch float32
}

// NewOrbitCamera creates a new orbit camera at DefaultEye looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		FOV:             DefaultFOV,
		Near:            DefaultNear,
		Far:             DefaultFar,
		Aspect:          16.0 / 9.0,
		MinDistance:     DefaultNear,
		MaxDistance:     DefaultFar,
		MinPitch:        -1.55,
		MaxPitch:        1.55,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Damping:         DefaultDamping,
	}
	c.SetPosition(DefaultEye, math.Vec3{})
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cosPitch := gomath.Cos(float64(c.Pitch))
	x := c.Distance * float32(cosPitch*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(cosPitch*gomath.Cos(float64(c.Yaw)))

	return c.Target.Add(math.Vec3{X: x, Y: y, Z: z})
}

// SetPosition places the camera at eye, orbiting target.
// Pending damped rotation is discarded.
func (c *OrbitCamera) SetPosition(eye, target math.Vec3) {
	offset := eye.Sub(target)
	horiz := gomath.Hypot(float64(offset.X), float64(offset.Z))

	c.Target = target
	c.Distance = offset.Length()
	c.Yaw = float32(gomath.Atan2(float64(offset.X), float64(offset.Z)))
	c.Pitch = float32(gomath.Atan2(float64(offset.Y), horiz))
	c.pendingYaw = 0
	c.pendingPitch = 0
}

// LookAt retargets the camera without moving it.
func (c *OrbitCamera) LookAt(target math.Vec3) {
	c.SetPosition(c.Position(), target)
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Target, up)
}

// ProjectionMatrix returns the perspective projection for the current aspect ratio.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	fovRad := c.FOV * gomath.Pi / 180
	return math.Perspective(float32(fovRad), c.Aspect, c.Near, c.Far)
}

// SetViewport updates the aspect ratio from a viewport size.
func (c *OrbitCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// HandleDrag queues rotation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.pendingYaw -= deltaX * c.DragSensitivity
	c.pendingPitch += deltaY * c.DragSensitivity
	if c.Damping <= 0 {
		c.Update()
	}
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// HandlePan moves the target in the camera's screen plane.
func (c *OrbitCamera) HandlePan(deltaX, deltaY float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.001

	rightX := float32(gomath.Cos(float64(c.Yaw)))
	rightZ := float32(-gomath.Sin(float64(c.Yaw)))

	c.Target.X -= rightX * deltaX * speed
	c.Target.Z -= rightZ * deltaX * speed
	c.Target.Y += deltaY * speed
}

// Update applies damped rotation. Call once per frame.
func (c *OrbitCamera) Update() {
	factor := c.Damping
	if factor <= 0 || factor > 1 {
		factor = 1
	}

	c.Yaw += c.pendingYaw * factor
	c.Pitch += c.pendingPitch * factor
	c.pendingYaw *= 1 - factor
	c.pendingPitch *= 1 - factor

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}
