package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/glbview/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-3
}

func nearVec(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestNewOrbitCameraStartsAtDefaultEye(t *testing.T) {
	c := NewOrbitCamera()
	if got := c.Position(); !nearVec(got, DefaultEye) {
		t.Errorf("Position() = %v, want %v", got, DefaultEye)
	}
	if c.Target != (math.Vec3{}) {
		t.Errorf("Target = %v, want origin", c.Target)
	}
}

func TestSetPositionRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		eye    math.Vec3
		target math.Vec3
	}{
		{"framed", math.Vec3{X: 12, Y: 8.4, Z: 12}, math.Vec3{}},
		{"below", math.Vec3{X: -3, Y: -2, Z: 1}, math.Vec3{}},
		{"offset target", math.Vec3{X: 4, Y: 6, Z: 8}, math.Vec3{X: 1, Y: 1, Z: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			c.SetPosition(tt.eye, tt.target)
			if got := c.Position(); !nearVec(got, tt.eye) {
				t.Errorf("Position() = %v, want %v", got, tt.eye)
			}
		})
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	c.MaxDistance = 20
	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.Distance != 20 {
		t.Errorf("Distance = %v, want clamped to 20", c.Distance)
	}
	for i := 0; i < 1000; i++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("Distance = %v, want clamped to %v", c.Distance, c.MinDistance)
	}
}

func TestDampedRotationConverges(t *testing.T) {
	c := NewOrbitCamera()
	startYaw := c.Yaw

	c.HandleDrag(-100, 0)
	if c.Yaw != startYaw {
		t.Fatal("damped drag should not rotate before Update")
	}

	c.Update()
	first := c.Yaw - startYaw
	if !near(first, 100*c.DragSensitivity*DefaultDamping) {
		t.Errorf("first update moved %v, want %v", first, 100*c.DragSensitivity*DefaultDamping)
	}

	for i := 0; i < 500; i++ {
		c.Update()
	}
	if !near(c.Yaw-startYaw, 100*c.DragSensitivity) {
		t.Errorf("total yaw = %v, want %v", c.Yaw-startYaw, 100*c.DragSensitivity)
	}
}

func TestUndampedRotationIsImmediate(t *testing.T) {
	c := NewOrbitCamera()
	c.Damping = 0
	startYaw := c.Yaw
	c.HandleDrag(-10, 0)
	if !near(c.Yaw-startYaw, 10*c.DragSensitivity) {
		t.Errorf("yaw delta = %v, want %v", c.Yaw-startYaw, 10*c.DragSensitivity)
	}
}

func TestPitchClamped(t *testing.T) {
	c := NewOrbitCamera()
	c.Damping = 0
	c.HandleDrag(0, 100000)
	if c.Pitch != c.MaxPitch {
		t.Errorf("Pitch = %v, want %v", c.Pitch, c.MaxPitch)
	}
}

func TestSetViewportIgnoresZero(t *testing.T) {
	c := NewOrbitCamera()
	c.SetViewport(800, 400)
	if c.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", c.Aspect)
	}
	c.SetViewport(0, 0)
	if c.Aspect != 2 {
		t.Errorf("Aspect changed on zero viewport: %v", c.Aspect)
	}
}
