// Package camera provides the character-following camera modes.
package camera

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Mode selects which camera follows the character.
type Mode int

const (
	Orbital Mode = iota
	ThirdPerson
	FirstPerson
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Orbital:
		return "orbital"
	case ThirdPerson:
		return "thirdPerson"
	case FirstPerson:
		return "firstPerson"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Next returns the mode after m in the toggle cycle
// orbital -> thirdPerson -> firstPerson -> orbital.
func (m Mode) Next() Mode {
	switch m {
	case Orbital:
		return ThirdPerson
	case ThirdPerson:
		return FirstPerson
	default:
		return Orbital
	}
}

// ParseMode parses a mode name as written in config files.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "orbital", "orbit":
		return Orbital, nil
	case "thirdPerson", "third", "third-person":
		return ThirdPerson, nil
	case "firstPerson", "first", "first-person":
		return FirstPerson, nil
	}
	return Orbital, fmt.Errorf("unknown camera mode %q", s)
}

var up = math.Vec3{X: 0, Y: 1, Z: 0}

// OrbitCamera orbits around a center point and ignores the character.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // Pitch (radians)
	RotationY float32 // Yaw (radians)

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        40.0,
		RotationX:       0.5,
		MinDistance:     5.0,
		MaxDistance:     400.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = clamp(c.RotationX, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// ThirdPersonCamera follows a target from behind and above.
type ThirdPersonCamera struct {
	Target math.Vec3
	Yaw    float32 // Horizontal rotation around target (radians)

	Distance    float32
	Height      float32
	MinDistance float32
	MaxDistance float32

	YawSensitivity  float32
	ZoomSensitivity float32
}

// NewThirdPersonCamera creates a third-person camera at the given offset.
func NewThirdPersonCamera(distance, height float32) *ThirdPersonCamera {
	return &ThirdPersonCamera{
		Distance:        distance,
		Height:          height,
		MinDistance:     2.0,
		MaxDistance:     60.0,
		YawSensitivity:  0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position: Distance behind the target along
// the yaw direction and Height above it.
func (c *ThirdPersonCamera) Position() math.Vec3 {
	return math.Vec3{
		X: c.Target.X - c.Distance*float32(gomath.Sin(float64(c.Yaw))),
		Y: c.Target.Y + c.Height,
		Z: c.Target.Z - c.Distance*float32(gomath.Cos(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix looking at the target.
func (c *ThirdPersonCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, up)
}

// HandleYaw rotates camera horizontally around target.
func (c *ThirdPersonCamera) HandleYaw(deltaX float32) {
	c.Yaw -= deltaX * c.YawSensitivity
}

// HandleZoom updates distance from target.
func (c *ThirdPersonCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// FirstPersonCamera sits at the character's eye and looks along its heading.
type FirstPersonCamera struct {
	Eye   math.Vec3
	Yaw   float32
	Pitch float32

	MinPitch float32
	MaxPitch float32
}

// NewFirstPersonCamera creates a first-person camera.
func NewFirstPersonCamera() *FirstPersonCamera {
	return &FirstPersonCamera{MinPitch: -1.4, MaxPitch: 1.4}
}

// Forward returns the unit view direction.
func (c *FirstPersonCamera) Forward() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: cp * float32(gomath.Sin(float64(c.Yaw))),
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: cp * float32(gomath.Cos(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix.
func (c *FirstPersonCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye, c.Eye.Add(c.Forward()), up)
}

// HandlePitch tilts the view vertically.
func (c *FirstPersonCamera) HandlePitch(delta float32) {
	c.Pitch = clamp(c.Pitch+delta, c.MinPitch, c.MaxPitch)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
