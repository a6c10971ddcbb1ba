package camera

import "github.com/Faultbox/midgard-rig/pkg/math"

// Rig owns one camera per mode and keeps the active one attached to a
// character.
type Rig struct {
	mode Mode

	Orbit *OrbitCamera
	Third *ThirdPersonCamera
	First *FirstPersonCamera

	// TargetHeight lifts the third-person look-at point off the feet.
	TargetHeight float32
	// EyeHeight lifts the first-person eye off the feet.
	EyeHeight float32
}

// Settings configures a Rig.
type Settings struct {
	Mode              Mode
	Distance          float32
	Height            float32
	FirstPersonHeight float32
}

// NewRig creates a rig in the configured mode.
func NewRig(s Settings) *Rig {
	return &Rig{
		mode:         s.Mode,
		Orbit:        NewOrbitCamera(),
		Third:        NewThirdPersonCamera(s.Distance, s.Height),
		First:        NewFirstPersonCamera(),
		TargetHeight: 4.0,
		EyeHeight:    s.FirstPersonHeight,
	}
}

// Mode returns the active mode.
func (r *Rig) Mode() Mode {
	return r.mode
}

// SetMode switches the active camera.
func (r *Rig) SetMode(m Mode) {
	r.mode = m
}

// Toggle advances to the next mode and returns it.
func (r *Rig) Toggle() Mode {
	r.mode = r.mode.Next()
	return r.mode
}

// ModelVisible reports whether the character mesh should be drawn.
// The first-person camera sits inside the head.
func (r *Rig) ModelVisible() bool {
	return r.mode != FirstPerson
}

// Track updates the active camera from the character position and heading.
func (r *Rig) Track(position math.Vec3, heading float32) {
	switch r.mode {
	case FirstPerson:
		r.First.Eye = position.Add(math.Vec3{Y: r.EyeHeight})
		r.First.Yaw = heading
	case ThirdPerson:
		r.Third.Target = position.Add(math.Vec3{Y: r.TargetHeight})
	case Orbital:
		// Free camera, not attached
	}
}

// Position returns the active camera's world position.
func (r *Rig) Position() math.Vec3 {
	switch r.mode {
	case FirstPerson:
		return r.First.Eye
	case ThirdPerson:
		return r.Third.Position()
	default:
		return r.Orbit.Position()
	}
}

// ViewMatrix returns the active camera's view matrix.
func (r *Rig) ViewMatrix() math.Mat4 {
	switch r.mode {
	case FirstPerson:
		return r.First.ViewMatrix()
	case ThirdPerson:
		return r.Third.ViewMatrix()
	default:
		return r.Orbit.ViewMatrix()
	}
}

// HandleDrag routes a mouse drag to the active camera: orbit in orbital
// mode, yaw around the target in third person, pitch in first person.
func (r *Rig) HandleDrag(deltaX, deltaY float32) {
	switch r.mode {
	case Orbital:
		r.Orbit.HandleDrag(deltaX, deltaY)
	case ThirdPerson:
		r.Third.HandleYaw(deltaX)
	case FirstPerson:
		r.First.HandlePitch(-deltaY * r.Third.YawSensitivity)
	}
}

// HandleZoom routes a scroll delta to the active camera. First person has
// no zoom.
func (r *Rig) HandleZoom(delta float32) {
	switch r.mode {
	case Orbital:
		r.Orbit.HandleZoom(delta)
	case ThirdPerson:
		r.Third.HandleZoom(delta)
	}
}
