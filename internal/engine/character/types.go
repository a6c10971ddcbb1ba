// Package character provides the animation catalog, per-character animation
// state machine and keyboard-driven locomotion.
package character

import (
	"github.com/Faultbox/midgard-rig/internal/engine/camera"
	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Key is a locomotion input.
type Key int

const (
	KeyForward Key = iota
	KeyBackward
	KeyRotateLeft
	KeyRotateRight
	keyCount
)

// String returns the key name.
func (k Key) String() string {
	switch k {
	case KeyForward:
		return "forward"
	case KeyBackward:
		return "backward"
	case KeyRotateLeft:
		return "rotateLeft"
	case KeyRotateRight:
		return "rotateRight"
	default:
		return "unknown"
	}
}

// opposite returns the conflicting key of the same axis.
func (k Key) opposite() Key {
	switch k {
	case KeyForward:
		return KeyBackward
	case KeyBackward:
		return KeyForward
	case KeyRotateLeft:
		return KeyRotateRight
	default:
		return KeyRotateLeft
	}
}

// Bounds is an axis-aligned box limiting movement on X and Z. The zero value
// does not limit movement.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Unbounded reports whether b is the zero value. A point or flat box is
// still a box and pins movement to it.
func (b Bounds) Unbounded() bool {
	return b == Bounds{}
}

// Contains reports whether p lies within b on X and Z.
func (b Bounds) Contains(p math.Vec3) bool {
	if b.Unbounded() {
		return true
	}
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp moves p onto b on X and Z.
func (b Bounds) Clamp(p math.Vec3) math.Vec3 {
	if b.Unbounded() {
		return p
	}
	p.X = clampf(p.X, b.Min.X, b.Max.X)
	p.Z = clampf(p.Z, b.Min.Z, b.Max.Z)
	return p
}

// Settings configures a Locomotion controller.
type Settings struct {
	MoveSpeed        float32 // world units per frame at full ramp
	ReferenceSpeed   float32 // move speed at which clips play at 1x
	RotationSpeed    float32 // radians per frame
	MinPlaybackSpeed float32
	// DoubleTapMargin extends the key-up suppression window past the end
	// clip, as a fraction of its playback time.
	DoubleTapMargin float32
	WalkCategory    string
	Bounds          Bounds
	BobAmount       float32
	BobSteps        int
	Scale           float32
	Heading         float32
}

// DefaultSettings returns the stock locomotion tuning.
func DefaultSettings() Settings {
	return Settings{
		MoveSpeed:        0.4,
		ReferenceSpeed:   0.4,
		RotationSpeed:    0.05,
		MinPlaybackSpeed: 0.05,
		DoubleTapMargin:  0.1,
		WalkCategory:     "normal",
		Bounds: Bounds{
			Min: math.Vec3{X: -100, Z: -100},
			Max: math.Vec3{X: 100, Z: 100},
		},
		BobAmount: 0.1,
		BobSteps:  25,
		Scale:     4,
	}
}

// DebugState is a snapshot for overlays and logs.
type DebugState struct {
	Position   math.Vec3
	Heading    float32
	ActiveClip string
	IsMoving   bool
	CameraMode camera.Mode
	HeldKeys   []string
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
