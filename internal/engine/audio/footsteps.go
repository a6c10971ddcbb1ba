package audio

import "github.com/Faultbox/midgard-rig/pkg/math"

// Footsteps turns horizontal travel into footstep events.
type Footsteps struct {
	Stride float32

	last      math.Vec3
	hasLast   bool
	travelled float32
}

// NewFootsteps creates a detector that fires once per stride of travel.
func NewFootsteps(stride float32) *Footsteps {
	return &Footsteps{Stride: stride}
}

// Observe records the character position for one frame and reports whether
// a footstep lands. Standing still resets the stride so the first step after
// a stop lands one full stride later.
func (f *Footsteps) Observe(pos math.Vec3, moving bool) bool {
	defer func() {
		f.last = pos
		f.hasLast = true
	}()

	if !moving || f.Stride <= 0 {
		f.travelled = 0
		return false
	}
	if !f.hasLast {
		return false
	}

	// Y is bob, not travel
	d := math.Vec3{X: pos.X - f.last.X, Z: pos.Z - f.last.Z}
	f.travelled += d.Length()
	if f.travelled < f.Stride {
		return false
	}
	f.travelled -= f.Stride
	return true
}
