package window

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-rig/pkg/math"
)

// Perspective clip planes, in world units.
const (
	PerspectiveNear = 0.1
	PerspectiveFar  = 500
)

// Perspective projects world positions through a camera view matrix onto a
// pixel rectangle.
type Perspective struct {
	clip       mgl32.Mat4
	x, y, w, h float32
}

// NewPerspective combines view with a perspective projection of vertical
// field of view fovY (radians) sized for the pixel rectangle (x, y, w, h).
func NewPerspective(view math.Mat4, fovY float32, x, y, w, h int) Perspective {
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	proj := mgl32.Perspective(fovY, aspect, PerspectiveNear, PerspectiveFar)
	return Perspective{
		clip: proj.Mul4(view.ToMGL()),
		x:    float32(x),
		y:    float32(y),
		w:    float32(w),
		h:    float32(h),
	}
}

// Project returns the pixel position of p and false when p is behind the
// near plane.
func (pv Perspective) Project(p math.Vec3) (int32, int32, bool) {
	c := pv.clip.Mul4x1(p.ToMGL().Vec4(1))
	if c.W() < PerspectiveNear {
		return 0, 0, false
	}
	ndcX, ndcY := c.X()/c.W(), c.Y()/c.W()
	px := pv.x + (ndcX+1)/2*pv.w
	py := pv.y + (1-ndcY)/2*pv.h
	return int32(px), int32(py), true
}
