package window

import "github.com/Faultbox/midgard-rig/pkg/math"

// Plane selects which world axes a viewport shows.
type Plane int

const (
	// TopDown shows X across and Z up the screen.
	TopDown Plane = iota
	// Front shows X across and Y up the screen.
	Front
)

// Viewport maps a world rectangle onto a pixel rectangle, keeping the
// aspect ratio and centering the unused space.
type Viewport struct {
	Plane Plane

	// world rectangle on the plane's axes
	minU, minV float32
	maxU, maxV float32

	// pixel origin and scale
	x, y  float32
	scale float32
	h     float32
}

// Fit returns a viewport showing [minU,maxU]x[minV,maxV] of plane inside
// the pixel rectangle (x, y, w, h).
func Fit(plane Plane, minU, minV, maxU, maxV float32, x, y, w, h int) Viewport {
	vp := Viewport{Plane: plane, minU: minU, minV: minV, maxU: maxU, maxV: maxV}
	du, dv := maxU-minU, maxV-minV
	if du <= 0 || dv <= 0 || w <= 0 || h <= 0 {
		return vp
	}

	vp.scale = float32(w) / du
	if s := float32(h) / dv; s < vp.scale {
		vp.scale = s
	}
	usedW, usedH := du*vp.scale, dv*vp.scale
	vp.x = float32(x) + (float32(w)-usedW)/2
	vp.y = float32(y) + (float32(h)-usedH)/2
	vp.h = usedH
	return vp
}

// Project returns the pixel position of p. Points outside the world
// rectangle project outside the pixel rectangle.
func (vp Viewport) Project(p math.Vec3) (int32, int32) {
	u, v := p.X, p.Z
	if vp.Plane == Front {
		v = p.Y
	}
	px := vp.x + (u-vp.minU)*vp.scale
	py := vp.y + vp.h - (v-vp.minV)*vp.scale
	return int32(px), int32(py)
}

// Scale returns pixels per world unit.
func (vp Viewport) Scale() float32 {
	return vp.scale
}

// Bounds returns the pixel rectangle actually covered by the world
// rectangle.
func (vp Viewport) Bounds() (x, y, w, h int32) {
	return int32(vp.x), int32(vp.y), int32((vp.maxU - vp.minU) * vp.scale), int32(vp.h)
}
