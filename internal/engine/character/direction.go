package character

import (
	gomath "math"

	"github.com/Faultbox/midgard-rig/pkg/math"
)

// FullTurn is 2π as float32.
const FullTurn = float32(2 * gomath.Pi)

// WrapHeading folds a heading into (-2π, 2π) keeping its sign, so a
// character turning left keeps a positive heading.
func WrapHeading(h float32) float32 {
	return float32(gomath.Mod(float64(h), 2*gomath.Pi))
}

// Forward returns the unit facing vector for heading: (sin h, 0, cos h).
func Forward(heading float32) math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Sin(float64(heading))),
		Z: float32(gomath.Cos(float64(heading))),
	}
}

// ModelMatrix returns T(position) * RotY(heading) * S(scale).
func ModelMatrix(position math.Vec3, heading, scale float32) math.Mat4 {
	return math.Translate(position.X, position.Y, position.Z).
		Mul(math.RotateY(heading)).
		Mul(math.Scale(scale, scale, scale))
}
