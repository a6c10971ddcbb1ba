package math

import "github.com/go-gl/mathgl/mgl32"

// Conversions back from mgl32 exist only to compare against it as an oracle.

func Mat4FromMGL(m mgl32.Mat4) Mat4 {
	return Mat4(m)
}

func (q Quat) ToMGL() mgl32.Quat {
	return mgl32.Quat{W: q.W, V: mgl32.Vec3{q.X, q.Y, q.Z}}
}

func QuatFromMGL(q mgl32.Quat) Quat {
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}
