package math

import "github.com/go-gl/mathgl/mgl32"

// ToMGL converts m to an mgl32 matrix. Both are column-major so this is a copy.
func (m Mat4) ToMGL() mgl32.Mat4 {
	return mgl32.Mat4(m)
}

// ToMGL converts v to an mgl32 vector.
func (v Vec3) ToMGL() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
