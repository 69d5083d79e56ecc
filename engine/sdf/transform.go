package sdf

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Rotation3D returns the homogeneous rotation of angle radians around axis.
// The element order matches rotation3d in the rm_transform chunk.
func Rotation3D(axis mgl32.Vec3, angle float32) mgl32.Mat4 {
	a := axis.Normalize()
	s, c := math32.Sin(angle), math32.Cos(angle)
	oc := 1 - c
	x, y, z := a[0], a[1], a[2]

	return mgl32.Mat4{
		oc*x*x + c, oc*x*y - z*s, oc*z*x + y*s, 0,
		oc*x*y + z*s, oc*y*y + c, oc*y*z - x*s, 0,
		oc*z*x - y*s, oc*y*z + x*s, oc*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Tx moves p into the local frame of the orthonormal transform t.
func Tx(p mgl32.Vec3, t mgl32.Mat4) mgl32.Vec3 {
	return t.Transpose().Mul4x1(p.Vec4(1)).Vec3()
}

// Displace offsets p by d.
func Displace(p, d mgl32.Vec3) mgl32.Vec3 {
	return p.Add(d)
}
