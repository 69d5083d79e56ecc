package sdf

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPrimitives(t *testing.T) {
	cases := []struct {
		name string
		got  float32
		want float32
	}{
		{"sphere outside", Sphere(mgl32.Vec3{0, 0, 3}, 1), 2},
		{"sphere inside", Sphere(mgl32.Vec3{}, 1), -1},
		{"box face", Box(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{1, 1, 1}), 2},
		{"box corner", Box(mgl32.Vec3{2, 2, 1}, mgl32.Vec3{1, 1, 1}), math32.Sqrt(2)},
		{"box inside", Box(mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{1, 1, 1}), -0.5},
		{"round box face", RoundBox(mgl32.Vec3{3, 0, 0}, mgl32.Vec3{1, 1, 1}, 0.2), 2},
		{"box frame inside edge", BoxFrame(mgl32.Vec3{0.95, 0.95, 0}, mgl32.Vec3{1, 1, 1}, 0.1), -0.05},
		{"box frame face center", BoxFrame(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 1}, 0.1), 0.8},
		{"torus ring", Torus(mgl32.Vec3{2, 0, 0}, mgl32.Vec2{2, 0.5}), -0.5},
		{"torus center", Torus(mgl32.Vec3{}, mgl32.Vec2{2, 0.5}), 1.5},
		{"plane", Plane(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{0, 1, 0}, 1), 4},
		{"capsule", Capsule(mgl32.Vec3{1, 0.5, 0}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0.25), 0.75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.got, 1e-5)
		})
	}
}

func TestOperators(t *testing.T) {
	assert.Equal(t, float32(1), Union(1, 2))
	assert.Equal(t, float32(2), Intersection(1, 2))
	assert.Equal(t, float32(2), Subtraction(3, 2))
	assert.Equal(t, float32(0.5), Round(1, 0.5))

	// Far apart relative to k the smooth operators equal their sharp versions.
	assert.InDelta(t, Union(1, 5), SmoothUnion(1, 5, 0.1), 1e-6)
	assert.InDelta(t, Intersection(1, 5), SmoothIntersection(1, 5, 0.1), 1e-6)
	assert.InDelta(t, Subtraction(-5, 1), SmoothSubtraction(-5, 1, 0.1), 1e-6)

	// Inside the band the union is pulled below both inputs.
	assert.Less(t, SmoothUnion(1, 1, 1), float32(1))
}

func TestFuncAndStatic(t *testing.T) {
	f := Func(func(p mgl32.Vec3) float32 { return Sphere(p, 2) })
	scene := Static(f)

	assert.Equal(t, float32(3), scene(10).Distance(mgl32.Vec3{5, 0, 0}))
	assert.Equal(t, scene(0).Distance(mgl32.Vec3{1, 0, 0}), scene(99).Distance(mgl32.Vec3{1, 0, 0}))
}

func TestTransforms(t *testing.T) {
	r := Rotation3D(mgl32.Vec3{0, 0, 1}, math32.Pi/2)

	// The rotation is orthonormal, so Tx applies its inverse.
	rrt, ident := r.Mul4(r.Transpose()), mgl32.Ident4()
	assert.InDeltaSlice(t, ident[:], rrt[:], 1e-5)
	p := mgl32.Vec3{1, 2, 3}
	back := r.Mul4x1(Tx(p, r).Vec4(1)).Vec3()
	assert.InDeltaSlice(t, p[:], back[:], 1e-5)

	// Unnormalized axes are normalized.
	scaled, unit := Rotation3D(mgl32.Vec3{0, 0, 5}, 1), Rotation3D(mgl32.Vec3{0, 0, 1}, 1)
	assert.InDeltaSlice(t, unit[:], scaled[:], 1e-6)

	assert.Equal(t, mgl32.Vec3{2, 2, 2}, Displace(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1}))
}

func TestCNoise(t *testing.T) {
	for _, p := range []mgl32.Vec3{{0, 0, 0}, {1, 2, 3}, {-4, 7, 11}} {
		assert.InDelta(t, 0, CNoise(p), 1e-5, "lattice point %v", p)
	}

	nonZero := false
	for i := range 200 {
		f := float32(i)
		p := mgl32.Vec3{f * 0.173, f * 0.311, f * 0.057}
		n := CNoise(p)
		assert.LessOrEqual(t, math32.Abs(n), float32(1.5))
		assert.Equal(t, n, CNoise(p))
		if math32.Abs(n) > 1e-3 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}
