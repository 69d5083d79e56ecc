// Package sdf provides signed distance functions, operators, noise, and
// transforms for world maps evaluated on the CPU. Every function mirrors the
// WGSL helper of the same name in the built-in chunk library, so a Go world map
// built from them traces the same scene as its WGSL counterpart.
package sdf

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SDF is a signed distance field: negative inside geometry, positive outside.
type SDF interface {
	Distance(p mgl32.Vec3) float32
}

// Func adapts a plain function to SDF.
type Func func(p mgl32.Vec3) float32

// Distance calls f.
func (f Func) Distance(p mgl32.Vec3) float32 {
	return f(p)
}

// Scene builds the distance field for a point in time. Animated world maps read
// the elapsed time the same way WGSL world maps read uFrame.time.
type Scene func(time float32) SDF

// Static wraps a time-independent field as a Scene.
func Static(s SDF) Scene {
	return func(float32) SDF { return s }
}

// Sphere is the distance to a sphere of radius r at the origin.
func Sphere(p mgl32.Vec3, r float32) float32 {
	return p.Len() - r
}

// Box is the distance to an axis-aligned box with half extents b.
func Box(p, b mgl32.Vec3) float32 {
	q := vabs(p).Sub(b)
	return vmax0(q).Len() + math32.Min(maxComp(q), 0)
}

// RoundBox is a box with edges rounded by r.
func RoundBox(p, b mgl32.Vec3, r float32) float32 {
	q := vabs(p).Sub(b).Add(mgl32.Vec3{r, r, r})
	return vmax0(q).Len() + math32.Min(maxComp(q), 0) - r
}

// BoxFrame is the distance to the edges of a box with half extents b and edge thickness e.
func BoxFrame(p, b mgl32.Vec3, e float32) float32 {
	ev := mgl32.Vec3{e, e, e}
	q := vabs(p).Sub(b)
	w := vabs(q.Add(ev)).Sub(ev)

	edge := func(v mgl32.Vec3) float32 {
		return vmax0(v).Len() + math32.Min(maxComp(v), 0)
	}
	a := edge(mgl32.Vec3{q.X(), w.Y(), w.Z()})
	c := edge(mgl32.Vec3{w.X(), q.Y(), w.Z()})
	d := edge(mgl32.Vec3{w.X(), w.Y(), q.Z()})
	return math32.Min(math32.Min(a, c), d)
}

// Torus is a torus in the XZ plane with major radius t.X() and minor radius t.Y().
func Torus(p mgl32.Vec3, t mgl32.Vec2) float32 {
	q := mgl32.Vec2{mgl32.Vec2{p.X(), p.Z()}.Len() - t.X(), p.Y()}
	return q.Len() - t.Y()
}

// Plane is the distance to the plane dot(p, n) + h = 0. n must be normalized.
func Plane(p, n mgl32.Vec3, h float32) float32 {
	return p.Dot(n) + h
}

// Capsule is the distance to the segment a-b inflated by r.
func Capsule(p, a, b mgl32.Vec3, r float32) float32 {
	pa, ba := p.Sub(a), b.Sub(a)
	h := mgl32.Clamp(pa.Dot(ba)/ba.Dot(ba), 0, 1)
	return pa.Sub(ba.Mul(h)).Len() - r
}

// Union joins two fields.
func Union(d1, d2 float32) float32 {
	return math32.Min(d1, d2)
}

// Subtraction removes d1 from d2.
func Subtraction(d1, d2 float32) float32 {
	return math32.Max(-d1, d2)
}

// Intersection keeps the overlap of two fields.
func Intersection(d1, d2 float32) float32 {
	return math32.Max(d1, d2)
}

// SmoothUnion blends two fields over a band of width k.
func SmoothUnion(d1, d2, k float32) float32 {
	h := mgl32.Clamp(0.5+0.5*(d2-d1)/k, 0, 1)
	return mix(d2, d1, h) - k*h*(1-h)
}

// SmoothSubtraction removes d1 from d2 with a blend band of width k.
func SmoothSubtraction(d1, d2, k float32) float32 {
	h := mgl32.Clamp(0.5-0.5*(d2+d1)/k, 0, 1)
	return mix(d2, -d1, h) + k*h*(1-h)
}

// SmoothIntersection intersects two fields with a blend band of width k.
func SmoothIntersection(d1, d2, k float32) float32 {
	h := mgl32.Clamp(0.5-0.5*(d2-d1)/k, 0, 1)
	return mix(d2, d1, h) + k*h*(1-h)
}

// Round inflates a field by r.
func Round(d, r float32) float32 {
	return d - r
}

func mix(x, y, a float32) float32 {
	return x*(1-a) + y*a
}

func vabs(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2])}
}

func vmax0(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Max(v[0], 0), math32.Max(v[1], 0), math32.Max(v[2], 0)}
}

func maxComp(v mgl32.Vec3) float32 {
	return math32.Max(v[0], math32.Max(v[1], v[2]))
}
