// Package tracer is the CPU sphere tracer. It evaluates a Go world map with the
// same uniform blocks, loop bounds, thresholds and light accumulation order as
// the rm_ray_march chunk, in float32, so both devices shade a scene alike.
package tracer

import (
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/sdf"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// normalEpsilon is the central-difference offset of CalcNormal.
	normalEpsilon = 0.001

	// shadowHitMargin is the distance below which a shadow ray is fully occluded.
	shadowHitMargin = 0.001
)

// Result describes how a primary ray terminated.
type Result struct {
	// Color is the shaded color, or the background when Hit is false.
	Color mgl32.Vec4

	// Hit is true when the ray reached a surface.
	Hit bool

	// Steps is the number of world-map samples taken by the primary loop.
	Steps int

	// T is the distance travelled along the ray.
	T float32
}

// Tracer shades rays against a world map. It holds no mutable state and is
// safe for concurrent use as long as the uniforms are not modified.
type Tracer struct {
	world    sdf.SDF
	uniforms *raymarch.Uniforms
}

// New creates a tracer over world reading the given uniform state.
//
// Parameters:
//   - world: the scene distance field
//   - uniforms: the frame's uniform blocks
//
// Returns:
//   - *Tracer: the tracer
func New(world sdf.SDF, uniforms *raymarch.Uniforms) *Tracer {
	return &Tracer{world: world, uniforms: uniforms}
}

// Shade traces the primary ray through screen coordinate uv, where (0, 0) is
// the bottom-left and (1, 1) the top-right of the viewport.
func (t *Tracer) Shade(uv mgl32.Vec2) mgl32.Vec4 {
	ro := t.uniforms.Frame.CameraPosition
	rd := t.WorldPos(uv).Sub(ro).Normalize()
	return t.RayMarch(ro, rd)
}

// WorldPos unprojects uv onto the camera's near plane in world space.
func (t *Tracer) WorldPos(uv mgl32.Vec2) mgl32.Vec3 {
	ndc := uv.Mul(2).Sub(mgl32.Vec2{1, 1})
	pView := t.uniforms.Frame.ProjectionInverse.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), -1, 1})
	pView = pView.Mul(1 / pView.W())
	return t.uniforms.Frame.WorldMatrix.Mul4x1(pView).Vec3()
}

// RayMarch returns the color seen along the ray from ro in direction rd.
func (t *Tracer) RayMarch(ro, rd mgl32.Vec3) mgl32.Vec4 {
	return t.March(ro, rd).Color
}

// March sphere-traces from ro along rd. The loop takes at most MaxSteps samples.
// A sample with |d| below MaxHitMargin is a hit and is shaded; travelling past
// MaxTravelDist or exhausting the budget is a miss that keeps the background.
//
// Parameters:
//   - ro: ray origin
//   - rd: normalized ray direction
//
// Returns:
//   - Result: the color and termination details
func (t *Tracer) March(ro, rd mgl32.Vec3) Result {
	m := t.uniforms.Marching
	bg := t.uniforms.Background
	res := Result{Color: mgl32.Vec4{bg.Color[0], bg.Color[1], bg.Color[2], bg.Alpha}}
	advance := raymarch.AdvanceScale(m.DistScale)

	var dist float32
	for i := int32(0); i < m.MaxSteps; i++ {
		p := ro.Add(rd.Mul(dist))
		d := t.world.Distance(p)
		res.Steps++

		if math32.Abs(d) < m.MaxHitMargin {
			res.Color = t.shadeHit(p).Vec4(1)
			res.Hit = true
			break
		}
		if dist > m.MaxTravelDist {
			break
		}
		dist += d * advance
	}
	res.T = dist
	return res
}

// shadeHit accumulates ambient, then directional, then point contributions,
// each bucket in input order.
func (t *Tracer) shadeHit(p mgl32.Vec3) mgl32.Vec3 {
	frame := &t.uniforms.Frame
	n := t.CalcNormal(p)
	var rgb mgl32.Vec3

	for _, l := range frame.Ambient {
		rgb = rgb.Add(mgl32.Vec3(l.Color).Mul(l.Intensity))
	}
	for _, l := range frame.Directional {
		if l.Visible == 0 {
			continue
		}
		ld := mgl32.Vec3(l.Position).Normalize()
		rgb = rgb.Add(mgl32.Vec3(l.Color).Mul(t.LightStrength(p, n, ld, l.Intensity, t.uniforms.SoftShadow.MaxT)))
	}
	for _, l := range frame.Point {
		if l.Visible == 0 {
			continue
		}
		toL := mgl32.Vec3(l.Position).Sub(p)
		dist := toL.Len()
		ld := toL.Normalize()
		var falloff float32 = 1
		if l.Distance > 0 {
			falloff = math32.Pow(math32.Max(0.001, 1-dist/l.Distance), l.Decay)
		}
		rgb = rgb.Add(mgl32.Vec3(l.Color).Mul(t.LightStrength(p, n, ld, l.Intensity, dist) * falloff))
	}
	return rgb
}

// LightStrength is the Lambert term scaled by intensity and soft-shadow visibility.
func (t *Tracer) LightStrength(p, n, ld mgl32.Vec3, intensity, maxT float32) float32 {
	ss := t.uniforms.SoftShadow
	return math32.Max(0, n.Dot(ld)) * intensity * t.SoftShadow(p, ld, ss.MinT, maxT, ss.K)
}

// SoftShadow estimates visibility in [0, 1] along the ray from ro in direction
// rd over [minT, maxT). A sample closer than 0.001 to geometry returns 0;
// otherwise the result is the minimum of k*h/t over all samples, capped at 1.
// Larger k gives harder shadows.
func (t *Tracer) SoftShadow(ro, rd mgl32.Vec3, minT, maxT, k float32) float32 {
	advance := raymarch.AdvanceScale(t.uniforms.SoftShadow.DistScale)
	res := float32(1)
	for s := minT; s < maxT; {
		h := t.world.Distance(ro.Add(rd.Mul(s)))
		if h < shadowHitMargin {
			return 0
		}
		res = math32.Min(res, k*h/s)
		s += h * advance
	}
	return res
}

// CalcNormal estimates the surface normal at p with central differences.
func (t *Tracer) CalcNormal(p mgl32.Vec3) mgl32.Vec3 {
	f := t.world.Distance
	dx := mgl32.Vec3{normalEpsilon, 0, 0}
	dy := mgl32.Vec3{0, normalEpsilon, 0}
	dz := mgl32.Vec3{0, 0, normalEpsilon}
	return mgl32.Vec3{
		f(p.Add(dx)) - f(p.Sub(dx)),
		f(p.Add(dy)) - f(p.Sub(dy)),
		f(p.Add(dz)) - f(p.Sub(dz)),
	}.Normalize()
}
