package tracer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/sdf"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var unitSphere = sdf.Func(func(p mgl32.Vec3) float32 { return sdf.Sphere(p, 1) })

// countingSDF records how many times the field was sampled.
type countingSDF struct {
	d     float32
	calls int
}

func (c *countingSDF) Distance(mgl32.Vec3) float32 {
	c.calls++
	return c.d
}

func defaultUniforms(lights ...light.Light) *raymarch.Uniforms {
	cfg, err := raymarch.Configure(raymarch.NewOptions(
		raymarch.WithWorldMap("unused"),
		raymarch.WithCamera(camera.NewCamera()),
	))
	if err != nil {
		panic(err)
	}
	return &raymarch.Uniforms{
		Frame:      raymarch.NewFrameState(light.Classify(lights)),
		Marching:   cfg.Marching,
		SoftShadow: cfg.SoftShadow,
		Background: cfg.Background,
	}
}

var (
	origin = mgl32.Vec3{0, 0, 5}
	down   = mgl32.Vec3{0, 0, -1}
)

func TestRayMarchHitAmbient(t *testing.T) {
	u := defaultUniforms(light.NewLight(light.LightTypeAmbient, light.WithColor(1, 1, 1), light.WithIntensity(1)))

	res := New(unitSphere, u).March(origin, down)
	require.True(t, res.Hit)
	assert.InDelta(t, 4, res.T, 1e-5)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, res.Color)
}

func TestRayMarchAmbientIgnoresVisibility(t *testing.T) {
	u := defaultUniforms(light.NewLight(light.LightTypeAmbient, light.WithColor(0.5, 0.25, 1), light.WithVisible(false)))

	c := New(unitSphere, u).RayMarch(origin, down)
	assert.Equal(t, mgl32.Vec4{0.5, 0.25, 1, 1}, c)
}

func TestRayMarchMissKeepsBackground(t *testing.T) {
	u := defaultUniforms(light.NewLight(light.LightTypeAmbient))
	u.Marching.MaxTravelDist = 0
	u.Background = raymarch.BackgroundConfig{Color: [3]float32{0.2, 0.4, 0.6}, Alpha: 0.8}

	far := sdf.Func(func(p mgl32.Vec3) float32 { return sdf.Sphere(p.Sub(mgl32.Vec3{0, 0, -50}), 1) })
	res := New(far, u).March(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0})

	assert.False(t, res.Hit)
	assert.Equal(t, mgl32.Vec4{0.2, 0.4, 0.6, 0.8}, res.Color)
}

func TestRayMarchStepBudget(t *testing.T) {
	u := defaultUniforms()
	u.Marching.MaxSteps = 50
	u.Background.Alpha = 0.3

	world := &countingSDF{d: 0.01}
	res := New(world, u).March(origin, down)

	assert.False(t, res.Hit)
	assert.Equal(t, 50, res.Steps)
	assert.Equal(t, 50, world.calls)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 0.3}, res.Color)
}

func TestRayMarchClampsAdvanceScale(t *testing.T) {
	u := defaultUniforms()
	u.Marching.MaxSteps = 10
	u.Marching.DistScale = -1

	res := New(&countingSDF{d: 1}, u).March(origin, down)
	assert.Equal(t, 10, res.Steps)
	assert.InDelta(t, 0.1, res.T, 1e-5)
}

func TestRayMarchDeterministic(t *testing.T) {
	u := defaultUniforms(
		light.NewLight(light.LightTypeAmbient, light.WithIntensity(0.1)),
		light.NewLight(light.LightTypeDirectional, light.WithPosition(1, 1, 1)),
		light.NewLight(light.LightTypePoint, light.WithPosition(2, 2, 2), light.WithFalloff(8, 1)),
	)
	world := sdf.Func(func(p mgl32.Vec3) float32 {
		return sdf.SmoothUnion(sdf.Sphere(p, 1), sdf.Box(p.Sub(mgl32.Vec3{1.5, 0, 0}), mgl32.Vec3{0.5, 0.5, 0.5}), 0.3)
	})
	tr := New(world, u)

	rd := mgl32.Vec3{0.1, 0.05, -1}.Normalize()
	first := tr.RayMarch(origin, rd)
	for range 5 {
		assert.Equal(t, first, tr.RayMarch(origin, rd))
	}
}

func TestRayMarchDirectionalLight(t *testing.T) {
	sun := light.NewLight(light.LightTypeDirectional, light.WithColor(1, 0.5, 0.25), light.WithPosition(0, 0, 3))
	u := defaultUniforms(sun)

	c := New(unitSphere, u).RayMarch(origin, down)
	assert.InDelta(t, 1, c[0], 1e-4)
	assert.InDelta(t, 0.5, c[1], 1e-4)
	assert.InDelta(t, 0.25, c[2], 1e-4)
	assert.Equal(t, float32(1), c[3])

	sun.SetVisible(false)
	u = defaultUniforms(sun)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, New(unitSphere, u).RayMarch(origin, down))
}

func TestRayMarchPointLightFalloff(t *testing.T) {
	bulb := light.NewLight(light.LightTypePoint, light.WithColor(1, 1, 1), light.WithPosition(0, 0, 3), light.WithFalloff(4, 1))
	c := New(unitSphere, defaultUniforms(bulb)).RayMarch(origin, down)
	assert.InDelta(t, 0.5, c[0], 1e-3)

	noFalloff := light.NewLight(light.LightTypePoint, light.WithColor(1, 1, 1), light.WithPosition(0, 0, 3), light.WithFalloff(0, 2))
	c = New(unitSphere, defaultUniforms(noFalloff)).RayMarch(origin, down)
	assert.InDelta(t, 1, c[0], 1e-3)
}

func TestRayMarchAccumulatesAllKinds(t *testing.T) {
	u := defaultUniforms(
		light.NewLight(light.LightTypePoint, light.WithColor(0, 0, 1), light.WithPosition(0, 0, 3)),
		light.NewLight(light.LightTypeAmbient, light.WithColor(1, 0, 0), light.WithIntensity(0.5)),
		light.NewLight(light.LightTypeDirectional, light.WithColor(0, 1, 0), light.WithPosition(0, 0, 1)),
	)
	c := New(unitSphere, u).RayMarch(origin, down)
	assert.InDelta(t, 0.5, c[0], 1e-4)
	assert.InDelta(t, 1, c[1], 1e-4)
	assert.InDelta(t, 1, c[2], 1e-4)
}

func TestSoftShadowMonotonicInK(t *testing.T) {
	u := defaultUniforms()
	occluder := sdf.Func(func(p mgl32.Vec3) float32 {
		return sdf.Union(sdf.Sphere(p.Sub(mgl32.Vec3{0, 2, 0}), 0.5), sdf.Plane(p, mgl32.Vec3{0, 1, 0}, 0))
	})
	tr := New(occluder, u)

	ks := []float32{0.5, 1, 2, 4, 8, 16, 32}
	up := mgl32.Vec3{0, 1, 0}
	for x := float32(-2); x <= 2; x += 0.25 {
		p := mgl32.Vec3{x, 0.01, 0.3}
		prev := float32(-1)
		for _, k := range ks {
			res := tr.SoftShadow(p, up, 0.01, 10, k)
			assert.GreaterOrEqual(t, res, prev, "x=%v k=%v", x, k)
			assert.GreaterOrEqual(t, res, float32(0))
			assert.LessOrEqual(t, res, float32(1))
			prev = res
		}
	}

	// Directly under the occluder the shadow ray is blocked.
	assert.Equal(t, float32(0), tr.SoftShadow(mgl32.Vec3{0, 0.01, 0}, up, 0.01, 10, 2))
}

func TestCalcNormal(t *testing.T) {
	tr := New(unitSphere, defaultUniforms())
	for _, p := range []mgl32.Vec3{{1, 0, 0}, {0, -1, 0}, mgl32.Vec3{1, 1, 1}.Normalize()} {
		n, want := tr.CalcNormal(p), p.Normalize()
		assert.InDeltaSlice(t, want[:], n[:], 1e-3, "p=%v n=%v", p, n)
	}
}

func TestShadeThroughCamera(t *testing.T) {
	cam := camera.NewCamera()
	u := defaultUniforms(light.NewLight(light.LightTypeAmbient, light.WithIntensity(1)))
	u.Frame.ProjectionInverse = cam.InverseProjectionMatrix()
	u.Frame.WorldMatrix = cam.WorldMatrix()
	u.Frame.CameraPosition = cam.Position()
	tr := New(unitSphere, u)

	near := tr.WorldPos(mgl32.Vec2{0.5, 0.5})
	assert.InDeltaSlice(t, []float32{0, 0, 5 - cam.Near()}, near[:], 1e-4, "near=%v", near)

	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, tr.Shade(mgl32.Vec2{0.5, 0.5}))
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 0}, tr.Shade(mgl32.Vec2{0, 0}))
}
