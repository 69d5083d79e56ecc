package software

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/sdf"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sphereWorld = `fn mapWorld(p: vec3<f32>) -> f32 {
    return sdSphere(p, 1.0);
}`

var sphereScene = sdf.Static(sdf.Func(func(p mgl32.Vec3) float32 { return sdf.Sphere(p, 1) }))

type otherTarget struct{}

func (otherTarget) Size() (int, int) { return 1, 1 }

func newTestPass(t *testing.T, dev raymarch.Device, lights ...light.Light) raymarch.Pass {
	t.Helper()
	cfg, err := raymarch.Configure(raymarch.NewOptions(
		raymarch.WithWorldMap(sphereWorld),
		raymarch.WithCamera(camera.NewCamera()),
		raymarch.WithLights(lights...),
		raymarch.WithBackground([3]float32{0, 0, 1}, 1),
	))
	require.NoError(t, err)
	p, err := raymarch.NewPass(cfg, dev)
	require.NoError(t, err)
	return p
}

func TestExecuteRendersSphere(t *testing.T) {
	dev := NewDevice(sphereScene, WithWorkers(3))
	pass := newTestPass(t, dev, light.NewLight(light.LightTypeAmbient, light.WithColor(1, 0, 0)))

	target := NewImageTarget(16, 16)
	require.NoError(t, pass.Execute(target, 0.016))

	// Center is the lit sphere, corners are background.
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, pixel(target, 8, 8))
	assert.Equal(t, [4]uint8{0, 0, 255, 255}, pixel(target, 0, 0))
	assert.Equal(t, [4]uint8{0, 0, 255, 255}, pixel(target, 15, 15))
}

func TestExecuteImageIsUpright(t *testing.T) {
	// A sphere above the view axis must land in the top half of the image.
	above := sdf.Static(sdf.Func(func(p mgl32.Vec3) float32 { return sdf.Sphere(p.Sub(mgl32.Vec3{0, 2, 0}), 0.75) }))
	dev := NewDevice(above)
	pass := newTestPass(t, dev, light.NewLight(light.LightTypeAmbient))

	target := NewImageTarget(32, 32)
	require.NoError(t, pass.Execute(target, 0))

	top, bottom := 0, 0
	for y := range 32 {
		for x := range 32 {
			if pixel(target, x, y) == [4]uint8{255, 255, 255, 255} {
				if y < 16 {
					top++
				} else {
					bottom++
				}
			}
		}
	}
	assert.Positive(t, top)
	assert.Zero(t, bottom)
}

func TestExecuteNilTargetUsesDisplay(t *testing.T) {
	dev := NewDevice(sphereScene, WithDisplaySize(4, 4))
	pass := newTestPass(t, dev, light.NewLight(light.LightTypeAmbient))
	pass.SetRenderToScreen(true)

	require.NoError(t, pass.Execute(NewImageTarget(2, 2), 0))
	img := dev.Display()
	assert.Equal(t, 4, img.Bounds().Dx())
	// Every pixel is written, so even background pixels become opaque.
	assert.Equal(t, uint8(255), img.Pix[3])
	assert.Equal(t, uint8(255), img.Pix[len(img.Pix)-1])
}

func TestExecuteErrors(t *testing.T) {
	dev := NewDevice(sphereScene)
	pass := newTestPass(t, dev)
	program := pass.Program()
	u := &raymarch.Uniforms{}

	err := dev.Execute(&raymarch.Program{ID: program.ID + 1000}, u, nil, true)
	assert.ErrorContains(t, err, "not prepared")

	u.Frame = raymarch.NewFrameState(light.Classify([]light.Light{light.NewLight(light.LightTypePoint)}))
	err = dev.Execute(program, u, nil, true)
	assert.ErrorContains(t, err, "compiled for")

	err = dev.Execute(program, &raymarch.Uniforms{}, otherTarget{}, true)
	assert.ErrorContains(t, err, "unsupported target")

	dev.SetScene(nil)
	err = dev.Execute(program, &raymarch.Uniforms{}, nil, true)
	assert.Error(t, err)
}

func TestBlendOver(t *testing.T) {
	opaque := blendOver(mgl32.Vec4{1, 0, 0, 1}, []uint8{0, 255, 0, 255})
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, opaque)

	clearSrc := blendOver(mgl32.Vec4{1, 0, 0, 0}, []uint8{0, 255, 0, 255})
	assert.Equal(t, mgl32.Vec4{0, 1, 0, 1}, clearSrc)

	half := blendOver(mgl32.Vec4{1, 0, 0, 0.5}, []uint8{0, 0, 0, 255})
	assert.InDelta(t, 0.5, half[0], 1e-6)
	assert.InDelta(t, 1, half[3], 1e-6)

	assert.Equal(t, mgl32.Vec4{}, blendOver(mgl32.Vec4{1, 1, 1, 0}, []uint8{9, 9, 9, 0}))
}

func TestResizeAndPNG(t *testing.T) {
	dev := NewDevice(sphereScene)
	dev.Resize(10, 6)
	assert.Equal(t, 10, dev.Display().Bounds().Dx())
	assert.Equal(t, 6, dev.Display().Bounds().Dy())

	dev.Resize(0, 6)
	assert.Equal(t, 10, dev.Display().Bounds().Dx())

	var buf bytes.Buffer
	require.NoError(t, NewImageTarget(3, 2).WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func pixel(t *ImageTarget, x, y int) [4]uint8 {
	i := t.Image.PixOffset(x, y)
	p := t.Image.Pix[i : i+4]
	return [4]uint8{p[0], p[1], p[2], p[3]}
}
