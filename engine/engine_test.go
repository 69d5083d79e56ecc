package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-raymarch/common"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedTarget string

func (namedTarget) Size() (int, int) { return 8, 8 }

type recordingDevice struct {
	mu         sync.Mutex
	targets    []raymarch.Target
	times      []float32
	resized    [][2]int
	executeErr error
}

func (d *recordingDevice) Prepare(*raymarch.Program) error { return nil }

func (d *recordingDevice) Execute(_ *raymarch.Program, u *raymarch.Uniforms, target raymarch.Target, _ bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.targets = append(d.targets, target)
	d.times = append(d.times, u.Frame.Time)
	return d.executeErr
}

func (d *recordingDevice) Resize(w, h int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resized = append(d.resized, [2]int{w, h})
}

func (d *recordingDevice) executions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.targets)
}

func newPass(t *testing.T, dev raymarch.Device, cam camera.Camera) raymarch.Pass {
	t.Helper()
	if cam == nil {
		cam = camera.NewCamera()
	}
	cfg, err := raymarch.Configure(raymarch.NewOptions(
		raymarch.WithWorldMap("fn mapWorld(p: vec3<f32>) -> f32 { return sdSphere(p, 1.0); }"),
		raymarch.WithCamera(cam),
	))
	require.NoError(t, err)
	p, err := raymarch.NewPass(cfg, dev)
	require.NoError(t, err)
	return p
}

func TestRenderFrameRoutesLastEnabledPassToScreen(t *testing.T) {
	dev := &recordingDevice{}
	first, second := newPass(t, dev, nil), newPass(t, dev, nil)
	e := NewEngine(WithPass(first, namedTarget("a")), WithPass(second, namedTarget("b")))

	require.NoError(t, e.RenderFrame(0.1))
	assert.Equal(t, []raymarch.Target{namedTarget("a"), nil}, dev.targets)
	assert.False(t, first.RenderToScreen())
	assert.True(t, second.RenderToScreen())

	second.SetEnabled(false)
	require.NoError(t, e.RenderFrame(0.1))
	assert.Len(t, dev.targets, 3)
	assert.Nil(t, dev.targets[2], "first pass becomes terminal")
	assert.True(t, first.RenderToScreen())
}

func TestRenderFrameJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	dev := &recordingDevice{executeErr: boom}
	e := NewEngine()
	e.AddPass(newPass(t, dev, nil), nil)
	e.AddPass(newPass(t, dev, nil), nil)

	err := e.RenderFrame(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, dev.executions(), "later passes still run")
}

func TestAddRemovePass(t *testing.T) {
	dev := &recordingDevice{}
	a, b := newPass(t, dev, nil), newPass(t, dev, nil)
	e := NewEngine()
	e.AddPass(a, nil)
	e.AddPass(b, nil)
	assert.Equal(t, []raymarch.Pass{a, b}, e.Passes())

	e.RemovePass(a)
	assert.Equal(t, []raymarch.Pass{b}, e.Passes())
	e.RemovePass(a)
	assert.Len(t, e.Passes(), 1)
}

func TestReplacePassKeepsSlotAndSize(t *testing.T) {
	dev := &recordingDevice{}
	a, b := newPass(t, dev, nil), newPass(t, dev, nil)
	e := NewEngine(WithPass(a, namedTarget("a")), WithPass(b, nil))
	e.Resize(100, 50, 1)

	cam := camera.NewCamera()
	c := newPass(t, dev, cam)
	require.True(t, e.ReplacePass(a, c))
	assert.Equal(t, []raymarch.Pass{c, b}, e.Passes())
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6, "replacement gets the last size")

	require.NoError(t, e.RenderFrame(0))
	assert.Equal(t, namedTarget("a"), dev.targets[0], "target is kept")

	before := dev.executions()
	require.NoError(t, a.Execute(nil, 0))
	assert.Equal(t, before, dev.executions(), "replaced pass is released")

	assert.False(t, e.ReplacePass(a, c))
}

func TestPausedFreezesTime(t *testing.T) {
	dev := &recordingDevice{}
	ctrl := camera.NewOrbitController(camera.WithAutoRotate(1))
	p := newPass(t, dev, camera.NewCamera(camera.WithController(ctrl)))
	e := NewEngine(WithPass(p, nil))

	require.NoError(t, e.RenderFrame(0.5))
	e.Tick(0.5)
	azimuth := ctrl.Azimuth()
	assert.NotZero(t, azimuth)

	e.SetPaused(true)
	require.NoError(t, e.RenderFrame(0.5))
	e.Tick(0.5)
	assert.Equal(t, []float32{0.5, 0.5}, dev.times)
	assert.Equal(t, azimuth, ctrl.Azimuth())
}

func TestTickAdvancesSharedControllerOnce(t *testing.T) {
	dev := &recordingDevice{}
	ctrl := camera.NewOrbitController(camera.WithAutoRotate(1))
	cam := camera.NewCamera(camera.WithController(ctrl))
	e := NewEngine(WithPass(newPass(t, dev, cam), nil), WithPass(newPass(t, dev, cam), nil))

	var ticked float32
	e.SetTickCallback(func(dt float32) { ticked += dt })
	e.Tick(0.25)

	assert.InDelta(t, 0.25, ctrl.Azimuth(), 1e-6)
	assert.Equal(t, float32(0.25), ticked)
}

func TestResizeFansOut(t *testing.T) {
	dev := &recordingDevice{}
	cam := camera.NewCamera()
	e := NewEngine(WithPass(newPass(t, dev, cam), nil))

	e.Resize(800, 400, 2)
	assert.Equal(t, [][2]int{{1600, 800}}, dev.resized)
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
}

func TestHandleKey(t *testing.T) {
	ctrl := camera.NewOrbitController()
	e := NewEngine().(*engine)
	e.SetControls(ctrl)

	radius := ctrl.Radius()
	e.handleKey(common.KeyE)
	assert.Less(t, ctrl.Radius(), radius)

	e.handleKey(common.KeyD)
	assert.InDelta(t, keyOrbitStep, ctrl.Azimuth(), 1e-6)

	e.handleKey(common.KeySpace)
	assert.True(t, e.Paused())
	e.handleKey(common.KeySpace)
	assert.False(t, e.Paused())

	e.handleKey(common.KeyP)
	assert.True(t, e.profilingEnabled.Load())
	e.handleKey(common.KeyP)
	assert.False(t, e.profilingEnabled.Load())
}

func TestProfilerToggleWhileRendering(t *testing.T) {
	dev := &recordingDevice{}
	e := NewEngine(WithPass(newPass(t, dev, nil), nil), WithRenderFrameLimit(500)).(*engine)

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	for i := 0; i < 50; i++ {
		e.handleKey(common.KeyP)
	}
	e.DisableProfiler()
	assert.Eventually(t, func() bool { return dev.executions() > 0 }, time.Second, time.Millisecond)
	e.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.False(t, e.profilingEnabled.Load())
}

func TestRunHeadlessUntilQuit(t *testing.T) {
	dev := &recordingDevice{}
	e := NewEngine(WithPass(newPass(t, dev, nil), nil), WithRenderFrameLimit(500))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	require.Eventually(t, func() bool { return dev.executions() > 2 }, 2*time.Second, 5*time.Millisecond)
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}
