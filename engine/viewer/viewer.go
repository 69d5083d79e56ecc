// Package viewer presents frames of the software device in a desktop window.
// The engine runs headless; ebiten drives ticks, frames and input.
package viewer

import (
	"image"
	"log/slog"
	"math"

	"github.com/Carmen-Shannon/oxy-raymarch/engine"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/software"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	dragOrbitSpeed = 0.005
	keyOrbitSpeed  = 1.5 // radians per second while a key is held
	keyZoomSpeed   = 3.0 // radius units per second while a key is held
	wheelZoomStep  = 0.25
)

// Viewer shows the software device's display image, scaled up to the window.
type Viewer interface {
	// Run opens the window and blocks until it is closed or a frame or update hook fails.
	//
	// Returns:
	//   - error: the error that stopped the loop, nil on a normal close
	Run() error
}

type viewerImpl struct {
	engine engine.Engine
	device software.Device
	logger *slog.Logger

	title         string
	width, height int

	// scale is the render resolution relative to the logical window size.
	scale float64

	tps        int
	updateHook func() error

	renderW, renderH int
	frame            *ebiten.Image

	dragging     bool
	lastX, lastY int
	lastErr      string
}

var _ ebiten.Game = &viewerImpl{}

// NewViewer creates a viewer for a headless engine whose passes render through device.
//
// Parameters:
//   - e: the engine holding the passes
//   - device: the software device the passes execute on
//   - options: functional options to configure the viewer
//
// Returns:
//   - Viewer: the viewer
func NewViewer(e engine.Engine, device software.Device, options ...ViewerBuilderOption) Viewer {
	v := &viewerImpl{
		engine: e,
		device: device,
		logger: slog.Default(),
		title:  "oxy raymarch (software)",
		width:  960,
		height: 540,
		scale:  0.5,
		tps:    60,
	}
	for _, opt := range options {
		opt(v)
	}
	return v
}

func (v *viewerImpl) Run() error {
	ebiten.SetWindowTitle(v.title)
	ebiten.SetWindowSize(v.width, v.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(v.tps)
	return ebiten.RunGame(v)
}

func (v *viewerImpl) Update() error {
	if v.updateHook != nil {
		if err := v.updateHook(); err != nil {
			return err
		}
	}

	dt := float32(1.0 / float64(ebiten.TPS()))
	v.handleInput(dt)
	v.engine.Tick(dt)
	return nil
}

func (v *viewerImpl) Draw(screen *ebiten.Image) {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if err := v.engine.RenderFrame(dt); err != nil {
		if err.Error() != v.lastErr {
			v.logger.Error("frame failed", slog.Any("err", err))
			v.lastErr = err.Error()
		}
		return
	}
	v.lastErr = ""

	img := v.device.Display()
	b := img.Bounds()
	if v.frame == nil || v.frame.Bounds().Dx() != b.Dx() || v.frame.Bounds().Dy() != b.Dy() {
		if v.frame != nil {
			v.frame.Deallocate()
		}
		v.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	v.frame.WritePixels(premultiply(img))
	screen.DrawImage(v.frame, nil)
}

func (v *viewerImpl) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := renderSize(outsideWidth, outsideHeight, v.scale)
	if w != v.renderW || h != v.renderH {
		v.renderW, v.renderH = w, h
		v.engine.Resize(w, h, 1)
	}
	return w, h
}

// handleInput maps held keys, drag and wheel to the engine's camera controls.
func (v *viewerImpl) handleInput(dt float32) {
	ctrl := v.controls()
	if ctrl == nil {
		return
	}

	var dAz, dEl, dZoom float32
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		dAz -= keyOrbitSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		dAz += keyOrbitSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		dEl += keyOrbitSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		dEl -= keyOrbitSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		dZoom += keyZoomSpeed * dt
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		dZoom -= keyZoomSpeed * dt
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if v.dragging {
			dAz -= float32(x-v.lastX) * dragOrbitSpeed
			dEl += float32(y-v.lastY) * dragOrbitSpeed
		}
		v.dragging = true
		v.lastX, v.lastY = x, y
	} else {
		v.dragging = false
	}

	_, wheel := ebiten.Wheel()
	dZoom += float32(wheel) * wheelZoomStep

	if dAz != 0 || dEl != 0 {
		ctrl.Orbit(dAz, dEl)
	}
	if dZoom != 0 {
		ctrl.Zoom(dZoom)
	}
}

// controls returns the controller of the first pass's camera.
func (v *viewerImpl) controls() camera.CameraController {
	for _, p := range v.engine.Passes() {
		if cam := p.Config().Camera; cam != nil && cam.Controller() != nil {
			return cam.Controller()
		}
	}
	return nil
}

// renderSize scales a logical window size, never going below one pixel.
func renderSize(width, height int, scale float64) (int, int) {
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	return max(w, 1), max(h, 1)
}

// premultiply converts straight-alpha pixels to the premultiplied RGBA ebiten expects.
func premultiply(img *image.NRGBA) []byte {
	out := make([]byte, len(img.Pix))
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := uint32(img.Pix[i+3])
		out[i+0] = uint8(uint32(img.Pix[i+0]) * a / 255)
		out[i+1] = uint8(uint32(img.Pix[i+1]) * a / 255)
		out[i+2] = uint8(uint32(img.Pix[i+2]) * a / 255)
		out[i+3] = uint8(a)
	}
	return out
}
