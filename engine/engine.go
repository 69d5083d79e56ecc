package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-raymarch/common"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/profiler"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/window"
)

const (
	// orbitSpeed is radians of orbit per logical pixel of drag.
	orbitSpeed = 0.005

	// keyOrbitStep is radians of orbit per key press.
	keyOrbitStep = 0.05

	// zoomStep is the radius change per scroll notch or key press.
	zoomStep = 0.25
)

// passEntry is a pass and the target it renders into when it is not the terminal pass.
type passEntry struct {
	pass   raymarch.Pass
	target raymarch.Target
}

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads.
type engine struct {
	mu sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	logger *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	passes   []passEntry
	controls camera.CameraController
	paused   bool

	// last display size seen by Resize, applied to passes added later
	sized         bool
	width, height int
	pixelRatio    float32

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the host pass pipeline. It owns an ordered list of ray-march passes,
// routes the last enabled one to the screen, and drives them from a render loop
// alongside a fixed-rate tick loop.
type Engine interface {
	// Window returns the underlying window, or nil for a headless engine.
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, after camera
	// controllers have advanced.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	SetRenderFrameLimit(fps float64)

	// AddPass appends a pass to the pipeline. If the engine has already been
	// resized, the pass is resized to match.
	//
	// Parameters:
	//   - p: the pass to append
	//   - target: where p renders when it is not the terminal pass, nil for the device default
	AddPass(p raymarch.Pass, target raymarch.Target)

	// RemovePass removes a pass from the pipeline. Unknown passes are ignored.
	RemovePass(p raymarch.Pass)

	// ReplacePass swaps old for p in place, keeping old's position and target.
	// Used when a pass is rebuilt, e.g. after its scene file changes. The new
	// pass is resized to the last known display size and old is released.
	//
	// Parameters:
	//   - old: the pass to replace
	//   - p: the replacement
	//
	// Returns:
	//   - bool: false if old is not in the pipeline, in which case nothing changes
	ReplacePass(old, p raymarch.Pass) bool

	// Passes returns the passes in execution order.
	Passes() []raymarch.Pass

	// SetControls sets the camera controller driven by window input. When unset,
	// input drives the controller of the first pass's camera.
	SetControls(ctrl camera.CameraController)

	// SetPaused freezes pass time and camera auto-rotation while still rendering.
	SetPaused(paused bool)

	// Paused reports whether the engine is paused.
	Paused() bool

	// Tick advances every pass camera's controller once and calls the tick callback.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	Tick(dt float32)

	// RenderFrame executes every enabled pass once in order. The last enabled pass
	// renders to the screen; earlier ones render into their targets. Every pass is
	// attempted even if an earlier one fails.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous frame
	//
	// Returns:
	//   - error: the joined errors of all failed passes
	RenderFrame(dt float32) error

	// Resize forwards a display resize to every pass.
	//
	// Parameters:
	//   - width, height: the new size in logical pixels
	//   - pixelRatio: physical pixels per logical pixel
	Resize(width, height int, pixelRatio float32)

	// Run starts the tick and render loops and blocks until the window closes
	// or Quit is called.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// When a window is configured its resize and input events are wired to the engine.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		logger:          slog.Default(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.Resize)
		e.window.SetDragCallback(func(dx, dy float32) {
			if ctrl := e.activeControls(); ctrl != nil {
				ctrl.Orbit(-dx*orbitSpeed, dy*orbitSpeed)
			}
		})
		e.window.SetScrollCallback(func(delta float32) {
			if ctrl := e.activeControls(); ctrl != nil {
				ctrl.Zoom(delta * zoomStep)
			}
		})
		e.window.SetKeyDownCallback(e.handleKey)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Listens for dynamic rate changes via tickRateChannel and exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer e.recoverLoop("tick")

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.Tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the uncapped (or frame-limited) render loop in its own goroutine.
// A failing frame is logged once per distinct error so a broken pass does not flood the log.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer e.recoverLoop("render")

	lastRender := time.Now()
	var lastErr string

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastRender).Seconds())
		lastRender = frameStart

		if err := e.RenderFrame(dt); err != nil {
			if err.Error() != lastErr {
				e.logger.Error("frame failed", slog.Any("err", err))
				lastErr = err.Error()
			}
		} else {
			lastErr = ""
		}

		if e.renderCallback != nil {
			e.renderCallback(dt)
		}

		if e.profilingEnabled.Load() && e.profiler != nil {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				select {
				case <-e.quitChannel:
					return
				case <-time.After(remaining):
				}
			}
		}
	}
}

// recoverLoop logs a panic in a loop goroutine and shuts the engine down.
func (e *engine) recoverLoop(loop string) {
	if r := recover(); r != nil {
		e.logger.Error("loop goroutine recovered from panic", slog.String("loop", loop), slog.Any("panic", r))
		e.signalQuit()
	}
}

func (e *engine) Tick(dt float32) {
	e.mu.Lock()
	paused := e.paused
	entries := slices.Clone(e.passes)
	e.mu.Unlock()

	if !paused {
		advanced := make(map[camera.CameraController]bool)
		for _, entry := range entries {
			cam := entry.pass.Config().Camera
			if cam == nil {
				continue
			}
			ctrl := cam.Controller()
			if ctrl == nil || advanced[ctrl] {
				continue
			}
			advanced[ctrl] = true
			ctrl.Advance(dt)
		}
	}

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}
}

func (e *engine) RenderFrame(dt float32) error {
	e.mu.Lock()
	entries := slices.Clone(e.passes)
	if e.paused {
		dt = 0
	}
	e.mu.Unlock()

	last := -1
	for i, entry := range entries {
		if entry.pass.Enabled() {
			last = i
		}
	}

	var errs []error
	for i, entry := range entries {
		if !entry.pass.Enabled() {
			continue
		}
		entry.pass.SetRenderToScreen(i == last)
		if err := entry.pass.Execute(entry.target, dt); err != nil {
			errs = append(errs, fmt.Errorf("pass %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (e *engine) Resize(width, height int, pixelRatio float32) {
	e.mu.Lock()
	e.sized = true
	e.width, e.height, e.pixelRatio = width, height, pixelRatio
	entries := slices.Clone(e.passes)
	e.mu.Unlock()

	for _, entry := range entries {
		entry.pass.Resize(width, height, pixelRatio)
	}
}

// handleKey maps viewer keys to camera and engine controls.
func (e *engine) handleKey(keyCode uint32) {
	ctrl := e.activeControls()
	switch keyCode {
	case common.KeySpace:
		e.SetPaused(!e.Paused())
	case common.KeyP:
		for {
			on := e.profilingEnabled.Load()
			if e.profilingEnabled.CompareAndSwap(on, !on) {
				break
			}
		}
	}
	if ctrl == nil {
		return
	}
	switch keyCode {
	case common.KeyA:
		ctrl.Orbit(-keyOrbitStep, 0)
	case common.KeyD:
		ctrl.Orbit(keyOrbitStep, 0)
	case common.KeyW:
		ctrl.Orbit(0, keyOrbitStep)
	case common.KeyS:
		ctrl.Orbit(0, -keyOrbitStep)
	case common.KeyQ:
		ctrl.Zoom(-zoomStep)
	case common.KeyE:
		ctrl.Zoom(zoomStep)
	}
}

// activeControls returns the explicit controls or the first pass camera's controller.
func (e *engine) activeControls() camera.CameraController {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.controls != nil {
		return e.controls
	}
	for _, entry := range e.passes {
		if cam := entry.pass.Config().Camera; cam != nil && cam.Controller() != nil {
			return cam.Controller()
		}
	}
	return nil
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	running := e.running
	e.mu.Unlock()

	if !running {
		e.engineTickRate = newRate
		return
	}
	// Replace any pending update that the loop has not consumed yet.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddPass(p raymarch.Pass, target raymarch.Target) {
	e.mu.Lock()
	e.passes = append(e.passes, passEntry{pass: p, target: target})
	e.mu.Unlock()
	e.applySize(p)
}

func (e *engine) ReplacePass(old, p raymarch.Pass) bool {
	e.mu.Lock()
	i := slices.IndexFunc(e.passes, func(entry passEntry) bool { return entry.pass == old })
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	e.passes[i].pass = p
	e.mu.Unlock()

	old.Release()
	e.applySize(p)
	return true
}

// applySize resizes p to the last size seen by Resize, if any.
func (e *engine) applySize(p raymarch.Pass) {
	e.mu.Lock()
	sized, w, h, ratio := e.sized, e.width, e.height, e.pixelRatio
	e.mu.Unlock()
	if sized {
		p.Resize(w, h, ratio)
	}
}

func (e *engine) RemovePass(p raymarch.Pass) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.passes = slices.DeleteFunc(e.passes, func(entry passEntry) bool { return entry.pass == p })
}

func (e *engine) Passes() []raymarch.Pass {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]raymarch.Pass, len(e.passes))
	for i, entry := range e.passes {
		out[i] = entry.pass
	}
	return out
}

func (e *engine) SetControls(ctrl camera.CameraController) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.controls = ctrl
}

func (e *engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
}

func (e *engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}
