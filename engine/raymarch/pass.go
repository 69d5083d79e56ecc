package raymarch

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
)

type passImpl struct {
	mu *sync.Mutex

	config    *PassConfig
	device    Device
	assembler Assembler
	logger    *slog.Logger

	program *Program
	lights  []light.Light
	time    float32

	enabled        bool
	renderToScreen bool
	clear          bool
	released       bool
}

// Pass is a full-screen ray-march pass driven once per frame by a host pipeline.
type Pass interface {
	// Execute advances the elapsed time by dt, re-classifies the lights,
	// reassembles the program if the light counts changed, pushes camera and
	// light state into the uniforms and runs the program on the device.
	//
	// Parameters:
	//   - target: the output; ignored (nil is used) when RenderToScreen is set
	//   - dt: seconds since the previous frame
	//
	// Returns:
	//   - error: an assembly or device error
	Execute(target Target, dt float32) error

	// Resize updates the camera aspect and forwards the physical size to the
	// device when it owns a display surface.
	//
	// Parameters:
	//   - width, height: the viewport size in logical pixels
	//   - pixelRatio: physical pixels per logical pixel
	Resize(width, height int, pixelRatio float32)

	// SetLights replaces the light list. The list is read every frame and never mutated.
	//
	// Parameters:
	//   - lights: the new lights in shading order
	SetLights(lights ...light.Light)

	// Lights returns the current light list.
	Lights() []light.Light

	// Program returns the currently assembled program.
	Program() *Program

	// Config returns the pass configuration.
	Config() *PassConfig

	// Time returns the accumulated elapsed time in seconds.
	Time() float32

	// Enabled reports whether the host pipeline should run this pass.
	Enabled() bool

	// SetEnabled toggles whether the host pipeline runs this pass.
	SetEnabled(enabled bool)

	// RenderToScreen reports whether the pass draws to the display surface.
	RenderToScreen() bool

	// SetRenderToScreen routes output to the display surface. Set by the host
	// pipeline on its last pass.
	SetRenderToScreen(renderToScreen bool)

	// Clear reports whether the target is cleared before drawing.
	Clear() bool

	// SetClear sets whether the target is cleared before drawing.
	SetClear(clear bool)

	// Release hands the current program back to the device. Execute on a
	// released pass does nothing. Calling Release twice is a no-op.
	Release()
}

var _ Pass = &passImpl{}

// NewPass creates a pass over cfg and assembles its first program.
//
// Parameters:
//   - cfg: the configured pass parameters
//   - device: the device that executes the program
//   - options: functional options to configure the pass
//
// Returns:
//   - Pass: the pass
//   - error: a *ConfigurationError for a nil config or device, or an assembly/prepare error
func NewPass(cfg *PassConfig, device Device, options ...PassBuilderOption) (Pass, error) {
	if cfg == nil {
		return nil, configErrorf("config", "pass configuration is nil")
	}
	if device == nil {
		return nil, configErrorf("device", "device is nil")
	}

	p := &passImpl{
		mu:      &sync.Mutex{},
		config:  cfg,
		device:  device,
		logger:  slog.Default(),
		lights:  cfg.Lights,
		enabled: true,
		clear:   true,
	}
	for _, option := range options {
		option(p)
	}
	if p.assembler == nil {
		p.assembler = NewAssembler(nil, WithAssemblerLogger(p.logger))
	}

	if err := p.ensureProgram(light.Classify(p.lights).Counts()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *passImpl) Execute(target Target, dt float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return nil
	}
	p.time += dt

	classified := light.Classify(p.lights)
	if err := p.ensureProgram(classified.Counts()); err != nil {
		return err
	}

	uniforms := p.buildUniforms(classified)
	if p.renderToScreen {
		target = nil
	}
	if err := p.device.Execute(p.program, uniforms, target, p.clear); err != nil {
		return fmt.Errorf("execute program %d: %w", p.program.ID, err)
	}
	return nil
}

// ensureProgram reassembles when counts differ from the current program's.
// Caller must hold the mutex, or be the constructor.
func (p *passImpl) ensureProgram(counts light.Counts) error {
	if p.program != nil && p.program.Counts == counts {
		return nil
	}

	program, err := p.assembler.Assemble(p.config, counts)
	if err != nil {
		return err
	}
	if err := p.device.Prepare(program); err != nil {
		return fmt.Errorf("prepare program %d: %w", program.ID, err)
	}

	if p.program != nil {
		p.discard(p.program)
		p.logger.Info("light counts changed, program rebuilt",
			"from", p.program.ID,
			"to", program.ID,
			"ambient", counts.Ambient,
			"directional", counts.Directional,
			"point", counts.Point,
		)
	}
	p.program = program
	return nil
}

// discard releases the device's reference to program, if the device keeps any.
func (p *passImpl) discard(program *Program) {
	if d, ok := p.device.(Discarder); ok {
		d.Discard(program)
	}
}

func (p *passImpl) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return
	}
	p.released = true
	if p.program != nil {
		p.discard(p.program)
	}
}

// buildUniforms gathers this frame's uniform state. Caller must hold the mutex.
func (p *passImpl) buildUniforms(classified light.Classified) *Uniforms {
	cam := p.config.Camera
	cam.Update()

	frame := NewFrameState(classified)
	frame.Time = p.time
	frame.ProjectionInverse = cam.InverseProjectionMatrix()
	frame.WorldMatrix = cam.WorldMatrix()
	frame.CameraPosition = cam.Position()

	return &Uniforms{
		Frame:      frame,
		Marching:   p.config.Marching,
		SoftShadow: p.config.SoftShadow,
		Background: p.config.Background,
	}
}

func (p *passImpl) Resize(width, height int, pixelRatio float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}
	p.config.Camera.SetAspect(float32(width) / float32(height))

	if r, ok := p.device.(Resizer); ok {
		r.Resize(int(float32(width)*pixelRatio), int(float32(height)*pixelRatio))
	}
}

func (p *passImpl) SetLights(lights ...light.Light) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lights = lights
}

func (p *passImpl) Lights() []light.Light {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lights
}

func (p *passImpl) Program() *Program {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.program
}

func (p *passImpl) Config() *PassConfig {
	return p.config
}

func (p *passImpl) Time() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.time
}

func (p *passImpl) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

func (p *passImpl) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

func (p *passImpl) RenderToScreen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderToScreen
}

func (p *passImpl) SetRenderToScreen(renderToScreen bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderToScreen = renderToScreen
}

func (p *passImpl) Clear() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clear
}

func (p *passImpl) SetClear(clear bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clear = clear
}
