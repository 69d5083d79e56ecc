package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backend RendererBackend
	logger  *slog.Logger

	programs *programCache

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	width, height        int
}

// Renderer is the WebGPU ray-march device. It builds one render pipeline per assembled
// program and draws the full-screen triangle into the window surface or a TextureTarget.
type Renderer interface {
	raymarch.Device
	raymarch.Resizer

	// SurfaceFormat returns the color format of the surface and of every TextureTarget.
	SurfaceFormat() wgpu.TextureFormat

	// NewTextureTarget creates an off-screen target that passes can render into.
	//
	// Parameters:
	//   - width: the target width in pixels
	//   - height: the target height in pixels
	//
	// Returns:
	//   - *TextureTarget: the created target
	//   - error: an error if the texture could not be created
	NewTextureTarget(width, height int) (*TextureTarget, error)

	// SetPresentMode changes how frames are delivered to the display. The surface is
	// reconfigured at its current size.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Release frees every cached program and the GPU device.
	Release()
}

var (
	_ Renderer           = &renderer{}
	_ raymarch.Discarder = &renderer{}
)

// NewRenderer creates a WebGPU renderer for the given surface. A nil surface descriptor
// creates a headless renderer that can only render into TextureTargets.
//
// Parameters:
//   - surfaceDescriptor: the platform surface, typically from window.Window.SurfaceDescriptor
//   - options: functional options applied before the device is created
//
// Returns:
//   - Renderer: the created renderer
//   - error: an error if no adapter or device could be acquired
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		logger:      slog.Default(),
		programs:    newProgramCache(),
		presentMode: PresentModeUncapped,
	}
	for _, opt := range options {
		opt(r)
	}

	backend, err := newWGPURendererBackend(surfaceDescriptor, r.forceFallbackAdapter, r.presentMode)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	r.backend = backend

	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(r.width, r.height)
	}
	return r, nil
}

func (r *renderer) Prepare(program *raymarch.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.programs.retain(program.ID) {
		return nil
	}
	res, err := r.backend.CreateProgramResources(program)
	if err != nil {
		return fmt.Errorf("renderer: prepare program %d: %w", program.ID, err)
	}
	r.programs.add(program.ID, res)
	r.logger.Debug("render pipeline created",
		slog.Uint64("program", program.ID),
		slog.Int("bindings", len(res.buffers)),
	)
	return nil
}

func (r *renderer) Execute(program *raymarch.Program, uniforms *raymarch.Uniforms, target raymarch.Target, clear bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.programs.get(program.ID)
	if !ok {
		return fmt.Errorf("renderer: program %d not prepared", program.ID)
	}

	for name, buf := range res.buffers {
		data, err := uniforms.Bytes(name)
		if err != nil {
			return fmt.Errorf("renderer: %w", err)
		}
		if uint64(len(data)) > res.sizes[name] {
			return fmt.Errorf("renderer: %s data is %d bytes, buffer holds %d", name, len(data), res.sizes[name])
		}
		r.backend.WriteBuffer(buf, data)
	}

	var view *wgpu.TextureView
	switch t := target.(type) {
	case nil:
	case *TextureTarget:
		view = t.View()
	default:
		return fmt.Errorf("renderer: unsupported target %T", target)
	}

	if err := r.backend.BeginFrame(view, clear); err != nil {
		return fmt.Errorf("renderer: begin frame: %w", err)
	}
	r.backend.Draw(res)
	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("renderer: end frame: %w", err)
	}
	if view == nil {
		r.backend.Present()
	}
	return nil
}

func (r *renderer) Discard(program *raymarch.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.programs.drop(program.ID)
	if !ok {
		return
	}
	res.Release()
	r.logger.Debug("render pipeline released", slog.Uint64("program", program.ID))
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) NewTextureTarget(width, height int) (*TextureTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("renderer: invalid texture target size %dx%d", width, height)
	}
	texture, view, err := r.backend.CreateRenderTexture(width, height)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	return &TextureTarget{
		texture: texture,
		view:    view,
		width:   width,
		height:  height,
	}, nil
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presentMode = mode
	r.backend.SetPresentMode(mode)
	if r.width > 0 && r.height > 0 {
		r.backend.ConfigureSurface(r.width, r.height)
	}
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, res := range r.programs.clear() {
		res.Release()
	}
	r.backend.Release()
}
