package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// headlessFormat is the color format used when the backend has no surface.
const headlessFormat = wgpu.TextureFormatRGBA8Unorm

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	presentMode   wgpu.PresentMode

	// Frame state between BeginFrame and Present.
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

// programResources holds every GPU object built for one assembled program.
type programResources struct {
	label      string
	pipeline   *wgpu.RenderPipeline
	layouts    []*wgpu.BindGroupLayout
	bindGroups []*wgpu.BindGroup
	buffers    map[string]*wgpu.Buffer
	sizes      map[string]uint64
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue

	// SurfaceFormat returns the color format every pipeline and render texture uses.
	// It is the surface's preferred format once configured, or RGBA8Unorm when headless.
	SurfaceFormat() wgpu.TextureFormat

	// ConfigureSurface is a wrapper for boilerplate logic required when calling ConfigureSurface on a surface.
	// This is required when the surface size changes, such as when the window is resized.
	// It does nothing when the backend is headless.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// Takes effect on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// CreateProgramResources builds the shader modules, bind group layouts, render pipeline,
	// uniform buffers and bind groups for an assembled ray-march program. Buffers are sized
	// from the parsed binding declarations of the fragment stage.
	//
	// Parameters:
	//   - program: the assembled program
	//
	// Returns:
	//   - *programResources: the created GPU objects
	//   - error: an error if any resource could not be created
	CreateProgramResources(program *raymarch.Program) (*programResources, error)

	// CreateRenderTexture creates a texture in the surface format that a pass can render into
	// and a later pass can sample.
	//
	// Parameters:
	//   - width: the texture width in pixels
	//   - height: the texture height in pixels
	//
	// Returns:
	//   - *wgpu.Texture: the created texture
	//   - *wgpu.TextureView: the default view of the texture
	//   - error: an error if the texture could not be created
	CreateRenderTexture(width, height int) (*wgpu.Texture, *wgpu.TextureView, error)

	// WriteBuffer writes data at offset zero of buf through the queue.
	WriteBuffer(buf *wgpu.Buffer, data []byte)

	// BeginFrame creates the frame's command encoder and begins a render pass.
	// A nil view acquires the current surface texture.
	//
	// Parameters:
	//   - view: the color attachment, or nil for the surface
	//   - clear: true to clear the attachment before drawing, false to load its contents
	//
	// Returns:
	//   - error: an error if the surface texture or encoder could not be acquired
	BeginFrame(view *wgpu.TextureView, clear bool) error

	// Draw binds the program's pipeline and bind groups and draws the full-screen triangle.
	Draw(res *programResources)

	// EndFrame ends the render pass and submits the command buffer.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the acquired surface texture. It does nothing if the frame
	// rendered into a texture instead of the surface.
	Present()

	// Release frees the device, surface and instance.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, mode PresentMode) (wgpuRendererBackend, error) {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: presentModeFor(mode),
	}
	if surfaceDescriptor != nil {
		w.surface = w.instance.CreateSurface(surfaceDescriptor)
	}

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Ray March Device",
	})
	if err != nil {
		w.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	w.device = d
	w.queue = d.GetQueue()

	if w.surface == nil {
		format := headlessFormat
		w.surfaceFormat = &format
	}
	return w, nil
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surfaceFormat == nil {
		return headlessFormat
	}
	return *b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.surface == nil {
		return
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.presentMode = presentModeFor(mode)
}

func (b *wgpuRendererBackendImpl) CreateProgramResources(program *raymarch.Program) (*programResources, error) {
	if program == nil || program.Vertex == nil || program.Fragment == nil {
		return nil, errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}
	format := b.SurfaceFormat()

	b.mu.Lock()
	defer b.mu.Unlock()

	label := program.Fragment.Key()
	res := &programResources{
		label:   label,
		buffers: make(map[string]*wgpu.Buffer),
		sizes:   make(map[string]uint64),
	}
	fail := func(err error) (*programResources, error) {
		res.Release()
		return nil, err
	}

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: program.Vertex.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: program.Vertex.Source(),
		},
	})
	if err != nil {
		return fail(fmt.Errorf("create vertex module: %w", err))
	}
	defer vs.Release()

	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: program.Fragment.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: program.Fragment.Source(),
		},
	})
	if err != nil {
		return fail(fmt.Errorf("create fragment module: %w", err))
	}
	defer fs.Release()

	bindings := program.Bindings()
	groups, err := bindGroupLayoutEntries(bindings)
	if err != nil {
		return fail(err)
	}

	res.layouts = make([]*wgpu.BindGroupLayout, len(groups))
	for g, entries := range groups {
		layout, layoutErr := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s group %d", label, g),
			Entries: entries,
		})
		if layoutErr != nil {
			return fail(fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr))
		}
		res.layouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: res.layouts,
	})
	if err != nil {
		return fail(err)
	}
	defer pipelineLayout.Release()

	res.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: program.Vertex.EntryPoint(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: program.Fragment.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend:     alphaBlendState(),
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fail(err)
	}

	res.bindGroups = make([]*wgpu.BindGroup, len(groups))
	for g, entries := range groups {
		bindGroupEntries := make([]wgpu.BindGroupEntry, 0, len(entries))
		for _, binding := range bindings {
			if binding.Group != g {
				continue
			}
			_, usage, _ := bufferBindingFor(binding.AddressSpace)
			buf, bufErr := b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: label + " " + binding.Name + " Buffer",
				Size:  binding.Size,
				Usage: usage,
			})
			if bufErr != nil {
				return fail(bufErr)
			}
			res.buffers[binding.Name] = buf
			res.sizes[binding.Name] = binding.Size
			bindGroupEntries = append(bindGroupEntries, wgpu.BindGroupEntry{
				Binding: uint32(binding.Binding),
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		}

		bindGroup, bgErr := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s group %d Bind Group", label, g),
			Layout:  res.layouts[g],
			Entries: bindGroupEntries,
		})
		if bgErr != nil {
			return fail(bgErr)
		}
		res.bindGroups[g] = bindGroup
	}

	return res, nil
}

func (b *wgpuRendererBackendImpl) CreateRenderTexture(width, height int) (*wgpu.Texture, *wgpu.TextureView, error) {
	format := b.SurfaceFormat()

	b.mu.Lock()
	defer b.mu.Unlock()

	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Ray March Target",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, nil, err
	}
	return texture, view, nil
}

func (b *wgpuRendererBackendImpl) WriteBuffer(buf *wgpu.Buffer, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue.WriteBuffer(buf, 0, data)
}

func (b *wgpuRendererBackendImpl) BeginFrame(view *wgpu.TextureView, clear bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}

	if view == nil {
		if b.surface == nil {
			return errors.New("no surface to render to")
		}
		surfaceTexture, err := b.surface.GetCurrentTexture()
		if err != nil {
			return err
		}
		surfaceView, err := surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return err
		}
		b.frameSurface = surfaceTexture
		b.frameView = surfaceView
		view = surfaceView
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		b.releaseSurfaceFrame()
		return err
	}

	b.frameEncoder = encoder
	b.framePass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     loadOpFor(clear),
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{},
			},
		},
	})
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(res *programResources) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.framePass.SetPipeline(res.pipeline)
	for i, bg := range res.bindGroups {
		b.framePass.SetBindGroup(uint32(i), bg, nil)
	}
	b.framePass.Draw(3, 1, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.framePass.End()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseSurfaceFrame()
		return err
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseSurfaceFrame()
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseSurfaceFrame()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// releaseSurfaceFrame drops the acquired surface texture. Callers hold b.mu.
func (b *wgpuRendererBackendImpl) releaseSurfaceFrame() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

// Release frees every GPU object held by the resources.
func (r *programResources) Release() {
	for _, bg := range r.bindGroups {
		if bg != nil {
			bg.Release()
		}
	}
	for _, buf := range r.buffers {
		buf.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	for _, l := range r.layouts {
		if l != nil {
			l.Release()
		}
	}
	r.bindGroups = nil
	r.buffers = nil
	r.layouts = nil
	r.pipeline = nil
}

// bindGroupLayoutEntries groups fragment-stage buffer bindings into layout entry lists
// indexed by bind group. Gaps in the group numbering produce empty groups.
//
// Parameters:
//   - bindings: the parsed binding declarations
//
// Returns:
//   - [][]wgpu.BindGroupLayoutEntry: entries per group, sorted by binding index
//   - error: an error for non-buffer address spaces or unresolved sizes
func bindGroupLayoutEntries(bindings []shader.Binding) ([][]wgpu.BindGroupLayoutEntry, error) {
	maxGroup := -1
	for _, b := range bindings {
		if b.Group > maxGroup {
			maxGroup = b.Group
		}
	}

	groups := make([][]wgpu.BindGroupLayoutEntry, maxGroup+1)
	for _, b := range bindings {
		bindingType, _, err := bufferBindingFor(b.AddressSpace)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.Name, err)
		}
		if b.Size == 0 {
			return nil, fmt.Errorf("binding %s: unresolved size for type %s", b.Name, b.Type)
		}
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(b.Binding),
			Visibility: wgpu.ShaderStageFragment,
		}
		entry.Buffer.Type = bindingType
		entry.Buffer.MinBindingSize = b.Size
		groups[b.Group] = append(groups[b.Group], entry)
	}
	for _, entries := range groups {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })
	}
	return groups, nil
}

// bufferBindingFor maps a WGSL address space to the buffer binding type and the
// usage flags of the buffer that backs it.
func bufferBindingFor(addressSpace string) (wgpu.BufferBindingType, wgpu.BufferUsage, error) {
	switch {
	case addressSpace == "uniform":
		return wgpu.BufferBindingTypeUniform, wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst, nil
	case strings.HasPrefix(addressSpace, "storage"):
		if strings.Contains(addressSpace, "read_write") {
			return wgpu.BufferBindingTypeStorage, wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst, nil
		}
		return wgpu.BufferBindingTypeReadOnlyStorage, wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst, nil
	default:
		return wgpu.BufferBindingTypeUndefined, 0, fmt.Errorf("unsupported address space %q", addressSpace)
	}
}

func presentModeFor(mode PresentMode) wgpu.PresentMode {
	switch mode {
	case PresentModeVSync:
		return wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		return wgpu.PresentModeImmediate
	}
}

func loadOpFor(clear bool) wgpu.LoadOp {
	if clear {
		return wgpu.LoadOpClear
	}
	return wgpu.LoadOpLoad
}

// alphaBlendState composites the pass output over the existing target contents.
func alphaBlendState() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}
