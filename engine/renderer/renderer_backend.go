package renderer

// PresentMode controls how frames reach the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank, capping the frame rate at the refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. Lowest latency, may tear.
	PresentModeUncapped
)

// RendererBackend is the GPU API the Renderer drives. WebGPU is the only one.
type RendererBackend interface {
	wgpuRendererBackend
}
