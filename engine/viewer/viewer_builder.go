package viewer

import "log/slog"

// ViewerBuilderOption configures a viewer during construction.
type ViewerBuilderOption func(*viewerImpl)

// WithTitle sets the window title.
func WithTitle(title string) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.title = title
	}
}

// WithWindowSize sets the initial logical window size.
//
// Parameters:
//   - width: the window width in pixels
//   - height: the window height in pixels
//
// Returns:
//   - ViewerBuilderOption: a function that applies the size option
func WithWindowSize(width, height int) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.width = width
		v.height = height
	}
}

// WithRenderScale sets the render resolution relative to the window. The CPU cost
// grows with the square of the scale. Values <= 0 are ignored.
//
// Parameters:
//   - scale: the resolution factor, 1 renders one pixel per logical window pixel
//
// Returns:
//   - ViewerBuilderOption: a function that applies the scale option
func WithRenderScale(scale float64) ViewerBuilderOption {
	return func(v *viewerImpl) {
		if scale > 0 {
			v.scale = scale
		}
	}
}

// WithTPS sets the tick rate of the update loop.
func WithTPS(tps int) ViewerBuilderOption {
	return func(v *viewerImpl) {
		if tps > 0 {
			v.tps = tps
		}
	}
}

// WithUpdateHook registers a function run at the start of every update, on the
// game loop goroutine. Returning an error stops the viewer.
func WithUpdateHook(hook func() error) ViewerBuilderOption {
	return func(v *viewerImpl) {
		v.updateHook = hook
	}
}

// WithLogger sets the logger for frame errors. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) ViewerBuilderOption {
	return func(v *viewerImpl) {
		if logger != nil {
			v.logger = logger
		}
	}
}
