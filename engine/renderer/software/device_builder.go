package software

import "log/slog"

// DeviceBuilderOption is a function that configures a software Device during construction.
type DeviceBuilderOption func(*deviceImpl)

// WithWorkers sets the maximum number of goroutines shading rows in parallel.
//
// Parameters:
//   - workers: the worker count, at least 1
//
// Returns:
//   - DeviceBuilderOption: a function that applies the workers option
func WithWorkers(workers int) DeviceBuilderOption {
	return func(d *deviceImpl) {
		d.workers = max(1, workers)
	}
}

// WithDisplaySize sets the size of the display image used for nil targets.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - DeviceBuilderOption: a function that applies the display size option
func WithDisplaySize(width, height int) DeviceBuilderOption {
	return func(d *deviceImpl) {
		d.display = NewImageTarget(width, height)
	}
}

// WithLogger sets the logger for device diagnostics.
func WithLogger(logger *slog.Logger) DeviceBuilderOption {
	return func(d *deviceImpl) {
		d.logger = logger
	}
}
