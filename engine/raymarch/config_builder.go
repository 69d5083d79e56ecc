package raymarch

import (
	"github.com/Carmen-Shannon/oxy-raymarch/common"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
)

// OptionsBuilderOption is a function that sets fields of raw Options.
type OptionsBuilderOption func(*Options)

// NewOptions builds raw Options from functional options. Fields no option
// touches stay unset and are defaulted by Configure.
//
// Parameters:
//   - options: the options to apply in order
//
// Returns:
//   - Options: the raw options
func NewOptions(options ...OptionsBuilderOption) Options {
	var o Options
	for _, option := range options {
		option(&o)
	}
	return o
}

// WithWorldMap sets the WGSL world-map source.
//
// Parameters:
//   - source: text defining fn mapWorld(p: vec3<f32>) -> f32
//
// Returns:
//   - OptionsBuilderOption: a function that applies the world map option
func WithWorldMap(source string) OptionsBuilderOption {
	return func(o *Options) {
		o.WorldMap = source
	}
}

// WithCamera sets the camera the pass reconstructs rays from.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - OptionsBuilderOption: a function that applies the camera option
func WithCamera(cam camera.Camera) OptionsBuilderOption {
	return func(o *Options) {
		o.Camera = cam
	}
}

// WithLights sets the light list.
//
// Parameters:
//   - lights: the lights in shading order
//
// Returns:
//   - OptionsBuilderOption: a function that applies the lights option
func WithLights(lights ...light.Light) OptionsBuilderOption {
	return func(o *Options) {
		o.Lights = lights
	}
}

// WithMaxSteps sets the primary ray step budget.
func WithMaxSteps(steps int) OptionsBuilderOption {
	return func(o *Options) {
		o.Marching.MaxSteps = common.Ptr(steps)
	}
}

// WithMaxTravelDist sets the distance after which a primary ray is a miss.
func WithMaxTravelDist(dist float32) OptionsBuilderOption {
	return func(o *Options) {
		o.Marching.MaxTravelDist = common.Ptr(dist)
	}
}

// WithMaxHitMargin sets the absolute distance below which a sample is a hit.
func WithMaxHitMargin(margin float32) OptionsBuilderOption {
	return func(o *Options) {
		o.Marching.MaxHitMargin = common.Ptr(margin)
	}
}

// WithMarchDistScale sets the primary ray step multiplier.
func WithMarchDistScale(scale float32) OptionsBuilderOption {
	return func(o *Options) {
		o.Marching.DistScale = common.Ptr(scale)
	}
}

// WithSoftShadow sets the shadow ray interval and hardness.
//
// Parameters:
//   - minT: the start distance along the shadow ray
//   - maxT: the end distance for directional lights
//   - k: the penumbra hardness
//
// Returns:
//   - OptionsBuilderOption: a function that applies the soft shadow option
func WithSoftShadow(minT, maxT, k float32) OptionsBuilderOption {
	return func(o *Options) {
		o.SoftShadow.MinT = common.Ptr(minT)
		o.SoftShadow.MaxT = common.Ptr(maxT)
		o.SoftShadow.K = common.Ptr(k)
	}
}

// WithShadowK sets only the penumbra hardness.
func WithShadowK(k float32) OptionsBuilderOption {
	return func(o *Options) {
		o.SoftShadow.K = common.Ptr(k)
	}
}

// WithShadowDistScale sets the shadow ray step multiplier.
func WithShadowDistScale(scale float32) OptionsBuilderOption {
	return func(o *Options) {
		o.SoftShadow.DistScale = common.Ptr(scale)
	}
}

// WithBackground sets the miss color and alpha.
//
// Parameters:
//   - color: RGB in [0,1]
//   - alpha: alpha in [0,1]
//
// Returns:
//   - OptionsBuilderOption: a function that applies the background option
func WithBackground(color [3]float32, alpha float32) OptionsBuilderOption {
	return func(o *Options) {
		o.Background.Color = common.Ptr(color)
		o.Background.Alpha = common.Ptr(alpha)
	}
}
