package raymarch

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-raymarch/common"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
)

// Default pass parameters applied by Configure to every unset field.
const (
	DefaultMaxSteps        = 100
	DefaultMaxTravelDist   = 100.0
	DefaultMaxHitMargin    = 0.001
	DefaultMarchDistScale  = 1.0
	DefaultShadowMinT      = 0.01
	DefaultShadowMaxT      = 100.0
	DefaultShadowK         = 2.0
	DefaultShadowDistScale = 1.0
	DefaultBackgroundAlpha = 0.0
)

// minimumAdvanceDistScale is the floor applied to every step multiplier.
const minimumAdvanceDistScale = 0.01

// MarchingConfig bounds the primary sphere-tracing loop.
type MarchingConfig struct {
	MaxSteps      int32
	MaxTravelDist float32
	MaxHitMargin  float32
	DistScale     float32
}

// SoftShadowConfig governs the penumbra estimate along shadow rays.
type SoftShadowConfig struct {
	MinT      float32
	MaxT      float32
	K         float32
	DistScale float32
}

// BackgroundConfig is the color a ray keeps when it misses.
type BackgroundConfig struct {
	Color [3]float32
	Alpha float32
}

// PassConfig is the fully defaulted configuration of a ray-march pass.
type PassConfig struct {
	Marching   MarchingConfig
	SoftShadow SoftShadowConfig
	Background BackgroundConfig

	// Lights is the caller-owned light list. It is re-classified every frame.
	Lights []light.Light

	// Camera supplies the inverse projection, world matrix and eye position.
	Camera camera.Camera

	// WorldMap is WGSL text defining fn mapWorld(p: vec3<f32>) -> f32. It may
	// include library chunks with //@oxy:include.
	WorldMap string
}

// MarchingOptions are the raw, possibly partial marching parameters.
type MarchingOptions struct {
	MaxSteps      *int
	MaxTravelDist *float32
	MaxHitMargin  *float32
	DistScale     *float32
}

// SoftShadowOptions are the raw, possibly partial soft-shadow parameters.
type SoftShadowOptions struct {
	MinT      *float32
	MaxT      *float32
	K         *float32
	DistScale *float32
}

// BackgroundOptions are the raw, possibly partial background parameters.
type BackgroundOptions struct {
	Color *[3]float32
	Alpha *float32
}

// Options is the raw configuration accepted by Configure. Nil pointer fields
// are unset and receive their default; an explicit zero is kept.
type Options struct {
	Marching   MarchingOptions
	SoftShadow SoftShadowOptions
	Background BackgroundOptions
	Lights     []light.Light
	Camera     camera.Camera
	WorldMap   string
}

// Configure layers raw options over the defaults field by field.
//
// Values are not range checked: a negative step budget or an inverted shadow
// interval is passed through unchanged and simply produces degenerate output.
//
// Parameters:
//   - raw: the caller's options
//
// Returns:
//   - *PassConfig: the defaulted configuration
//   - error: a *ConfigurationError if the world map or camera is missing
func Configure(raw Options) (*PassConfig, error) {
	if strings.TrimSpace(raw.WorldMap) == "" {
		return nil, configErrorf("worldMap", "world map source is empty")
	}
	if raw.Camera == nil {
		return nil, configErrorf("camera", "camera is required")
	}

	return &PassConfig{
		Marching: MarchingConfig{
			MaxSteps:      int32(common.Deref(raw.Marching.MaxSteps, DefaultMaxSteps)),
			MaxTravelDist: common.Deref(raw.Marching.MaxTravelDist, DefaultMaxTravelDist),
			MaxHitMargin:  common.Deref(raw.Marching.MaxHitMargin, DefaultMaxHitMargin),
			DistScale:     common.Deref(raw.Marching.DistScale, DefaultMarchDistScale),
		},
		SoftShadow: SoftShadowConfig{
			MinT:      common.Deref(raw.SoftShadow.MinT, DefaultShadowMinT),
			MaxT:      common.Deref(raw.SoftShadow.MaxT, DefaultShadowMaxT),
			K:         common.Deref(raw.SoftShadow.K, DefaultShadowK),
			DistScale: common.Deref(raw.SoftShadow.DistScale, DefaultShadowDistScale),
		},
		Background: BackgroundConfig{
			Color: common.Deref(raw.Background.Color, [3]float32{}),
			Alpha: common.Deref(raw.Background.Alpha, DefaultBackgroundAlpha),
		},
		Lights:   raw.Lights,
		Camera:   raw.Camera,
		WorldMap: raw.WorldMap,
	}, nil
}

// AdvanceScale clamps a step multiplier so every advance makes forward progress.
//
// Parameters:
//   - distScale: the configured multiplier
//
// Returns:
//   - float32: max(0.01, distScale)
func AdvanceScale(distScale float32) float32 {
	return max(minimumAdvanceDistScale, distScale)
}
