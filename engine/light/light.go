package light

import (
	"fmt"
	"strings"
)

// LightType identifies the kind of light source. It is the discriminant the
// classifier partitions on.
type LightType int

const (
	// LightTypeAmbient represents a light that adds its color uniformly to every
	// shaded surface point, regardless of normal, occlusion, or distance.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a distant light. Its position is treated as
	// a vector pointing from the scene towards the light; the shading direction is
	// the normalized position. Directional contributions are soft-shadowed up to
	// the configured soft-shadow maxT.
	LightTypeDirectional

	// LightTypePoint represents a light emitting in all directions from a position.
	// When distance is greater than zero the contribution falls off as
	// max(0.001, 1 - d/distance)^decay.
	LightTypePoint
)

// String returns the lower-case name of the light type as used in scene files.
func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	default:
		return "unknown"
	}
}

// ParseLightType maps a scene-file kind name back to its LightType.
//
// Parameters:
//   - name: "ambient", "directional" or "point", case-insensitive
//
// Returns:
//   - LightType: the matching type
//   - error: an error if the name is not a known kind
func ParseLightType(name string) (LightType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ambient":
		return LightTypeAmbient, nil
	case "directional":
		return LightTypeDirectional, nil
	case "point":
		return LightTypePoint, nil
	default:
		return 0, fmt.Errorf("unknown light kind %q", name)
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType LightType
	position  [3]float32
	color     [3]float32
	intensity float32
	distance  float32
	decay     float32
	visible   bool
}

// Light defines the interface for a light source feeding a ray-march pass.
//
// All light kinds share this interface; kind-specific properties (position for
// ambient lights, distance and decay for anything but point lights) are stored
// but ignored by the shading code.
//
// Lights are owned by the caller. A pass only holds references to them and reads
// their current values once per frame, so setters may be called between frames.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (ambient, directional, or point)
	Type() LightType

	// Position returns the world-space position of the light. For directional
	// lights this is the vector towards the light.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Distance returns the falloff distance of a point light. Zero or negative
	// disables falloff.
	//
	// Returns:
	//   - float32: the falloff distance
	Distance() float32

	// Decay returns the exponent applied to the point light falloff term.
	//
	// Returns:
	//   - float32: the decay exponent
	Decay() float32

	// Visible reports whether the light contributes to shading. Ambient lights
	// contribute regardless of this flag.
	//
	// Returns:
	//   - bool: true if the light is visible
	Visible() bool

	// SetPosition updates the world-space position of the light.
	//
	// Parameters:
	//   - x: the x position component
	//   - y: the y position component
	//   - z: the z position component
	SetPosition(x, y, z float32)

	// SetColor updates the RGB color of the light.
	//
	// Parameters:
	//   - r: the red component
	//   - g: the green component
	//   - b: the blue component
	SetColor(r, g, b float32)

	// SetIntensity updates the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity value
	SetIntensity(intensity float32)

	// SetFalloff updates the point light falloff distance and decay exponent.
	//
	// Parameters:
	//   - distance: the falloff distance, zero to disable falloff
	//   - decay: the decay exponent
	SetFalloff(distance, decay float32)

	// SetVisible toggles whether the light contributes to shading.
	//
	// Parameters:
	//   - visible: true to enable the light
	SetVisible(visible bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Defaults are white, intensity 1, visible, positioned at (0, 1, 0) with no
// falloff distance and a decay exponent of 2.
//
// Parameters:
//   - lightType: the kind of light to create (ambient, directional, or point)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		position:  [3]float32{0, 1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		distance:  0,
		decay:     2.0,
		visible:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Distance() float32 {
	return l.distance
}

func (l *lightImpl) Decay() float32 {
	return l.decay
}

func (l *lightImpl) Visible() bool {
	return l.visible
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetFalloff(distance, decay float32) {
	l.distance = distance
	l.decay = decay
}

func (l *lightImpl) SetVisible(visible bool) {
	l.visible = visible
}
