package light

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
// For directional lights the position is the vector pointing towards the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithColorRGB is an option builder that sets the color from an RGB triple,
// typically the result of common.ParseColor.
//
// Parameters:
//   - rgb: the color as (r, g, b)
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColorRGB(rgb [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = rgb
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithFalloff is an option builder that sets the point light falloff distance
// and decay exponent.
//
// Parameters:
//   - distance: the distance at which the light reaches its minimum, zero for no falloff
//   - decay: the exponent applied to the falloff term
//
// Returns:
//   - LightBuilderOption: a function that applies the falloff option to a lightImpl
func WithFalloff(distance, decay float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.distance = distance
		l.decay = decay
	}
}

// WithVisible is an option builder that sets whether the light contributes to shading.
//
// Parameters:
//   - visible: true if the light is visible
//
// Returns:
//   - LightBuilderOption: a function that applies the visibility option to a lightImpl
func WithVisible(visible bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.visible = visible
	}
}
