package raymarch

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureDefaults(t *testing.T) {
	cfg, err := Configure(Options{WorldMap: sphereWorld, Camera: camera.NewCamera()})
	require.NoError(t, err)

	assert.Equal(t, MarchingConfig{MaxSteps: 100, MaxTravelDist: 100, MaxHitMargin: 0.001, DistScale: 1}, cfg.Marching)
	assert.Equal(t, SoftShadowConfig{MinT: 0.01, MaxT: 100, K: 2, DistScale: 1}, cfg.SoftShadow)
	assert.Equal(t, BackgroundConfig{}, cfg.Background)
	assert.Empty(t, cfg.Lights)
}

func TestConfigurePerFieldOverride(t *testing.T) {
	cfg := testConfig(t,
		WithMaxSteps(500),
		WithMaxTravelDist(0),
		WithShadowK(4),
		WithBackground([3]float32{0.1, 0.2, 0.3}, 1),
	)

	assert.Equal(t, int32(500), cfg.Marching.MaxSteps)
	assert.Equal(t, float32(0), cfg.Marching.MaxTravelDist, "explicit zero must be kept")
	assert.Equal(t, float32(0.001), cfg.Marching.MaxHitMargin)

	assert.Equal(t, float32(4), cfg.SoftShadow.K)
	assert.Equal(t, float32(0.01), cfg.SoftShadow.MinT)
	assert.Equal(t, float32(100), cfg.SoftShadow.MaxT)

	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, cfg.Background.Color)
	assert.Equal(t, float32(1), cfg.Background.Alpha)
}

func TestConfigureIsLenient(t *testing.T) {
	cfg := testConfig(t, WithMaxSteps(-3), WithSoftShadow(10, 1, -1), WithMarchDistScale(-2))

	assert.Equal(t, int32(-3), cfg.Marching.MaxSteps)
	assert.Equal(t, float32(10), cfg.SoftShadow.MinT)
	assert.Equal(t, float32(1), cfg.SoftShadow.MaxT)
	assert.Equal(t, float32(-2), cfg.Marching.DistScale)
}

func TestConfigureErrors(t *testing.T) {
	cases := []struct {
		name  string
		opts  Options
		field string
	}{
		{"missing world map", Options{Camera: camera.NewCamera()}, "worldMap"},
		{"blank world map", Options{WorldMap: "  \n", Camera: camera.NewCamera()}, "worldMap"},
		{"missing camera", Options{WorldMap: sphereWorld}, "camera"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Configure(tc.opts)
			assert.Nil(t, cfg)

			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tc.field, cerr.Field)
		})
	}
}

func TestNewOptionsLights(t *testing.T) {
	a := light.NewLight(light.LightTypeAmbient)
	p := light.NewLight(light.LightTypePoint)

	cfg := testConfig(t, WithLights(a, p))
	assert.Equal(t, []light.Light{a, p}, cfg.Lights)
}

func TestAdvanceScale(t *testing.T) {
	assert.Equal(t, float32(1), AdvanceScale(1))
	assert.Equal(t, float32(0.01), AdvanceScale(0))
	assert.Equal(t, float32(0.01), AdvanceScale(-5))
	assert.Equal(t, float32(0.5), AdvanceScale(0.5))
}
