package raymarch

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/stretchr/testify/require"
)

const sphereWorld = `fn mapWorld(p: vec3<f32>) -> f32 {
    return sdSphere(p, 1.0);
}`

func testConfig(t testing.TB, options ...OptionsBuilderOption) *PassConfig {
	t.Helper()
	base := []OptionsBuilderOption{WithWorldMap(sphereWorld), WithCamera(camera.NewCamera())}
	cfg, err := Configure(NewOptions(append(base, options...)...))
	require.NoError(t, err)
	return cfg
}
