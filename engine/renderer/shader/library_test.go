package shader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryBuiltins(t *testing.T) {
	lib := NewLibrary()

	for _, name := range []string{
		ChunkVaryings, ChunkFullscreenVertex, ChunkUniforms, ChunkCalcWorldPos,
		ChunkSDF, ChunkNoise, ChunkTransform, ChunkLightStructs, ChunkLightsPars,
		ChunkCalcNormal, ChunkSoftShadow, ChunkRayMarch,
	} {
		src, err := lib.Lookup(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, src, name)
	}

	src, _ := lib.Lookup(ChunkSDF)
	assert.Contains(t, src, "fn sdBoxFrame(")
	assert.Contains(t, src, "fn opSmoothUnion(")

	assert.IsIncreasing(t, lib.Names())
}

func TestLibraryLookupUnknown(t *testing.T) {
	_, err := NewLibrary().Lookup("rm_nope")
	var unknown *UnknownChunkError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, `unknown chunk "rm_nope"`, err.Error())
}

func TestLibraryRegister(t *testing.T) {
	lib := NewLibrary()
	lib.Register("scene_helpers", "fn helper() -> f32 { return 1.0; }")

	src, err := lib.Lookup("scene_helpers")
	require.NoError(t, err)
	assert.Contains(t, src, "helper")
	assert.Contains(t, lib.Names(), "scene_helpers")
}
