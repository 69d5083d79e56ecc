package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parserFixture = `
struct Inner {
    a: vec3<f32>,
    b: f32,
}

/* block comment @group(9) @binding(9) var<uniform> hidden: f32; */
struct Outer {
    m: mat4x4<f32>,
    inner: Inner,
    flag: u32,
}

// @group(8) @binding(8) var<uniform> commented: f32;
@group(0) @binding(2) var<uniform> outer: Outer;
@group(0) @binding(0) var<uniform> items: array<Inner, 3>;
@group(1) @binding(0) var<uniform> scale: f32;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

func TestParseBindings(t *testing.T) {
	bindings := ParseBindings(parserFixture)
	require.Len(t, bindings, 3)

	assert.Equal(t, Binding{Group: 0, Binding: 0, AddressSpace: "uniform", Name: "items", Type: "array<Inner, 3>", Size: 48}, bindings[0])
	assert.Equal(t, "outer", bindings[1].Name)
	// mat4 (64) + Inner (16, align 16) + u32 -> 84, rounded to 96
	assert.Equal(t, uint64(96), bindings[1].Size)
	assert.Equal(t, 1, bindings[2].Group)
	assert.Equal(t, uint64(4), bindings[2].Size)
}

func TestNewShader(t *testing.T) {
	s := NewShader("fixture", parserFixture, ShaderTypeFragment)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Equal(t, ShaderTypeFragment, s.Type())
	b, ok := s.Binding("scale")
	require.True(t, ok)
	assert.Equal(t, 1, b.Group)
	_, ok = s.Binding("hidden")
	assert.False(t, ok)
	assert.Equal(t, "", EntryPoint(parserFixture, ShaderTypeVertex))
}
