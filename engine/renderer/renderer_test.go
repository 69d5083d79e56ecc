package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/camera"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembledProgram(t *testing.T, counts light.Counts) *raymarch.Program {
	t.Helper()
	cfg, err := raymarch.Configure(raymarch.NewOptions(
		raymarch.WithWorldMap("fn mapWorld(p: vec3<f32>) -> f32 { return sdSphere(p, 1.0); }"),
		raymarch.WithCamera(camera.NewCamera()),
	))
	require.NoError(t, err)
	program, err := raymarch.NewAssembler(nil).Assemble(cfg, counts)
	require.NoError(t, err)
	return program
}

func TestBindGroupLayoutEntries(t *testing.T) {
	program := assembledProgram(t, light.Counts{Ambient: 1, Directional: 2, Point: 3})

	groups, err := bindGroupLayoutEntries(program.Bindings())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0], 7)

	wantSizes := []uint64{
		raymarch.FrameUniformsSize,
		raymarch.MarchingUniformsSize,
		raymarch.SoftShadowUniformsSize,
		raymarch.BackgroundUniformsSize,
		1 * light.GPUAmbientLightSize,
		2 * light.GPUDirectionalLightSize,
		3 * light.GPUPointLightSize,
	}
	for i, entry := range groups[0] {
		assert.Equal(t, uint32(i), entry.Binding)
		assert.Equal(t, wgpu.ShaderStageFragment, entry.Visibility)
		assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)
		assert.Equal(t, wantSizes[i], entry.Buffer.MinBindingSize, "binding %d", i)
	}
}

func TestBindGroupLayoutEntriesOmitsEmptyLightArrays(t *testing.T) {
	program := assembledProgram(t, light.Counts{Point: 1})

	groups, err := bindGroupLayoutEntries(program.Bindings())
	require.NoError(t, err)
	require.Len(t, groups, 1)

	var bindings []uint32
	for _, entry := range groups[0] {
		bindings = append(bindings, entry.Binding)
	}
	assert.Equal(t, []uint32{0, 1, 2, 3, 6}, bindings)
}

func TestBindGroupLayoutEntriesErrors(t *testing.T) {
	_, err := bindGroupLayoutEntries([]shader.Binding{{Name: "tex", AddressSpace: "", Type: "texture_2d<f32>", Size: 16}})
	assert.ErrorContains(t, err, "unsupported address space")

	_, err = bindGroupLayoutEntries([]shader.Binding{{Name: "u", AddressSpace: "uniform", Type: "Unknown"}})
	assert.ErrorContains(t, err, "unresolved size")
}

func TestBindGroupLayoutEntriesGroupGaps(t *testing.T) {
	groups, err := bindGroupLayoutEntries([]shader.Binding{
		{Group: 1, Binding: 2, Name: "b", AddressSpace: "storage, read", Type: "B", Size: 16},
		{Group: 1, Binding: 0, Name: "a", AddressSpace: "storage, read_write", Type: "A", Size: 32},
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Empty(t, groups[0])
	require.Len(t, groups[1], 2)
	assert.Equal(t, uint32(0), groups[1][0].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, groups[1][0].Buffer.Type)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, groups[1][1].Buffer.Type)
}

func TestBufferBindingFor(t *testing.T) {
	bindingType, usage, err := bufferBindingFor("uniform")
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, bindingType)
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, usage)

	_, usage, err = bufferBindingFor("storage, read")
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst, usage)
}

func TestPresentModeAndLoadOp(t *testing.T) {
	assert.Equal(t, wgpu.PresentModeFifo, presentModeFor(PresentModeVSync))
	assert.Equal(t, wgpu.PresentModeImmediate, presentModeFor(PresentModeUncapped))
	assert.Equal(t, wgpu.LoadOpClear, loadOpFor(true))
	assert.Equal(t, wgpu.LoadOpLoad, loadOpFor(false))

	blend := alphaBlendState()
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, blend.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, blend.Color.DstFactor)
}
