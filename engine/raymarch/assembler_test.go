package raymarch

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCounts() []light.Counts {
	var out []light.Counts
	for a := 0; a <= 2; a++ {
		for d := 0; d <= 2; d++ {
			for p := 0; p <= 2; p++ {
				out = append(out, light.Counts{Ambient: a, Directional: d, Point: p})
			}
		}
	}
	return out
}

func TestAssembleElidesEmptyLightBranches(t *testing.T) {
	cfg := testConfig(t)
	asm := NewAssembler(nil)

	arrays := []struct {
		name   string
		define string
		count  func(light.Counts) int
	}{
		{BindingAmbientLights, DefineAmbientLights, func(c light.Counts) int { return c.Ambient }},
		{BindingDirectionalLights, DefineDirectionalLights, func(c light.Counts) int { return c.Directional }},
		{BindingPointLights, DefinePointLights, func(c light.Counts) int { return c.Point }},
	}

	for _, counts := range allCounts() {
		t.Run(fmt.Sprintf("%d_%d_%d", counts.Ambient, counts.Directional, counts.Point), func(t *testing.T) {
			p, err := asm.Assemble(cfg, counts)
			require.NoError(t, err)
			src := p.Fragment.Source()

			assert.NotContains(t, src, "@oxy:")
			for _, arr := range arrays {
				n := arr.count(counts)
				_, bound := p.Fragment.Binding(arr.name)
				if n == 0 {
					assert.NotContains(t, src, arr.name)
					assert.NotContains(t, src, arr.define)
					assert.False(t, bound)
				} else {
					assert.Contains(t, src, fmt.Sprintf("const %s: u32 = %du;", arr.define, n))
					assert.True(t, bound)
				}
			}

			require.NoError(t, shader.Check(src), src)
		})
	}
}

func TestAssembleVertexProgram(t *testing.T) {
	p, err := NewAssembler(nil).Assemble(testConfig(t), light.Counts{})
	require.NoError(t, err)

	assert.Equal(t, "vs_main", p.Vertex.EntryPoint())
	assert.Equal(t, shader.ShaderTypeVertex, p.Vertex.Type())
	assert.Empty(t, p.Vertex.Bindings())
	require.NoError(t, shader.Check(p.Vertex.Source()))
}

func TestAssembleChunkOrder(t *testing.T) {
	p, err := NewAssembler(nil).Assemble(testConfig(t), light.Counts{Ambient: 1})
	require.NoError(t, err)
	src := p.Fragment.Source()

	order := []string{
		"struct VertexOutput",
		"fn calcWorldPos",
		"fn sdSphere",
		"fn mapWorld",
		"fn calcNormal",
		"fn softShadow",
		"fn rayMarch",
		"fn fs_main",
	}
	last := -1
	for _, marker := range order {
		i := strings.Index(src, marker)
		require.GreaterOrEqual(t, i, 0, marker)
		assert.Greater(t, i, last, marker)
		last = i
		assert.Equal(t, 1, strings.Count(src, marker), marker)
	}
	assert.Equal(t, "fs_main", p.Fragment.EntryPoint())
}

func TestAssembleUniformDeclarations(t *testing.T) {
	p, err := NewAssembler(nil).Assemble(testConfig(t), light.Counts{Ambient: 1, Directional: 2, Point: 3})
	require.NoError(t, err)

	want := map[string]uint64{
		BindingFrame:             FrameUniformsSize,
		BindingMarching:          MarchingUniformsSize,
		BindingSoftShadow:        SoftShadowUniformsSize,
		BindingBackground:        BackgroundUniformsSize,
		BindingAmbientLights:     1 * light.GPUAmbientLightSize,
		BindingDirectionalLights: 2 * light.GPUDirectionalLightSize,
		BindingPointLights:       3 * light.GPUPointLightSize,
	}
	bindings := p.Bindings()
	require.Len(t, bindings, len(want))
	for i, b := range bindings {
		assert.Equal(t, 0, b.Group)
		assert.Equal(t, i, b.Binding)
		assert.Equal(t, want[b.Name], b.Size, b.Name)
	}
}

func TestAssembleCache(t *testing.T) {
	cfg := testConfig(t)
	asm := NewAssembler(nil)

	a, err := asm.Assemble(cfg, light.Counts{Ambient: 1})
	require.NoError(t, err)
	b, err := asm.Assemble(cfg, light.Counts{Ambient: 1})
	require.NoError(t, err)
	c, err := asm.Assemble(cfg, light.Counts{Ambient: 2})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestAssembleWorldMapIncludes(t *testing.T) {
	cfg := testConfig(t, WithWorldMap(`//@oxy:include rm_noise
//@oxy:include rm_transform
//@oxy:include rm_sdf
fn mapWorld(p: vec3<f32>) -> f32 {
    let q = opTx(p, rotation3d(vec3<f32>(0.0, 1.0, 0.0), uFrame.time));
    return sdBox(q, vec3<f32>(1.0)) + cnoise(p) * 0.1;
}`))

	p, err := NewAssembler(nil).Assemble(cfg, light.Counts{Point: 1})
	require.NoError(t, err)
	src := p.Fragment.Source()
	assert.Equal(t, 1, strings.Count(src, "fn sdBox("))
	assert.Contains(t, src, "fn cnoise(")
	require.NoError(t, shader.Check(src))
}

func TestAssembleLogsLightTotal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	asm := NewAssembler(nil, WithAssemblerLogger(logger))

	_, err := asm.Assemble(testConfig(t), light.Counts{Ambient: 1, Directional: 2, Point: 3})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "assembled ray-march program")
	assert.Contains(t, buf.String(), "lights=6")
}

func TestAssembleUnknownChunk(t *testing.T) {
	cfg := testConfig(t, WithWorldMap("//@oxy:include rm_missing\nfn mapWorld(p: vec3<f32>) -> f32 { return 1.0; }"))

	p, err := NewAssembler(nil).Assemble(cfg, light.Counts{})
	assert.Nil(t, p)

	var unknown *shader.UnknownChunkError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "rm_missing", unknown.Name)
}

func TestAssembleCustomLibrary(t *testing.T) {
	lib := shader.NewLibrary(shader.WithChunk("scene", sphereWorld))
	cfg := testConfig(t, WithWorldMap("//@oxy:include scene"))

	asm := NewAssembler(lib)
	assert.Same(t, lib, asm.Library())

	p, err := asm.Assemble(cfg, light.Counts{})
	require.NoError(t, err)
	assert.Contains(t, p.Fragment.Source(), "fn mapWorld")
}

func TestFragmentTemplate(t *testing.T) {
	src := FragmentTemplate("WORLD", LightDefines(light.Counts{Ambient: 2, Point: 1}))

	assert.True(t, strings.HasPrefix(src, "const N_ALIGHTS: u32 = 2u;\nconst N_PLIGHTS: u32 = 1u;\n"))
	assert.NotContains(t, src, "N_DLIGHTS")
	assert.Less(t, strings.Index(src, "rm_sdf"), strings.Index(src, "WORLD"))
	assert.Less(t, strings.Index(src, "WORLD"), strings.Index(src, "rm_ray_march"))
}
