package raymarch

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/shader"
)

// Light-count define names. Each is also declared as a WGSL u32 constant when
// its value is greater than zero.
const (
	DefineAmbientLights     = "N_ALIGHTS"
	DefineDirectionalLights = "N_DLIGHTS"
	DefinePointLights       = "N_PLIGHTS"
)

// fragmentMain reconstructs the primary ray for the pixel and shades it.
const fragmentMain = `@fragment
fn fs_main(input: VertexOutput) -> @location(0) vec4<f32> {
    let ro = uFrame.cameraPosition;
    let rd = normalize(calcWorldPos(input.uv) - ro);
    return rayMarch(ro, rd);
}
`

// fragmentChunksBeforeWorld and fragmentChunksAfterWorld surround the world map.
// The world map may call any SDF helper and is called by the tracer chunk.
var (
	fragmentChunksBeforeWorld = []string{shader.ChunkVaryings, shader.ChunkCalcWorldPos, shader.ChunkSDF}
	fragmentChunksAfterWorld  = []string{shader.ChunkRayMarch}
)

// programCounter generates unique Program IDs.
var programCounter atomic.Uint64

type programKey struct {
	worldMap string
	counts   light.Counts
}

type assemblerImpl struct {
	mu      sync.Mutex
	library shader.Library
	cache   map[programKey]*Program
	logger  *slog.Logger
}

// Assembler builds shading programs from a world map and light counts.
type Assembler interface {
	// Assemble returns the program for cfg's world map compiled for counts. The
	// result is a deterministic function of its inputs; repeated calls with the
	// same world map and counts return the identical *Program.
	//
	// Parameters:
	//   - cfg: the pass configuration supplying the world map
	//   - counts: the light counts to compile in
	//
	// Returns:
	//   - *Program: the assembled program
	//   - error: a wrapped *shader.UnknownChunkError for unknown includes, or a
	//     pre-processor error for malformed annotations
	Assemble(cfg *PassConfig, counts light.Counts) (*Program, error)

	// Library returns the chunk library includes are resolved against.
	//
	// Returns:
	//   - shader.Library: the library
	Library() shader.Library
}

var _ Assembler = &assemblerImpl{}

// NewAssembler creates an Assembler over library. A nil library uses the
// built-in chunks.
//
// Parameters:
//   - library: the chunk library
//   - options: functional options to configure the assembler
//
// Returns:
//   - Assembler: the assembler
func NewAssembler(library shader.Library, options ...AssemblerBuilderOption) Assembler {
	if library == nil {
		library = shader.NewLibrary()
	}
	a := &assemblerImpl{
		library: library,
		cache:   make(map[programKey]*Program),
		logger:  slog.Default(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *assemblerImpl) Library() shader.Library {
	return a.library
}

func (a *assemblerImpl) Assemble(cfg *PassConfig, counts light.Counts) (*Program, error) {
	key := programKey{worldMap: cfg.WorldMap, counts: counts}

	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.cache[key]; ok {
		return p, nil
	}

	defines := LightDefines(counts)
	pp := shader.NewPreProcessor(a.library)

	vertexSrc, err := pp.Process(includeLines(shader.ChunkFullscreenVertex), defines)
	if err != nil {
		return nil, fmt.Errorf("assemble vertex: %w", err)
	}
	fragmentSrc, err := pp.Process(FragmentTemplate(cfg.WorldMap, defines), defines)
	if err != nil {
		return nil, fmt.Errorf("assemble fragment: %w", err)
	}

	id := programCounter.Add(1)
	p := &Program{
		ID:       id,
		Vertex:   shader.NewShader(fmt.Sprintf("raymarch_vertex_%d", id), vertexSrc, shader.ShaderTypeVertex),
		Fragment: shader.NewShader(fmt.Sprintf("raymarch_fragment_%d", id), fragmentSrc, shader.ShaderTypeFragment),
		Defines:  defines,
		Counts:   counts,
	}
	a.cache[key] = p

	a.logger.Debug("assembled ray-march program",
		"id", id,
		"ambient", counts.Ambient,
		"directional", counts.Directional,
		"point", counts.Point,
		"lights", counts.Total(),
		"bindings", len(p.Bindings()),
	)
	return p, nil
}

// LightDefines returns the compile-time defines for a light-count triple.
//
// Parameters:
//   - counts: the light counts
//
// Returns:
//   - shader.Defines: N_ALIGHTS, N_DLIGHTS and N_PLIGHTS
func LightDefines(counts light.Counts) shader.Defines {
	return shader.Defines{
		DefineAmbientLights:     counts.Ambient,
		DefineDirectionalLights: counts.Directional,
		DefinePointLights:       counts.Point,
	}
}

// FragmentTemplate returns the un-expanded fragment text: define constants, the
// fixed chunk order around the world map, and the entry point.
//
// Parameters:
//   - worldMap: the caller's world-map text, inserted verbatim
//   - defines: the light-count defines
//
// Returns:
//   - string: annotated WGSL ready for the pre-processor
func FragmentTemplate(worldMap string, defines shader.Defines) string {
	var b strings.Builder
	for _, name := range defines.Names() {
		if v := defines[name]; v > 0 {
			fmt.Fprintf(&b, "const %s: u32 = %du;\n", name, v)
		}
	}
	b.WriteString(includeLines(fragmentChunksBeforeWorld...))
	b.WriteString("\n")
	b.WriteString(worldMap)
	b.WriteString("\n")
	b.WriteString(includeLines(fragmentChunksAfterWorld...))
	b.WriteString("\n")
	b.WriteString(fragmentMain)
	return b.String()
}

func includeLines(chunks ...string) string {
	lines := make([]string, len(chunks))
	for i, c := range chunks {
		lines[i] = "//@oxy:include " + c
	}
	return strings.Join(lines, "\n")
}
