package shader

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
)

// Built-in chunk names.
const (
	ChunkVaryings         = "rm_varyings"
	ChunkFullscreenVertex = "rm_fullscreen_vertex"
	ChunkUniforms         = "rm_uniforms"
	ChunkCalcWorldPos     = "rm_calc_world_pos"
	ChunkSDF              = "rm_sdf"
	ChunkNoise            = "rm_noise"
	ChunkTransform        = "rm_transform"
	ChunkLightStructs     = "rm_light_structs"
	ChunkLightsPars       = "rm_lights_pars"
	ChunkCalcNormal       = "rm_calc_normal"
	ChunkSoftShadow       = "rm_soft_shadow"
	ChunkRayMarch         = "rm_ray_march"
)

//go:embed assets/*.wgsl
var chunkAssets embed.FS

// libraryImpl is the implementation of the Library interface.
type libraryImpl struct {
	mu     sync.RWMutex
	chunks map[string]string
}

// Library maps chunk names to WGSL source fragments. Chunks may reference other
// chunks through @oxy:include annotations; the references are resolved by the
// PreProcessor, not by the library.
type Library interface {
	// Lookup returns the source of the named chunk.
	//
	// Parameters:
	//   - name: the chunk name
	//
	// Returns:
	//   - string: the chunk source text
	//   - error: an *UnknownChunkError if no chunk is registered under name
	Lookup(name string) (string, error)

	// Register adds or replaces a chunk.
	//
	// Parameters:
	//   - name: the chunk name used by @oxy:include
	//   - source: the chunk source text
	Register(name, source string)

	// Names returns every registered chunk name in sorted order.
	//
	// Returns:
	//   - []string: the chunk names
	Names() []string
}

var _ Library = &libraryImpl{}

// LibraryBuilderOption is a function that configures a Library during construction.
type LibraryBuilderOption func(*libraryImpl)

// WithChunk is an option builder that registers an additional chunk.
//
// Parameters:
//   - name: the chunk name
//   - source: the chunk source text
//
// Returns:
//   - LibraryBuilderOption: a function that registers the chunk on a libraryImpl
func WithChunk(name, source string) LibraryBuilderOption {
	return func(l *libraryImpl) {
		l.chunks[name] = source
	}
}

// NewLibrary creates a Library pre-populated with the built-in ray-march chunks
// embedded from the assets directory, plus any chunks supplied as options.
//
// Parameters:
//   - opts: variadic list of LibraryBuilderOption functions
//
// Returns:
//   - Library: the chunk library
func NewLibrary(opts ...LibraryBuilderOption) Library {
	l := &libraryImpl{
		chunks: map[string]string{
			ChunkLightStructs: light.GPULightsSource,
		},
	}

	entries, _ := fs.ReadDir(chunkAssets, "assets")
	for _, e := range entries {
		data, err := chunkAssets.ReadFile(path.Join("assets", e.Name()))
		if err != nil {
			continue
		}
		l.chunks[strings.TrimSuffix(e.Name(), ".wgsl")] = string(data)
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *libraryImpl) Lookup(name string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src, ok := l.chunks[name]
	if !ok {
		return "", &UnknownChunkError{Name: name}
	}
	return src, nil
}

func (l *libraryImpl) Register(name, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.chunks[name] = source
}

func (l *libraryImpl) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.chunks))
	for name := range l.chunks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
