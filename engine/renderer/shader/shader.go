package shader

// ShaderType identifies the pipeline stage a shader is written for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used in pair with a vertex shader.
	ShaderTypeFragment
)

// String returns the stage name.
func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	bindings   []Binding
}

// Shader is a fully expanded WGSL shader stage together with the metadata a device
// needs to build a pipeline for it: the entry point and the declared bindings.
// A Shader is immutable once created.
type Shader interface {
	// Key retrieves the identifier of this shader, used for labels and caching.
	//
	// Returns:
	//   - string: the shader's key
	Key() string

	// Source retrieves the expanded WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// Type retrieves the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: the stage
	Type() ShaderType

	// EntryPoint retrieves the name of the stage's entry point function.
	//
	// Returns:
	//   - string: the entry point name, empty if none was found
	EntryPoint() string

	// Bindings retrieves every @group/@binding declaration in the source, sorted by
	// group and binding index.
	//
	// Returns:
	//   - []Binding: the declared bindings
	Bindings() []Binding

	// Binding looks up a declared binding by variable name.
	//
	// Parameters:
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - Binding: the binding declaration
	//   - bool: false if no binding has that name
	Binding(name string) (Binding, bool)
}

var _ Shader = &shader{}

// NewShader wraps expanded WGSL source as a Shader, parsing its entry point and
// binding declarations.
//
// Parameters:
//   - key: identifier used for labels
//   - source: expanded WGSL source (no remaining annotations are required)
//   - shaderType: the pipeline stage
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key, source string, shaderType ShaderType) Shader {
	return &shader{
		key:        key,
		source:     source,
		shaderType: shaderType,
		entryPoint: EntryPoint(source, shaderType),
		bindings:   ParseBindings(source),
	}
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Type() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Bindings() []Binding {
	return s.bindings
}

func (s *shader) Binding(name string) (Binding, bool) {
	for _, b := range s.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}
