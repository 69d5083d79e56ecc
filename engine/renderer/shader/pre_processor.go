// pre_processor.go implements the Oxy WGSL shader pre-processor. It scans shader
// source for @oxy: annotations and expands them: chunk includes are resolved
// against a Library (recursively, each chunk at most once), if/endif blocks are
// kept or dropped according to integer defines, and group annotations become
// @group/@binding declarations. Every emitted declaration is recorded so callers
// can wire GPU resources without re-parsing.
package shader

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Defines maps compile-time constant names to integer values. They are consumed by
// @oxy:if guards and by array lengths in @oxy:group types.
type Defines map[string]int

// Names returns the define names in sorted order.
func (d Defines) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// arrayTypeRegex captures the element type and length token of array<T,N>.
var arrayTypeRegex = regexp.MustCompile(`^array<(\w+),(\w+)>$`)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// library resolves @oxy:include chunk names.
	library Library

	// addressSpaceRegistry maps address space argument keys to WGSL var<> syntax strings.
	addressSpaceRegistry map[AnnotationArg]string

	// declarations accumulates emitted group annotations during a Process call.
	declarations []Annotation

	// included tracks chunks already injected during a Process call.
	included map[string]bool
}

// PreProcessor expands @oxy: annotations in WGSL source.
type PreProcessor interface {
	// Process expands every annotation in source. @oxy:include annotations are
	// replaced with the (recursively expanded) chunk text. @oxy:if blocks are kept
	// only when their define is greater than zero. @oxy:group annotations become
	// @group/@binding declarations with define-valued array lengths substituted.
	//
	// The declarations list and include-once tracking are reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code containing annotations
	//   - defines: the integer defines visible to if guards and array lengths
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an *UnknownChunkError (wrapped with its line) for unknown includes,
	//     or a descriptive error for malformed annotations, unknown defines, or
	//     unbalanced if/endif blocks
	Process(source string, defines Defines) (string, error)

	// Declarations returns the group annotations emitted during the most recent
	// call to Process, in output order. The type argument carries the resolved
	// WGSL type with define values substituted.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor that resolves includes against library.
//
// Parameters:
//   - library: the chunk library used for @oxy:include
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(library Library) PreProcessor {
	return &preProcessor{
		library: library,
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform:   "var<uniform>",
			annotationArgStorageTypeRead:      "var<storage, read>",
			annotationArgStorageTypeReadWrite: "var<storage, read_write>",
		},
	}
}

func (p *preProcessor) Process(source string, defines Defines) (string, error) {
	p.declarations = nil
	p.included = make(map[string]bool)

	var out []string
	if err := p.expand(source, defines, &out); err != nil {
		return "", err
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// expand appends the expansion of source to out. Included chunks are expanded
// recursively with the same defines; errors inside a chunk are prefixed with its name.
func (p *preProcessor) expand(source string, defines Defines, out *[]string) error {
	lines := strings.Split(source, "\n")
	var guards []bool

	active := func() bool {
		for _, g := range guards {
			if !g {
				return false
			}
		}
		return true
	}

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return err
		}
		if a == nil {
			if active() {
				*out = append(*out, line)
			}
			continue
		}

		switch a.Type {
		case annotationTypeIf:
			v, ok := defines[string(a.Args[0])]
			if !ok {
				return fmt.Errorf("line %d: unknown define %q in @oxy if annotation", i+1, a.Args[0])
			}
			guards = append(guards, v > 0)
			continue
		case annotationTypeEndif:
			if len(guards) == 0 {
				return fmt.Errorf("line %d: @oxy endif without matching if", i+1)
			}
			guards = guards[:len(guards)-1]
			continue
		}

		if !active() {
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			name := string(a.Args[0])
			if p.included[name] {
				continue
			}
			src, err := p.library.Lookup(name)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			p.included[name] = true
			if err := p.expand(src, defines, out); err != nil {
				var unknown *UnknownChunkError
				if errors.As(err, &unknown) {
					return err
				}
				return fmt.Errorf("chunk %q: %w", name, err)
			}
		case AnnotationTypeBindingGroup:
			wgslType, keep, err := resolveGroupType(string(a.Args[2]), defines)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			if !keep {
				continue
			}
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			*out = append(*out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, a.Args[1], wgslType))

			decl := *a
			decl.Args = []AnnotationArg{a.Args[0], a.Args[1], AnnotationArg(wgslType)}
			p.declarations = append(p.declarations, decl)
		}
	}

	if len(guards) != 0 {
		return fmt.Errorf("unterminated @oxy if block (%d open)", len(guards))
	}
	return nil
}

// resolveGroupType substitutes a define-valued array length. It reports keep=false
// when the length resolves to zero so the declaration is dropped.
func resolveGroupType(typeArg string, defines Defines) (string, bool, error) {
	match := arrayTypeRegex.FindStringSubmatch(typeArg)
	if match == nil {
		return typeArg, true, nil
	}

	elem, lengthTok := match[1], match[2]
	n, err := strconv.Atoi(lengthTok)
	if err != nil {
		v, ok := defines[lengthTok]
		if !ok {
			return "", false, fmt.Errorf("unknown define %q in array length", lengthTok)
		}
		n = v
	}
	if n <= 0 {
		return "", false, nil
	}
	return fmt.Sprintf("array<%s, %d>", elem, n), true, nil
}
