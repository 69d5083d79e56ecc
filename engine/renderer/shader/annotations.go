// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @oxy: that drive chunk inclusion, bind group declaration, and compile-time
// guards keyed on integer defines. Because they are comments, chunk text remains
// valid WGSL before expansion.
package shader

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the source of a named library chunk at the
	// annotation site. A chunk is injected at most once per Process call; later
	// includes of the same chunk expand to nothing.
	//
	// Syntax: //@oxy:include <chunk>
	//
	// Example: //@oxy:include rm_noise
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and appends an Annotation to the PreProcessor's declarations list.
	//
	// The type may be a fixed-size array whose length names a define, in which case
	// the define's value is substituted. A define value of zero drops the declaration
	// entirely, so no zero-length array is ever emitted.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 0 4 uniform aLights array<ALight,N_ALIGHTS>
	AnnotationTypeBindingGroup AnnotationType = "group"

	// annotationTypeIf opens a block that is kept only when the named define is
	// greater than zero. Blocks may nest and must be closed with endif.
	//
	// Syntax: //@oxy:if <DEFINE>
	annotationTypeIf AnnotationType = "if"

	// annotationTypeEndif closes the innermost if block.
	//
	// Syntax: //@oxy:endif
	annotationTypeEndif AnnotationType = "endif"
)

// AnnotationArg is a single argument token of an annotation.
type AnnotationArg string

const (
	// annotationArgStorageTypeUniform maps to var<uniform>.
	annotationArgStorageTypeUniform AnnotationArg = "uniform"

	// annotationArgStorageTypeRead maps to var<storage, read>.
	annotationArgStorageTypeRead AnnotationArg = "read"

	// annotationArgStorageTypeReadWrite maps to var<storage, read_write>.
	annotationArgStorageTypeReadWrite AnnotationArg = "read_write"
)

// validAddressSpaces lists all AnnotationArg values that are accepted as address
// space arguments in @oxy:group annotations.
var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

var (
	// identRegex matches a WGSL identifier.
	identRegex = regexp.MustCompile(`^[A-Za-z_]\w*$`)

	// typeArgRegex matches a bare type name or a parameterized type written without spaces,
	// e.g. "FrameUniforms", "vec4<f32>", "array<ALight,N_ALIGHTS>".
	typeArgRegex = regexp.MustCompile(`^[A-Za-z_][\w<>,]*$`)
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include: [chunk]
	//   - group:   [address_space, var_name, type]
	//   - if:      [define]
	//   - endif:   empty
	Args []AnnotationArg

	// Line is the 1-based line number of the annotation in the text it was read from.
	Line int

	// Group is the bind group index for group annotations, nil otherwise.
	Group *int

	// Binding is the binding index for group annotations, nil otherwise.
	Binding *int
}

// parseAnnotation attempts to parse a single line of WGSL source as an @oxy: annotation.
// Returns nil with no error for lines that are not annotation comments. Returns
// a populated Annotation for valid annotations, or an error describing the problem for
// malformed annotations with correct prefix but invalid syntax.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	comment, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !identRegex.MatchString(args[1]) {
			return nil, fmt.Errorf("line %d: invalid chunk name %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires exactly five arguments (group, binding, address space, name, type)", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q in @oxy group annotation: %w", lineNum, args[1], err)
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @oxy group annotation: %w", lineNum, args[2], err)
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		if !identRegex.MatchString(args[4]) {
			return nil, fmt.Errorf("line %d: invalid variable name %q in @oxy group annotation", lineNum, args[4])
		}
		if !typeArgRegex.MatchString(args[5]) {
			return nil, fmt.Errorf("line %d: invalid type %q in @oxy group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	case annotationTypeIf:
		if len(args) != 2 || !identRegex.MatchString(args[1]) {
			return nil, fmt.Errorf("line %d: @oxy if annotation requires exactly one define name", lineNum)
		}
		return &Annotation{
			Type: annotationTypeIf,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case annotationTypeEndif:
		if len(args) != 1 {
			return nil, fmt.Errorf("line %d: @oxy endif annotation takes no arguments", lineNum)
		}
		return &Annotation{Type: annotationTypeEndif, Line: lineNum}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
