package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
)

// Check parses WGSL source and lowers it to naga IR. Unresolved identifiers,
// type errors, and syntax errors are reported here, before a device ever sees
// the text.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - error: the first parse or lowering error, nil if the source is well formed
func Check(source string) error {
	ast, err := naga.Parse(source)
	if err != nil {
		return err
	}
	if _, err := naga.LowerWithSource(ast, source); err != nil {
		return fmt.Errorf("lower: %w", err)
	}
	return nil
}

// Validate runs Check followed by naga's IR validator and joins every reported
// validation error.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - error: nil if the module parses, lowers, and validates
func Validate(source string) error {
	ast, err := naga.Parse(source)
	if err != nil {
		return err
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return fmt.Errorf("lower: %w", err)
	}
	issues, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	errs := make([]error, 0, len(issues))
	for _, issue := range issues {
		errs = append(errs, issue)
	}
	return errors.Join(errs...)
}

// TranslateGLSL converts a WGSL shader stage to GLSL 330 with naga's GLSL backend.
//
// Parameters:
//   - s: the shader to translate
//
// Returns:
//   - string: the GLSL source
//   - error: any parse, lowering, or translation error
func TranslateGLSL(s Shader) (string, error) {
	ast, err := naga.Parse(s.Source())
	if err != nil {
		return "", err
	}
	module, err := naga.LowerWithSource(ast, s.Source())
	if err != nil {
		return "", fmt.Errorf("lower: %w", err)
	}

	opts := glsl.DefaultOptions()
	opts.EntryPoint = s.EntryPoint()
	code, _, err := glsl.Compile(module, opts)
	if err != nil {
		return "", err
	}
	return code, nil
}
