package raymarch

import "log/slog"

// PassBuilderOption is a function that configures a Pass during construction.
type PassBuilderOption func(*passImpl)

// WithAssembler shares an assembler, and with it its program cache, between passes.
//
// Parameters:
//   - assembler: the assembler to use
//
// Returns:
//   - PassBuilderOption: a function that applies the assembler option
func WithAssembler(assembler Assembler) PassBuilderOption {
	return func(p *passImpl) {
		p.assembler = assembler
	}
}

// WithPassLogger sets the logger for rebuild diagnostics.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - PassBuilderOption: a function that applies the logger option
func WithPassLogger(logger *slog.Logger) PassBuilderOption {
	return func(p *passImpl) {
		p.logger = logger
	}
}

// WithRenderToScreen routes the pass to the display surface from the start.
func WithRenderToScreen(renderToScreen bool) PassBuilderOption {
	return func(p *passImpl) {
		p.renderToScreen = renderToScreen
	}
}

// WithClear sets whether the target is cleared before drawing. Defaults to true.
func WithClear(clear bool) PassBuilderOption {
	return func(p *passImpl) {
		p.clear = clear
	}
}
