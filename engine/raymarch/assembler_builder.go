package raymarch

import "log/slog"

// AssemblerBuilderOption is a function that configures an Assembler during construction.
type AssemblerBuilderOption func(*assemblerImpl)

// WithAssemblerLogger sets the logger used for assembly diagnostics.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - AssemblerBuilderOption: a function that applies the logger option
func WithAssemblerLogger(logger *slog.Logger) AssemblerBuilderOption {
	return func(a *assemblerImpl) {
		a.logger = logger
	}
}
