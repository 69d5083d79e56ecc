package raymarch

// Target is an output a Device can render into. Each device defines its own
// concrete target types; a nil Target means the display surface.
type Target interface {
	// Size returns the target's pixel dimensions.
	Size() (width, height int)
}

// Device executes assembled programs. It is the boundary between the pass and
// whatever actually runs the shading, a GPU pipeline or the CPU tracer.
type Device interface {
	// Prepare builds device resources for a program. It is called whenever a
	// pass switches to a program, before the first Execute with it.
	//
	// Parameters:
	//   - program: the newly assembled program
	//
	// Returns:
	//   - error: any compilation or resource creation error
	Prepare(program *Program) error

	// Execute renders one frame of program with the given uniforms.
	//
	// Parameters:
	//   - program: a program previously passed to Prepare
	//   - uniforms: the uniform state for this frame
	//   - target: the output, nil for the display surface
	//   - clear: whether the target is cleared before drawing
	//
	// Returns:
	//   - error: any device error
	Execute(program *Program, uniforms *Uniforms, target Target, clear bool) error
}

// Discarder is implemented by devices that hold per-program resources. Every
// Prepare made by a pass is balanced by one Discard once the pass moves off the
// program or is released, so a device can reference-count shared programs.
type Discarder interface {
	// Discard drops one reference to the resources built for program.
	//
	// Parameters:
	//   - program: a program previously passed to Prepare
	Discard(program *Program)
}

// Resizer is implemented by devices that own a display surface.
type Resizer interface {
	// Resize reconfigures the display surface.
	//
	// Parameters:
	//   - width, height: the new size in physical pixels
	Resize(width, height int)
}
