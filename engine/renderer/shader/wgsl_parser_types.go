package shader

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
// Used to compute buffer sizes for uniform bindings.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// Binding describes one @group/@binding resource declaration found in WGSL source.
type Binding struct {
	// Group is the bind group index.
	Group int

	// Binding is the binding index within the group.
	Binding int

	// AddressSpace is the var<> qualifier, e.g. "uniform" or "storage, read".
	AddressSpace string

	// Name is the WGSL variable name.
	Name string

	// Type is the WGSL type of the variable.
	Type string

	// Size is the byte size of the bound type, or 0 if it could not be resolved.
	Size uint64
}
