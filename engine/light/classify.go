package light

// Counts holds the number of lights in each bucket. The counts are compiled
// into the shading program, so a change in any of them requires reassembly.
type Counts struct {
	Ambient     int
	Directional int
	Point       int
}

// Classified holds lights partitioned by kind. Each bucket preserves the
// relative order the lights had in the input sequence.
type Classified struct {
	Ambient     []Light
	Directional []Light
	Point       []Light
}

// Classify partitions lights into ambient, directional and point buckets in a
// single pass over the input. The result is always built from scratch, so it
// is safe to call every frame even if the caller changes the list between
// calls. Nil entries and unknown light types are skipped.
//
// Parameters:
//   - lights: the ordered light sequence to partition
//
// Returns:
//   - Classified: the three buckets, each in input order
func Classify(lights []Light) Classified {
	var c Classified
	for _, l := range lights {
		if l == nil {
			continue
		}
		switch l.Type() {
		case LightTypeAmbient:
			c.Ambient = append(c.Ambient, l)
		case LightTypeDirectional:
			c.Directional = append(c.Directional, l)
		case LightTypePoint:
			c.Point = append(c.Point, l)
		}
	}
	return c
}

// Counts returns the size of each bucket.
func (c Classified) Counts() Counts {
	return Counts{
		Ambient:     len(c.Ambient),
		Directional: len(c.Directional),
		Point:       len(c.Point),
	}
}

// Total returns the number of classified lights across all buckets.
func (c Counts) Total() int {
	return c.Ambient + c.Directional + c.Point
}
