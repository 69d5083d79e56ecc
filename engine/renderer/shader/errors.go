package shader

import "fmt"

// UnknownChunkError is returned when a chunk name has no library entry. It is
// fatal to assembly; no partial output is produced.
type UnknownChunkError struct {
	// Name is the chunk name that could not be resolved.
	Name string
}

func (e *UnknownChunkError) Error() string {
	return fmt.Sprintf("unknown chunk %q", e.Name)
}
