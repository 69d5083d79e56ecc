package raymarch

import (
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/renderer/shader"
)

// Program is an assembled ray-march shading program. It is immutable: a change
// of light counts produces a new Program instead of mutating this one.
type Program struct {
	// ID is unique per assembled program within the process.
	ID uint64

	// Vertex is the full-screen triangle stage.
	Vertex shader.Shader

	// Fragment is the ray-march stage.
	Fragment shader.Shader

	// Defines holds the light-count constants the fragment was compiled with.
	Defines shader.Defines

	// Counts is the light-count triple the program was assembled for.
	Counts light.Counts
}

// Bindings returns the uniform declaration set of the fragment stage, parsed
// from its final text.
func (p *Program) Bindings() []shader.Binding {
	return p.Fragment.Bindings()
}
