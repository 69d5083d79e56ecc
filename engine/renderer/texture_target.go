package renderer

import (
	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureTarget is an off-screen color texture a pass renders into instead of the
// surface. It is created by Renderer.NewTextureTarget in the renderer's surface format.
type TextureTarget struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   int
	height  int
}

var _ raymarch.Target = &TextureTarget{}

// Size returns the texture dimensions in pixels.
func (t *TextureTarget) Size() (int, int) {
	return t.width, t.height
}

// Texture returns the underlying texture, for sampling in a later pass.
func (t *TextureTarget) Texture() *wgpu.Texture {
	return t.texture
}

// View returns the default view used as the color attachment.
func (t *TextureTarget) View() *wgpu.TextureView {
	return t.view
}

// Release frees the view and texture.
func (t *TextureTarget) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
