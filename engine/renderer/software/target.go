package software

import (
	"image"
	"image/png"
	"io"

	"github.com/Carmen-Shannon/oxy-raymarch/engine/raymarch"
)

// ImageTarget is an offscreen render target backed by a non-premultiplied RGBA
// image. Row 0 is the top of the viewport.
type ImageTarget struct {
	Image *image.NRGBA
}

var _ raymarch.Target = &ImageTarget{}

// NewImageTarget allocates a transparent target of the given size.
//
// Parameters:
//   - width, height: the size in pixels
//
// Returns:
//   - *ImageTarget: the target
func NewImageTarget(width, height int) *ImageTarget {
	return &ImageTarget{Image: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Size returns the image dimensions.
func (t *ImageTarget) Size() (width, height int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// WritePNG encodes the target as PNG.
func (t *ImageTarget) WritePNG(w io.Writer) error {
	return png.Encode(w, t.Image)
}
