package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDragTracker(t *testing.T) {
	var d dragTracker

	_, _, ok := d.move(10, 10)
	assert.False(t, ok, "no delta before press")

	d.press(10, 20)
	dx, dy, ok := d.move(15, 18)
	assert.True(t, ok)
	assert.Equal(t, float32(5), dx)
	assert.Equal(t, float32(-2), dy)

	dx, dy, ok = d.move(15, 18)
	assert.True(t, ok)
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	d.release()
	_, _, ok = d.move(30, 30)
	assert.False(t, ok)
}

func TestPixelRatio(t *testing.T) {
	assert.Equal(t, float32(2), pixelRatio(2560, 1280))
	assert.Equal(t, float32(1), pixelRatio(800, 800))
	assert.Equal(t, float32(1), pixelRatio(800, 0))
}

func TestFramebufferResized(t *testing.T) {
	w := &engineWindow{}
	var gotW, gotH int
	var gotRatio float32
	w.SetResizeCallback(func(width, height int, ratio float32) {
		gotW, gotH, gotRatio = width, height, ratio
	})

	w.framebufferResized(1600, 1200, 800, 600)
	assert.Equal(t, 800, gotW)
	assert.Equal(t, 600, gotH)
	assert.Equal(t, float32(2), gotRatio)
	assert.Equal(t, 1600, w.Width())
	assert.Equal(t, 1200, w.Height())
	assert.Equal(t, float32(2), w.PixelRatio())
}
