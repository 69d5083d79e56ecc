package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	// GLFW calls must come from the main thread.
	runtime.LockOSThread()
}

// glfwWindow is the GLFW side of an engineWindow.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool
}

func newPlatformWindow(w *engineWindow) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	// The surface comes from WebGPU, so no GL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("glfw create window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, glfw.DontCare, glfw.DontCare)

	gw := &glfwWindow{parent: w, window: win, running: true}
	gw.installCallbacks()
	w.internalWindow = gw

	fbWidth, fbHeight := win.GetFramebufferSize()
	winWidth, _ := win.GetSize()
	w.width, w.height = fbWidth, fbHeight
	w.pixelRatio = pixelRatio(fbWidth, winWidth)
	return nil
}

func (gw *glfwWindow) installCallbacks() {
	gw.window.SetKeyCallback(gw.onKey)
	gw.window.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if cb := gw.parent.onScroll; cb != nil {
			cb(float32(yoff))
		}
	})
	gw.window.SetMouseButtonCallback(gw.onMouseButton)
	gw.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if dx, dy, ok := gw.parent.drag.move(x, y); ok && gw.parent.onDrag != nil {
			gw.parent.onDrag(dx, dy)
		}
	})
	// Sizes reported here are framebuffer pixels; the window size gives the ratio.
	gw.window.SetFramebufferSizeCallback(func(win *glfw.Window, width, height int) {
		winWidth, winHeight := win.GetSize()
		gw.parent.framebufferResized(width, height, winWidth, winHeight)
	})
}

// onKey closes on Escape and forwards everything else. Repeats count as key downs.
func (gw *glfwWindow) onKey(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		gw.running = false
		win.SetShouldClose(true)
		return
	}

	w := gw.parent
	if action == glfw.Release {
		if w.onKeyUp != nil {
			w.onKeyUp(uint32(key))
		}
		return
	}
	if w.onKeyDown != nil {
		w.onKeyDown(uint32(key))
	}
}

// onMouseButton tracks left-button drags.
func (gw *glfwWindow) onMouseButton(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	if action == glfw.Press {
		gw.parent.drag.press(win.GetCursorPos())
	} else {
		gw.parent.drag.release()
	}
}

func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw, ok := w.internalWindow.(*glfwWindow)
	return ok && gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the window and terminates GLFW.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return errors.New("window is not initialized")
	}
	gw.running = false
	gw.window.Destroy()
	glfw.Terminate()
	w.internalWindow = nil
	return nil
}

// platformProcessMessages polls pending events and reports whether the window is still open.
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	return platformIsRunningCheck(w)
}
