package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/orbitview"
)

// Window adapts a glfw window to an EventSource. glfw must be initialized
// and every method called from the main thread.
type Window struct {
	win   *glfw.Window
	queue EventQueue
}

var _ EventSource = (*Window)(nil)

func NewWindow(cfg orbitview.WindowConfig) (*Window, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.SetSizeLimits(cfg.Width, cfg.Height, 2*cfg.Width, 2*cfg.Height)

	w := &Window{win: win}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.queue.Push(ResizeEvent{Width: clampExtent(width), Height: clampExtent(height)})
	})
	win.SetKeyCallback(func(gw *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press:
			w.queue.Push(KeyEvent{Key: key, Pressed: true})
		case glfw.Release:
			w.queue.Push(KeyEvent{Key: key, Pressed: false})
		}
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.queue.Push(FocusEvent{Focused: focused})
	})
	return w, nil
}

func clampExtent(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// Poll pumps the OS event loop and returns what the callbacks queued.
func (w *Window) Poll() []Event {
	glfw.PollEvents()
	return w.queue.Drain()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) FramebufferSize() (width, height uint32) {
	fw, fh := w.win.GetFramebufferSize()
	return clampExtent(fw), clampExtent(fh)
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

func (w *Window) Destroy() {
	w.win.Destroy()
}
