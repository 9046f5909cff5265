package core

import "github.com/go-gl/glfw/v3.3/glfw"

// FrameLoop schedules frame callbacks against the window's refresh. The
// armed callback runs once per loop iteration after input is pumped; the
// vsync'd SwapBuffers inside the frame paces the loop.
type FrameLoop struct {
	window  *Window
	pending func(float64)
}

func NewFrameLoop(window *Window) *FrameLoop {
	return &FrameLoop{window: window}
}

// Now returns milliseconds since GLFW was initialised.
func (l *FrameLoop) Now() float64 {
	return glfw.GetTime() * 1000
}

func (l *FrameLoop) RequestFrame(fn func(timestampMillis float64)) {
	l.pending = fn
}

// Run blocks until the window is closed.
func (l *FrameLoop) Run() {
	for !l.window.ShouldClose() {
		l.window.PollEvents()
		fn := l.pending
		if fn == nil {
			glfw.WaitEventsTimeout(0.1)
			continue
		}
		l.pending = nil
		fn(l.Now())
	}
}
