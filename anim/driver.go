// Package anim drives the per-frame update loop: it turns the host's
// "draw a new frame" notification into one ordered pass over the registered
// update callbacks, followed by a camera-controls update and a render.
package anim

import (
	"log"
	"math"
)

// UpdateCallback advances one piece of scene state by deltaSeconds.
type UpdateCallback func(deltaSeconds float64)

// Scheduler is the host's display-refresh source. RequestFrame arms fn to run
// once before the next repaint; timestamps share the time base of Now.
type Scheduler interface {
	Now() float64
	RequestFrame(fn func(timestampMillis float64))
}

// Controls is the camera-controls collaborator updated once per frame.
type Controls interface {
	Update()
}

// Renderer renders and presents the current scene from the current camera.
type Renderer interface {
	Frame() error
}

// FrameClock remembers the timestamp of the previous frame.
type FrameClock struct {
	LastTimestampMillis float64
}

// Driver owns the frame clock and the ordered update callbacks.
// It is not safe for concurrent use; everything runs on the scheduler's thread.
type Driver struct {
	Clock  FrameClock
	Logger *log.Logger

	scheduler Scheduler
	controls  Controls
	renderer  Renderer
	callbacks []UpdateCallback
	started   bool
}

// NewDriver creates a driver. controls and renderer may be nil.
func NewDriver(scheduler Scheduler, controls Controls, renderer Renderer) *Driver {
	return &Driver{
		Logger:    log.Default(),
		scheduler: scheduler,
		controls:  controls,
		renderer:  renderer,
	}
}

// Register appends cb. Callbacks run in registration order and are never removed.
func (d *Driver) Register(cb UpdateCallback) {
	d.callbacks = append(d.callbacks, cb)
}

// Len returns the number of registered callbacks.
func (d *Driver) Len() int { return len(d.callbacks) }

// Start records the current time and arms the first frame. The schedule
// re-arms itself after every frame and has no stop operation. Calling Start
// again is a no-op.
func (d *Driver) Start() {
	if d.started {
		return
	}
	d.started = true
	d.Clock.LastTimestampMillis = d.scheduler.Now()
	d.scheduler.RequestFrame(d.OnFrame)
}

// OnFrame is the scheduler callback. It never panics out and always re-arms
// the next frame.
func (d *Driver) OnFrame(timestampMillis float64) {
	defer d.scheduler.RequestFrame(d.OnFrame)
	defer func() {
		if r := recover(); r != nil {
			d.Logger.Printf("[Frame] recovered: %v", r)
		}
	}()

	delta := timestampMillis - d.Clock.LastTimestampMillis
	d.Clock.LastTimestampMillis = timestampMillis
	d.Update(delta)
}

// Update runs one frame for a delta in milliseconds. An invalid delta (NaN,
// infinite or negative) skips the frame without touching any state.
func (d *Driver) Update(deltaMillis float64) {
	if !ValidDelta(deltaMillis) {
		return
	}
	deltaSeconds := deltaMillis / 1000

	for i, cb := range d.callbacks {
		d.guard("callback", i, func() { cb(deltaSeconds) })
	}
	if d.controls != nil {
		d.guard("controls", -1, d.controls.Update)
	}
	if d.renderer != nil {
		d.guard("render", -1, func() {
			if err := d.renderer.Frame(); err != nil {
				d.Logger.Printf("[Frame] render: %v", err)
			}
		})
	}
}

// ValidDelta reports whether a frame delta in milliseconds can be applied.
func ValidDelta(deltaMillis float64) bool {
	return !math.IsNaN(deltaMillis) && !math.IsInf(deltaMillis, 0) && deltaMillis >= 0
}

// guard runs fn and logs a panic instead of letting it stall the loop.
func (d *Driver) guard(step string, index int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if index >= 0 {
				d.Logger.Printf("[Frame] %s %d panicked: %v", step, index, r)
				return
			}
			d.Logger.Printf("[Frame] %s panicked: %v", step, r)
		}
	}()
	fn()
}
