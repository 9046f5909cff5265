// Package controls moves the camera around a target in response to mouse drags.
package controls

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/xericf/portfolio/scene"
)

// restEpsilon is the pending rotation (radians) below which the camera is at rest.
const restEpsilon = 1e-6

// OrbitControls rotates a camera on a sphere around Target. Drag input
// accumulates a pending rotation that Update applies with damping, so the
// camera keeps drifting for a while after the mouse is released.
type OrbitControls struct {
	Camera *scene.Camera
	Target mgl32.Vec3

	Enabled       bool
	DampingFactor float64 // fraction of the pending rotation applied per update; 0 applies it all at once
	RotateSpeed   float64 // radians per pixel of drag

	MinPolarAngle float64
	MaxPolarAngle float64

	deltaTheta float64
	deltaPhi   float64
	distance   float64 // 0 keeps the current distance
}

func New(camera *scene.Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        camera,
		Target:        camera.Target,
		Enabled:       true,
		DampingFactor: 0.05,
		RotateSpeed:   0.005,
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
	}
}

// Rotate queues a drag of dx, dy pixels.
func (c *OrbitControls) Rotate(dx, dy float64) {
	if !c.Enabled {
		return
	}
	c.deltaTheta -= dx * c.RotateSpeed
	c.deltaPhi -= dy * c.RotateSpeed
}

// SetDistance moves the camera to the given distance from Target on the next Update.
func (c *OrbitControls) SetDistance(d float64) {
	if d > 0 {
		c.distance = d
	}
}

// Moving reports whether a queued rotation is still being applied.
func (c *OrbitControls) Moving() bool {
	return math.Abs(c.deltaTheta) > restEpsilon || math.Abs(c.deltaPhi) > restEpsilon
}

// Update applies pending rotation and writes the camera position. Called once per frame.
func (c *OrbitControls) Update() {
	if c.Camera == nil {
		return
	}
	offset := c.Camera.Position.Sub(c.Target)
	x, y, z := float64(offset[0]), float64(offset[1]), float64(offset[2])

	radius := math.Sqrt(x*x + y*y + z*z)
	if c.distance > 0 {
		radius = c.distance
		c.distance = 0
	}
	if radius == 0 {
		return
	}

	// Y-up spherical: theta around Y from +Z, phi from +Y.
	theta := math.Atan2(x, z)
	phi := 0.0
	if n := offset.Len(); n > 0 {
		phi = math.Acos(mgl64.Clamp(y/float64(n), -1, 1))
	}

	if c.DampingFactor > 0 {
		theta += c.deltaTheta * c.DampingFactor
		phi += c.deltaPhi * c.DampingFactor
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi
		c.deltaTheta, c.deltaPhi = 0, 0
	}
	if !c.Moving() {
		c.deltaTheta, c.deltaPhi = 0, 0
	}

	phi = mgl64.Clamp(phi, c.MinPolarAngle, c.MaxPolarAngle)
	phi = mgl64.Clamp(phi, restEpsilon, math.Pi-restEpsilon)

	sinPhi := math.Sin(phi)
	pos := mgl32.Vec3{
		float32(radius * sinPhi * math.Sin(theta)),
		float32(radius * math.Cos(phi)),
		float32(radius * sinPhi * math.Cos(theta)),
	}
	c.Camera.SetPosition(c.Target.Add(pos))
	c.Camera.LookAt(c.Target)
}
