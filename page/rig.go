package page

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraRig places the camera as a function of the scroll offset: it pulls
// in from BaseRadius towards MinRadius as the page scrolls down.
type CameraRig struct {
	Target     mgl32.Vec3
	Direction  mgl32.Vec3 // from Target towards the camera
	BaseRadius float64
	MinRadius  float64
	Damping    float64 // per unit of scroll
}

// NewCameraRig builds a rig whose unscrolled position is start.
func NewCameraRig(target, start mgl32.Vec3, minRadius, damping float64) CameraRig {
	offset := start.Sub(target)
	dir := mgl32.Vec3{0, 0, 1}
	if offset.Len() > 0 {
		dir = offset.Normalize()
	}
	return CameraRig{
		Target:     target,
		Direction:  dir,
		BaseRadius: float64(offset.Len()),
		MinRadius:  minRadius,
		Damping:    damping,
	}
}

// Radius is the camera distance at scrollY.
func (r CameraRig) Radius(scrollY float64) float64 {
	lo := min(r.MinRadius, r.BaseRadius)
	return lo + (r.BaseRadius-lo)*math.Exp(-r.Damping*max(scrollY, 0))
}

// Position is the camera position at scrollY.
func (r CameraRig) Position(scrollY float64) mgl32.Vec3 {
	return r.Target.Add(r.Direction.Mul(float32(r.Radius(scrollY))))
}
