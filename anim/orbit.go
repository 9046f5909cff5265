package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitParams describes the path of a body around Center. RadiusX and RadiusZ
// span the horizontal plane, RadiusY the vertical bob.
type OrbitParams struct {
	RadiusX   float64
	RadiusZ   float64
	RadiusY   float64
	TimeScale float64
	Center    mgl64.Vec3
}

// CircularOrbit returns params with the same radius on X and Z.
func CircularOrbit(radius, verticalRadius, timeScale float64, center mgl64.Vec3) OrbitParams {
	return OrbitParams{
		RadiusX:   radius,
		RadiusZ:   radius,
		RadiusY:   verticalRadius,
		TimeScale: timeScale,
		Center:    center,
	}
}

// At evaluates the orbit at phase.
//
// The -π/2 on X is added after the sine, not inside it, so the path is not a
// clean ellipse. Scenes authored against this path depend on it; keep it.
func (p OrbitParams) At(phase float64) mgl64.Vec3 {
	a := phase * p.TimeScale
	return mgl64.Vec3{
		p.Center[0] + (p.RadiusX*math.Sin(a) - math.Pi/2),
		p.Center[1] + p.RadiusY*math.Sin(a-math.Pi/2),
		p.Center[2] + p.RadiusZ*math.Sin(a+math.Pi/2),
	}
}

// Period returns the phase length of one revolution.
func (p OrbitParams) Period() float64 {
	if p.TimeScale == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / math.Abs(p.TimeScale)
}

// OrbitState is the mutable per-body record: accumulated phase plus params.
// Phase only grows; it is never reset or wrapped.
type OrbitState struct {
	Phase  float64
	Params OrbitParams
}

// NewOrbitState returns a state at phase zero.
func NewOrbitState(p OrbitParams) *OrbitState {
	return &OrbitState{Params: p}
}

// Advance accumulates deltaSeconds into the phase.
func (o *OrbitState) Advance(deltaSeconds float64) {
	o.Phase += deltaSeconds
}

// Position evaluates the orbit at the current phase.
func (o *OrbitState) Position() mgl64.Vec3 {
	return o.Params.At(o.Phase)
}

// Step advances the phase and returns the new position.
func (o *OrbitState) Step(deltaSeconds float64) mgl64.Vec3 {
	o.Advance(deltaSeconds)
	return o.Position()
}
