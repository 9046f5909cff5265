package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/samber/lo"
)

// Plane is the half-space Normal·p + D >= 0; Normal points inside.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from pt, positive inside.
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumFromVP extracts normalized clip planes from a view-projection
// matrix (Gribb/Hartmann, on the matrix rows).
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)
	return Frustum{Planes: [6]Plane{
		newPlane(r3.Add(r0)),
		newPlane(r3.Sub(r0)),
		newPlane(r3.Add(r1)),
		newPlane(r3.Sub(r1)),
		newPlane(r3.Add(r2)),
		newPlane(r3.Sub(r2)),
	}}
}

func newPlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v[3] / l}
}

// IntersectsFrustum returns false if the box is completely outside f. For
// each plane only the corner furthest along the normal is tested.
func (b AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		corner := b.Max
		for i := 0; i < 3; i++ {
			if p.Normal[i] < 0 {
				corner[i] = b.Min[i]
			}
		}
		if p.DistanceTo(corner) < 0 {
			return false
		}
	}
	return true
}

// Transform returns the box enclosing b's eight corners after m.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	var out AABB
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		w := m.Mul4x1(c.Vec4(1)).Vec3()
		if i == 0 {
			out = AABB{Min: w, Max: w}
			continue
		}
		for k := 0; k < 3; k++ {
			out.Min[k] = min(out.Min[k], w[k])
			out.Max[k] = max(out.Max[k], w[k])
		}
	}
	return out
}

// WorldAABB is the node's mesh bounds in world space.
func (n *Node) WorldAABB() AABB {
	if n.Mesh == nil {
		p := n.WorldPosition()
		return AABB{Min: p, Max: p}
	}
	return n.Mesh.LocalAABB.Transform(n.WorldMatrix())
}

// Cull returns the nodes whose bounds touch the frustum, in order.
func (f *Frustum) Cull(nodes []*Node) []*Node {
	return lo.Filter(nodes, func(n *Node, _ int) bool {
		return n.WorldAABB().IntersectsFrustum(f)
	})
}
