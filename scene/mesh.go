package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/xericf/portfolio/core"
)

// AABB is an axis-aligned bounding box in mesh-local space.
type AABB struct {
	Min, Max mgl32.Vec3
}

func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name       string
	Vertices   []core.Vertex
	Indices    []uint32
	IndexCount uint32

	LocalAABB AABB

	// Material holds surface shading properties. If nil, DefaultMaterial() is used.
	Material *Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space AABB.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:       name,
		Vertices:   vertices,
		Indices:    indices,
		IndexCount: uint32(len(indices)),
	}
	if len(vertices) > 0 {
		m.LocalAABB = computeLocalAABB(vertices)
	}
	return m
}

func computeLocalAABB(vertices []core.Vertex) AABB {
	lo := vertices[0].Position
	hi := vertices[0].Position
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], v.Position[i])
			hi[i] = max(hi[i], v.Position[i])
		}
	}
	return AABB{Min: lo, Max: hi}
}

// BoundingRadius is the largest distance from the AABB centre to a vertex.
func (m *Mesh) BoundingRadius() float32 {
	c := m.LocalAABB.Center()
	var r float32
	for _, v := range m.Vertices {
		r = max(r, v.Position.Sub(c).Len())
	}
	return r
}

// Normalize recentres the mesh on the origin and scales it to the given
// bounding radius.
func (m *Mesh) Normalize(radius float32) {
	r := m.BoundingRadius()
	if r == 0 {
		return
	}
	c := m.LocalAABB.Center()
	k := radius / r
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(c).Mul(k)
	}
	m.LocalAABB = computeLocalAABB(m.Vertices)
}
