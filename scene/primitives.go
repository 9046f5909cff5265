package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/xericf/portfolio/core"
)

// CreateSphere generates a UV sphere. The seam sits on -X and u grows
// eastwards, so equirectangular maps wrap the usual way; v runs from the
// north pole (0) to the south pole (1), matching top-down image rows.
func CreateSphere(radius float32, widthSegments, heightSegments int) *Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)

	vertices := make([]core.Vertex, 0, (widthSegments+1)*(heightSegments+1))
	grid := make([][]uint32, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		sinV, cosV := math.Sincos(v * math.Pi)

		// Shift the pole vertices half a segment so the cap triangles sample
		// the middle of their texel column.
		uOffset := 0.0
		if iy == 0 {
			uOffset = 0.5 / float64(widthSegments)
		} else if iy == heightSegments {
			uOffset = -0.5 / float64(widthSegments)
		}

		grid[iy] = make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			sinU, cosU := math.Sincos(u * 2 * math.Pi)

			normal := mgl32.Vec3{
				float32(-cosU * sinV),
				float32(cosV),
				float32(sinU * sinV),
			}
			grid[iy][ix] = uint32(len(vertices))
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       mgl32.Vec2{float32(u + uOffset), float32(v)},
				Color:    core.ColorWhite,
			})
		}
	}

	var indices []uint32
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	m := CreateMeshFromData("Sphere", vertices, indices)
	ComputeTangents(m)
	return m
}
