package renderer

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/samber/lo"

	"github.com/xericf/portfolio/scene"
)

// drawOrder splits nodes into opaque and blended passes. Blended nodes are
// sorted far to near; ties keep scene order.
func drawOrder(nodes []*scene.Node, camPos mgl32.Vec3) (opaque, blended []*scene.Node) {
	isBlended := func(n *scene.Node, _ int) bool {
		return n.Mesh.Material != nil && n.Mesh.Material.Transparent()
	}
	opaque = lo.Reject(nodes, isBlended)
	blended = lo.Filter(nodes, isBlended)

	dist := lo.Associate(blended, func(n *scene.Node) (*scene.Node, float32) {
		return n, n.WorldPosition().Sub(camPos).LenSqr()
	})
	sort.SliceStable(blended, func(i, j int) bool {
		return dist[blended[i]] > dist[blended[j]]
	})
	return opaque, blended
}
