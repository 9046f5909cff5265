package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/xericf/portfolio/core"
)

// Scene manages a collection of nodes and the active camera
type Scene struct {
	Root    *Node
	Camera  *Camera
	Lights  []*Light
	Ambient core.Color

	// Background is drawn behind everything, stretched to the viewport.
	// BackgroundColor is used to clear when it is nil.
	Background      *Texture
	BackgroundColor core.Color
}

// Light is a point light.
type Light struct {
	Position  mgl32.Vec3
	Color     core.Color
	Intensity float32
	Range     float32 // 0 means no falloff
}

// NewPointLight returns a point light with infinite range.
func NewPointLight(color core.Color, intensity float32) *Light {
	return &Light{
		Color:     color,
		Intensity: intensity,
	}
}

func NewScene() *Scene {
	return &Scene{
		Root:            NewNode("Root"),
		Lights:          make([]*Light, 0),
		Ambient:         core.Color{R: 0.05, G: 0.05, B: 0.07, A: 1.0},
		BackgroundColor: core.ColorBlack,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// VisibleNodes returns all nodes with meshes that are visible
func (s *Scene) VisibleNodes() []*Node {
	var visible []*Node
	s.Root.Traverse(func(node *Node) {
		if node.Visible && node.Mesh != nil {
			visible = append(visible, node)
		}
	})
	return visible
}

// Textures returns every distinct texture referenced by the scene,
// background first.
func (s *Scene) Textures() []*Texture {
	seen := make(map[*Texture]bool)
	var out []*Texture
	add := func(t *Texture) {
		if t != nil && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	add(s.Background)
	s.Root.Traverse(func(node *Node) {
		if node.Mesh == nil || node.Mesh.Material == nil {
			return
		}
		m := node.Mesh.Material
		add(m.Map)
		add(m.NormalMap)
		add(m.BumpMap)
		add(m.SpecularMap)
	})
	return out
}
