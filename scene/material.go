package scene

import "github.com/xericf/portfolio/core"

// Shading selects the fragment program used for a material.
type Shading int

const (
	ShadingPhong Shading = iota // lit, with optional maps
	ShadingUnlit                // raw colour/texture
	ShadingGlow                 // view-dependent rim glow, for atmosphere shells
)

// Blend selects how fragments combine with the framebuffer.
type Blend int

const (
	BlendOpaque Blend = iota
	BlendAlpha
	BlendAdditive
)

// Side selects which faces are rasterised.
type Side int

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

// Material describes surface appearance properties for a mesh.
// Textures must be uploaded by the renderer before drawing.
type Material struct {
	Name    string
	Shading Shading
	Blend   Blend
	Side    Side

	Color     core.Color // multiplied with Map
	Opacity   float32
	Specular  core.Color // multiplied with SpecularMap
	Shininess float32
	Emissive  core.Color // added after lighting; bright values feed bloom

	Map         *Texture
	NormalMap   *Texture // tangent-space
	BumpMap     *Texture // height in red, perturbs the normal
	BumpScale   float32
	SpecularMap *Texture // red channel scales Specular

	// DepthWrite is false for shells that must not occlude what is drawn after them.
	DepthWrite bool

	// GlowPower shapes the ShadingGlow falloff; GlowIntensity scales it.
	GlowPower     float32
	GlowIntensity float32
}

// DefaultMaterial returns a plain white Phong material.
func DefaultMaterial() *Material {
	return &Material{
		Name:       "Default",
		Color:      core.ColorWhite,
		Opacity:    1,
		Specular:   core.Color{R: 0.07, G: 0.07, B: 0.07, A: 1},
		Shininess:  30,
		DepthWrite: true,
	}
}

// NewPhongMaterial creates a lit material with the given colour map.
func NewPhongMaterial(name string, color core.Color, m *Texture) *Material {
	mat := DefaultMaterial()
	mat.Name = name
	mat.Color = color
	mat.Map = m
	return mat
}

// NewBasicMaterial creates an unlit material.
func NewBasicMaterial(name string, color core.Color) *Material {
	mat := DefaultMaterial()
	mat.Name = name
	mat.Shading = ShadingUnlit
	mat.Color = color
	return mat
}

// NewGlowMaterial creates an additive back-face rim shell.
func NewGlowMaterial(name string, color core.Color, intensity float32) *Material {
	return &Material{
		Name:          name,
		Shading:       ShadingGlow,
		Blend:         BlendAdditive,
		Side:          SideBack,
		Color:         color,
		Opacity:       1,
		GlowPower:     2,
		GlowIntensity: intensity,
	}
}

// Transparent reports whether the material is drawn after opaque geometry.
func (m *Material) Transparent() bool {
	return m.Blend != BlendOpaque
}
