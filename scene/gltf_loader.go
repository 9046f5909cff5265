package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/xericf/portfolio/core"
)

// LoadGLTFMesh opens a .glb or .gltf file and merges every triangle
// primitive of its meshes into one Mesh. Node transforms are ignored; the
// result is recentred and scaled to the given bounding radius so it can stand
// in for a generated sphere of that radius.
//
// If the file carries a base-colour texture it is returned as well; otherwise
// the returned texture is nil.
func LoadGLTFMesh(path string, radius float32) (*Mesh, *Texture, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var verts []core.Vertex
	var indices []uint32
	var baseColor *Texture

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			pv, pidx, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, nil, fmt.Errorf("gltf %q mesh %d prim %d: %w", path, mi, pi, err)
			}
			base := uint32(len(verts))
			verts = append(verts, pv...)
			for _, i := range pidx {
				indices = append(indices, base+i)
			}
			if baseColor == nil && prim.Material != nil {
				baseColor = readBaseColor(doc, *prim.Material)
			}
		}
	}
	if len(verts) == 0 {
		return nil, nil, fmt.Errorf("gltf %q: no triangle geometry", path)
	}

	m := CreateMeshFromData(path, verts, indices)
	m.Normalize(radius)
	ComputeTangents(m)
	return m, baseColor, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]core.Vertex, []uint32, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{
			Position: mgl32.Vec3(p),
			Normal:   mgl32.Vec3{0, 1, 0},
			Color:    core.ColorWhite,
		}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			v.UV = mgl32.Vec2(uvs[i])
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return verts, indices, nil
}

// readBaseColor decodes the material's embedded base-colour image, if any.
// External image URIs are left to the caller's texture set.
func readBaseColor(doc *gltf.Document, matIdx int) *Texture {
	if matIdx >= len(doc.Materials) {
		return nil
	}
	pbr := doc.Materials[matIdx].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return nil
	}
	ti := pbr.BaseColorTexture.Index
	if ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return nil
	}
	img := doc.Images[*doc.Textures[ti].Source]
	if img.BufferView == nil {
		return nil
	}
	raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
	if err != nil {
		return nil
	}
	tex, err := decodeImageBytes(fmt.Sprintf("%s#base", img.Name), raw)
	if err != nil {
		return nil
	}
	return tex
}
