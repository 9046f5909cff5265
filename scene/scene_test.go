package scene

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/xericf/portfolio/core"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestCreateSphere(t *testing.T) {
	const w, h = 8, 6
	m := CreateSphere(4, w, h)

	if len(m.Vertices) != (w+1)*(h+1) {
		t.Errorf("expected %d vertices, got %d", (w+1)*(h+1), len(m.Vertices))
	}
	if want := w * (h - 1) * 2 * 3; len(m.Indices) != want {
		t.Errorf("expected %d indices, got %d", want, len(m.Indices))
	}
	for i, v := range m.Vertices {
		if !approx(v.Position.Len(), 4) {
			t.Fatalf("vertex %d off the sphere: %v", i, v.Position)
		}
		if v.UV[1] < 0 || v.UV[1] > 1 {
			t.Fatalf("vertex %d v out of range: %v", i, v.UV)
		}
	}
	if !approx(m.Vertices[0].Position[1], 4) {
		t.Errorf("first ring should be the north pole, got %v", m.Vertices[0].Position)
	}
}

func TestSphereFacesPointOutwards(t *testing.T) {
	m := CreateSphere(1, 16, 12)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d is wound inwards", i/3)
		}
	}
}

func TestSphereTangentsOrthogonal(t *testing.T) {
	m := CreateSphere(1, 12, 8)
	for i, v := range m.Vertices {
		if d := v.Normal.Dot(v.Tangent); math.Abs(float64(d)) > 1e-3 {
			t.Fatalf("vertex %d tangent not orthogonal to normal: %v", i, d)
		}
		if !approx(v.Tangent.Len(), 1) {
			t.Fatalf("vertex %d tangent not unit: %v", i, v.Tangent)
		}
	}
}

func TestNodeWorldMatrix(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	parent.SetPosition(mgl32.Vec3{10, 0, 0})
	child.SetPosition(mgl32.Vec3{0, 2, 0})

	p := child.WorldPosition()
	if !approx(p[0], 10) || !approx(p[1], 2) {
		t.Errorf("expected (10,2,0), got %v", p)
	}

	parent.SetPosition(mgl32.Vec3{11, 0, 0})
	p = child.WorldPosition()
	if !approx(p[0], 11) {
		t.Errorf("child did not follow parent: %v", p)
	}
}

func TestSceneTexturesDeduplicates(t *testing.T) {
	s := NewScene()
	tex := NewSolidTexture("a", 1, 2, 3, 255)
	s.Background = NewSolidTexture("bg", 0, 0, 0, 255)

	m1 := CreateSphere(1, 4, 3)
	m1.Material = NewPhongMaterial("m1", core.ColorWhite, tex)
	m2 := CreateSphere(1, 4, 3)
	m2.Material = NewPhongMaterial("m2", core.ColorWhite, tex)
	s.AddNode(NewMeshNode("one", m1))
	s.AddNode(NewMeshNode("two", m2))

	got := s.Textures()
	if len(got) != 2 || got[0] != s.Background || got[1] != tex {
		t.Errorf("unexpected textures %v", got)
	}
	if n := len(s.VisibleNodes()); n != 2 {
		t.Errorf("expected 2 visible nodes, got %d", n)
	}
}

func TestCameraProjectsTargetToCentre(t *testing.T) {
	c := NewCamera(mgl32.DegToRad(75), 16.0/9.0, 0.1, 1000)
	c.SetPosition(mgl32.Vec3{-30, 20, 85})
	c.LookAt(mgl32.Vec3{})

	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !approx(clip[0]/clip[3], 0) || !approx(clip[1]/clip[3], 0) {
		t.Errorf("target not centred: %v", clip)
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{200, 100, 50, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeTexture(t *testing.T) {
	tex, err := DecodeTexture("x", bytes.NewReader(encodePNG(t, 4, 2)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 4 || tex.Height != 2 || len(tex.Pixels) != 4*2*4 {
		t.Fatalf("unexpected texture %dx%d with %d bytes", tex.Width, tex.Height, len(tex.Pixels))
	}
	if tex.Pixels[0] != 200 || tex.Pixels[1] != 100 || tex.Pixels[2] != 50 {
		t.Errorf("unexpected first pixel %v", tex.Pixels[:4])
	}
}

func TestDecodeTextureDownsamples(t *testing.T) {
	tex, err := DecodeTexture("x", bytes.NewReader(encodePNG(t, 64, 32)), 16)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 16 || tex.Height != 8 {
		t.Errorf("expected 16x8, got %dx%d", tex.Width, tex.Height)
	}
}

func TestLoadTextureMissingFile(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "nope.jpg"), 0); err == nil {
		t.Error("expected error")
	}
}

func TestNewColorTexture(t *testing.T) {
	tex := NewColorTexture("grey", core.ColorGrey)
	if tex.Pixels[0] != 128 || tex.Pixels[3] != 255 {
		t.Errorf("unexpected pixel %v", tex.Pixels)
	}
}

func TestLoadGLTFMeshNormalizes(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{10, 0, 0}, {12, 0, 0}, {10, 2, 0}, {12, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 1, 3, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}

	m, tex, err := LoadGLTFMesh(path, 3)
	if err != nil {
		t.Fatal(err)
	}
	if tex != nil {
		t.Errorf("expected no texture")
	}
	if len(m.Vertices) != 4 || len(m.Indices) != 6 {
		t.Fatalf("unexpected geometry %d/%d", len(m.Vertices), len(m.Indices))
	}
	if r := m.BoundingRadius(); !approx(r, 3) {
		t.Errorf("expected radius 3, got %v", r)
	}
	if c := m.LocalAABB.Center(); !approx(c.Len(), 0) {
		t.Errorf("expected centred mesh, got centre %v", c)
	}
}
