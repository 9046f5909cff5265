package renderer

import (
	"fmt"
	"log"

	"github.com/xericf/portfolio/core"
	"github.com/xericf/portfolio/internal/opengl"
	"github.com/xericf/portfolio/scene"
)

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl     *opengl.Renderer
	window *core.Window
	Scene  *scene.Scene

	PostProcessEnabled bool
	BloomEnabled       bool

	width, height int

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastVertices  int
	lastTriangles int
	lastCulled    int
}

// NewRenderEngine initialises OpenGL against the window's current context.
func NewRenderEngine(window *core.Window) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}
	if err := glRenderer.EnableBackground(); err != nil {
		glRenderer.Destroy()
		return nil, fmt.Errorf("background: %w", err)
	}

	w, h := window.GetFramebufferSize()
	glRenderer.SetViewport(w, h)

	log.Printf("[Render] engine initialized (%dx%d)", w, h)
	return &RenderEngine{
		gl:     glRenderer,
		window: window,
		width:  w,
		height: h,
	}, nil
}

// EnablePostProcess creates the HDR target at the current framebuffer size.
func (re *RenderEngine) EnablePostProcess() error {
	if err := re.gl.EnablePostProcess(re.width, re.height); err != nil {
		return fmt.Errorf("post-process: %w", err)
	}
	re.PostProcessEnabled = true
	return nil
}

// EnableBloom turns on post-processing if needed, then bloom.
func (re *RenderEngine) EnableBloom(threshold, strength, exposure float32) error {
	if !re.PostProcessEnabled {
		if err := re.EnablePostProcess(); err != nil {
			return err
		}
	}
	if err := re.gl.EnableBloom(threshold, strength); err != nil {
		return fmt.Errorf("bloom: %w", err)
	}
	re.gl.SetExposure(exposure)
	re.BloomEnabled = true
	return nil
}

func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
}

// UploadSceneTextures uploads every texture the scene references.
// Failures are collected; textures that failed stay unbound.
func (re *RenderEngine) UploadSceneTextures() error {
	if re.Scene == nil {
		return nil
	}
	var errs []error
	for _, tex := range re.Scene.Textures() {
		if err := re.UploadTexture(tex); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("upload textures: %v", errs)
	}
	return nil
}

// Render draws the scene into the current target: background, opaque
// geometry, then blended geometry back to front.
func (re *RenderEngine) Render() error {
	if re.Scene == nil || re.Scene.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}
	cam := re.Scene.Camera
	view := cam.ViewMatrix()
	vp := cam.ViewProjectionMatrix()

	re.gl.BeginFrame(re.Scene.BackgroundColor, re.Scene.Lights, re.Scene.Ambient, cam.Position, view)
	re.gl.DrawBackground(re.Scene.Background)

	frustum := scene.FrustumFromVP(vp)
	visible := re.Scene.VisibleNodes()
	inView := frustum.Cull(visible)
	opaque, blended := drawOrder(inView, cam.Position)

	objects, vertices, triangles := 0, 0, 0
	for _, pass := range [][]*scene.Node{opaque, blended} {
		for _, node := range pass {
			model := node.WorldMatrix()
			re.gl.DrawMesh(node.Mesh, vp.Mul4(model), model)

			objects++
			vertices += len(node.Mesh.Vertices)
			triangles += len(node.Mesh.Indices) / 3
		}
	}
	re.gl.EndFrame()

	re.lastObjects = objects
	re.lastVertices = vertices
	re.lastTriangles = triangles
	re.lastCulled = len(visible) - len(inView)
	return nil
}

// Present resolves the HDR target (tone mapping, bloom) to the default
// framebuffer and swaps buffers.
func (re *RenderEngine) Present() {
	re.gl.BlitPostProcess()
	re.window.SwapBuffers()
}

// Frame renders and presents one frame.
func (re *RenderEngine) Frame() error {
	if err := re.Render(); err != nil {
		return err
	}
	re.Present()
	return nil
}

// SetOutputSize resizes the viewport, the HDR targets and the camera aspect.
// Zero sizes (minimised window) are ignored.
func (re *RenderEngine) SetOutputSize(width, height int) {
	var cam *scene.Camera
	if re.Scene != nil {
		cam = re.Scene.Camera
	}
	if !fitCamera(cam, width, height) {
		return
	}
	re.width, re.height = width, height
	re.gl.SetViewport(width, height)
	if re.PostProcessEnabled {
		re.gl.ResizePostProcess(width, height)
	}
}

// fitCamera sets cam's aspect for a width×height output. It reports false,
// leaving cam alone, when either side is not positive.
func fitCamera(cam *scene.Camera, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if cam != nil {
		cam.UpdateAspectRatio(float32(width), float32(height))
	}
	return true
}

// UploadTexture uploads a texture to the GPU. Must be called from the main thread.
func (re *RenderEngine) UploadTexture(tex *scene.Texture) error {
	return opengl.UploadTexture(tex)
}

func (re *RenderEngine) Destroy() {
	if re.Scene != nil {
		for _, tex := range re.Scene.Textures() {
			opengl.DeleteTexture(tex)
		}
	}
	re.gl.Destroy()
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, vertices, triangles int) {
	return re.lastObjects, re.lastVertices, re.lastTriangles
}

// CulledCount returns how many nodes the last Render skipped as out of view.
func (re *RenderEngine) CulledCount() int {
	return re.lastCulled
}
