package opengl

import (
	"fmt"
	"log"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/xericf/portfolio/core"
	"github.com/xericf/portfolio/scene"
)

const maxPointLights = 8

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

type meshUniforms struct {
	mvp, model, view int32

	ambientColor, cameraPos int32

	pointLightCount     int32
	pointLightPos       [maxPointLights]int32
	pointLightColor     [maxPointLights]int32
	pointLightIntensity [maxPointLights]int32
	pointLightRange     [maxPointLights]int32

	shading, matColor, matOpacity, matSpecular, matShininess, matEmissive int32
	glowPower, glowIntensity                                           int32

	colorTex, hasColorTex       int32
	normalTex, hasNormalTex     int32
	bumpTex, hasBumpTex         int32
	bumpScale                   int32
	specularTex, hasSpecularTex int32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32
	u       meshUniforms

	viewportW int32
	viewportH int32

	// Post-processing FBO (nil if disabled)
	postProcess *PostProcessFBO

	// Background pass (nil until EnableBackground)
	background *Background

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Printf("[Render] OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)

	loc := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}
	u := meshUniforms{
		mvp:   loc("mvp"),
		model: loc("model"),
		view:  loc("view"),

		ambientColor: loc("ambientColor"),
		cameraPos:    loc("cameraPos"),

		pointLightCount: loc("pointLightCount"),

		shading:       loc("shading"),
		matColor:      loc("matColor"),
		matOpacity:    loc("matOpacity"),
		matSpecular:   loc("matSpecular"),
		matShininess:  loc("matShininess"),
		matEmissive:   loc("matEmissive"),
		glowPower:     loc("glowPower"),
		glowIntensity: loc("glowIntensity"),

		colorTex:       loc("colorTex"),
		hasColorTex:    loc("hasColorTex"),
		normalTex:      loc("normalTex"),
		hasNormalTex:   loc("hasNormalTex"),
		bumpTex:        loc("bumpTex"),
		hasBumpTex:     loc("hasBumpTex"),
		bumpScale:      loc("bumpScale"),
		specularTex:    loc("specularTex"),
		hasSpecularTex: loc("hasSpecularTex"),
	}
	for i := 0; i < maxPointLights; i++ {
		u.pointLightPos[i] = loc(fmt.Sprintf("pointLightPos[%d]", i))
		u.pointLightColor[i] = loc(fmt.Sprintf("pointLightColor[%d]", i))
		u.pointLightIntensity[i] = loc(fmt.Sprintf("pointLightIntensity[%d]", i))
		u.pointLightRange[i] = loc(fmt.Sprintf("pointLightRange[%d]", i))
	}

	// Texture units: colour=0, normal=1, bump=2, specular=3
	gl.UseProgram(prog)
	gl.Uniform1i(u.colorTex, 0)
	gl.Uniform1i(u.normalTex, 1)
	gl.Uniform1i(u.bumpTex, 2)
	gl.Uniform1i(u.specularTex, 3)

	return &Renderer{
		program:   prog,
		u:         u,
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
	}, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// EnableBackground compiles the background shader.
func (r *Renderer) EnableBackground() error {
	if r.background != nil {
		return nil
	}
	bg, err := NewBackground()
	if err != nil {
		return err
	}
	r.background = bg
	return nil
}

// DrawBackground fills the target with tex. Must run right after BeginFrame.
func (r *Renderer) DrawBackground(tex *scene.Texture) {
	if r.background == nil || tex == nil || tex.GLID == 0 {
		return
	}
	r.background.Draw(tex.GLID)
}

// EnablePostProcess creates the HDR FBO at the given size.
func (r *Renderer) EnablePostProcess(width, height int) error {
	if r.postProcess != nil {
		r.postProcess.Destroy()
	}
	pp, err := NewPostProcessFBO(width, height)
	if err != nil {
		return err
	}
	r.postProcess = pp
	return nil
}

func (r *Renderer) ResizePostProcess(width, height int) {
	if r.postProcess != nil {
		r.postProcess.Resize(width, height)
	}
}

func (r *Renderer) SetExposure(exp float32) {
	if r.postProcess != nil {
		r.postProcess.Exposure = exp
	}
}

// EnableBloom requires post-processing to be enabled first.
func (r *Renderer) EnableBloom(threshold, strength float32) error {
	if r.postProcess == nil {
		return fmt.Errorf("EnableBloom: post-processing must be enabled first")
	}
	if err := r.postProcess.EnableBloom(); err != nil {
		return err
	}
	r.postProcess.BloomThreshold = threshold
	r.postProcess.BloomStrength = strength
	return nil
}

// BlitPostProcess resolves the HDR FBO to the default framebuffer.
// A no-op when post-processing is disabled.
func (r *Renderer) BlitPostProcess() {
	if r.postProcess == nil {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.viewportW, r.viewportH)
	r.postProcess.Blit()
}

// BeginFrame binds the render target, clears it and uploads per-frame
// lighting and camera uniforms.
func (r *Renderer) BeginFrame(clear core.Color, lights []*scene.Light, ambient core.Color, camPos mgl32.Vec3, view mgl32.Mat4) {
	if r.postProcess != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, r.postProcess.FBO)
		gl.Viewport(0, 0, r.postProcess.Width, r.postProcess.Height)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, r.viewportW, r.viewportH)
	}
	gl.DepthMask(true)
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.Uniform3f(r.u.ambientColor, ambient.R, ambient.G, ambient.B)
	gl.Uniform3f(r.u.cameraPos, camPos[0], camPos[1], camPos[2])
	gl.UniformMatrix4fv(r.u.view, 1, false, &view[0])

	pointIdx := 0
	for _, l := range lights {
		if l == nil || pointIdx >= maxPointLights {
			continue
		}
		gl.Uniform3f(r.u.pointLightPos[pointIdx], l.Position[0], l.Position[1], l.Position[2])
		gl.Uniform3f(r.u.pointLightColor[pointIdx], l.Color.R, l.Color.G, l.Color.B)
		gl.Uniform1f(r.u.pointLightIntensity[pointIdx], l.Intensity)
		gl.Uniform1f(r.u.pointLightRange[pointIdx], l.Range)
		pointIdx++
	}
	gl.Uniform1i(r.u.pointLightCount, int32(pointIdx))
}

// DrawMesh draws a mesh with its material's blend, cull and depth state.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp, model mgl32.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.u.mvp, 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.u.model, 1, false, &model[0])

	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	r.applyMaterial(mat)

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) applyMaterial(mat *scene.Material) {
	switch mat.Side {
	case scene.SideFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case scene.SideBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}

	switch mat.Blend {
	case scene.BlendAlpha:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	case scene.BlendAdditive:
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	default:
		gl.Disable(gl.BLEND)
	}
	gl.DepthMask(mat.DepthWrite)

	gl.Uniform1i(r.u.shading, int32(mat.Shading))
	gl.Uniform3f(r.u.matColor, mat.Color.R, mat.Color.G, mat.Color.B)
	gl.Uniform1f(r.u.matOpacity, mat.Opacity)
	gl.Uniform3f(r.u.matSpecular, mat.Specular.R, mat.Specular.G, mat.Specular.B)
	gl.Uniform1f(r.u.matShininess, max(mat.Shininess, 1))
	gl.Uniform3f(r.u.matEmissive, mat.Emissive.R, mat.Emissive.G, mat.Emissive.B)
	gl.Uniform1f(r.u.glowPower, mat.GlowPower)
	gl.Uniform1f(r.u.glowIntensity, mat.GlowIntensity)
	gl.Uniform1f(r.u.bumpScale, mat.BumpScale)

	bindMap(gl.TEXTURE0, mat.Map, r.u.hasColorTex)
	bindMap(gl.TEXTURE1, mat.NormalMap, r.u.hasNormalTex)
	bindMap(gl.TEXTURE2, mat.BumpMap, r.u.hasBumpTex)
	bindMap(gl.TEXTURE3, mat.SpecularMap, r.u.hasSpecularTex)
}

func bindMap(unit uint32, tex *scene.Texture, flagLoc int32) {
	if tex == nil || tex.GLID == 0 {
		gl.Uniform1i(flagLoc, 0)
		return
	}
	gl.ActiveTexture(unit)
	gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
	gl.Uniform1i(flagLoc, 1)
}

// EndFrame restores the state DrawMesh may have changed.
func (r *Renderer) EndFrame() {
	gl.Disable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
	gl.DepthMask(true)
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	if r.postProcess != nil {
		r.postProcess.Destroy()
	}
	if r.background != nil {
		r.background.Destroy()
	}
	gl.DeleteProgram(r.program)
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))
	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	var v core.Vertex
	attribs := []struct {
		size   int32
		offset uintptr
	}{
		{3, unsafe.Offsetof(v.Position)},
		{3, unsafe.Offsetof(v.Normal)},
		{2, unsafe.Offsetof(v.UV)},
		{4, unsafe.Offsetof(v.Color)},
		{3, unsafe.Offsetof(v.Tangent)},
		{3, unsafe.Offsetof(v.Bitangent)},
	}
	for i, a := range attribs {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointer(uint32(i), a.size, gl.FLOAT, false, stride, gl.PtrOffset(int(a.offset)))
	}

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		msg := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(msg))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", msg)
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		msg := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(msg))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", msg)
	}
	return shader, nil
}
