package opengl

import (
	"fmt"
	"log"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// PostProcessFBO is an HDR off-screen render target resolved with exposure
// tone mapping, plus optional bloom: bright-pass, separable Gaussian blur at
// half resolution, additive composite.
type PostProcessFBO struct {
	FBO      uint32
	ColorTex uint32 // RGBA16F
	DepthRB  uint32
	Width    int32
	Height   int32

	Exposure float32

	compositeProg uint32
	expLoc        int32
	bloomStrLoc   int32
	hasBloomLoc   int32

	emptyVAO uint32

	bloomFBO        [2]uint32
	bloomTex        [2]uint32
	bloomW, bloomH  int32
	brightProg      uint32
	brightThreshLoc int32
	blurProg        uint32
	blurDirLoc      int32

	BloomEnabled   bool
	BloomThreshold float32 // luminance cut-off
	BloomStrength  float32 // additive multiplier
	BloomPasses    int     // H+V blur pairs
}

func NewPostProcessFBO(width, height int) (*PostProcessFBO, error) {
	prog, err := newProgram(fullscreenVertSrc, compositeFragSrc)
	if err != nil {
		return nil, fmt.Errorf("post-process shader: %w", err)
	}
	pp := &PostProcessFBO{
		Exposure:      1,
		compositeProg: prog,
		expLoc:        gl.GetUniformLocation(prog, gl.Str("exposure\x00")),
		bloomStrLoc:   gl.GetUniformLocation(prog, gl.Str("bloomStrength\x00")),
		hasBloomLoc:   gl.GetUniformLocation(prog, gl.Str("hasBloom\x00")),
	}
	gl.UseProgram(prog)
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("hdrBuffer\x00")), 0)
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("bloomTex\x00")), 1)

	gl.GenVertexArrays(1, &pp.emptyVAO)
	if err := pp.allocFBO(width, height); err != nil {
		pp.Destroy()
		return nil, err
	}
	return pp, nil
}

// EnableBloom compiles the bright-pass and blur programs and allocates the
// ping-pong targets. Calling it again is a no-op.
func (pp *PostProcessFBO) EnableBloom() error {
	if pp.brightProg != 0 {
		return nil
	}

	bp, err := newProgram(fullscreenVertSrc, brightFragSrc)
	if err != nil {
		return fmt.Errorf("bright-pass shader: %w", err)
	}
	blp, err := newProgram(fullscreenVertSrc, blurFragSrc)
	if err != nil {
		gl.DeleteProgram(bp)
		return fmt.Errorf("blur shader: %w", err)
	}

	pp.brightProg = bp
	pp.brightThreshLoc = gl.GetUniformLocation(bp, gl.Str("threshold\x00"))
	gl.UseProgram(bp)
	gl.Uniform1i(gl.GetUniformLocation(bp, gl.Str("hdrBuffer\x00")), 0)

	pp.blurProg = blp
	pp.blurDirLoc = gl.GetUniformLocation(blp, gl.Str("texelDir\x00"))
	gl.UseProgram(blp)
	gl.Uniform1i(gl.GetUniformLocation(blp, gl.Str("blurTex\x00")), 0)

	pp.allocBloomFBOs()
	pp.BloomEnabled = true
	pp.BloomThreshold = 1.0
	pp.BloomStrength = 0.6
	pp.BloomPasses = 4
	log.Printf("[Bloom] ON (%dx%d)", pp.bloomW, pp.bloomH)
	return nil
}

func (pp *PostProcessFBO) allocBloomFBOs() {
	pp.bloomW = max(pp.Width/2, 1)
	pp.bloomH = max(pp.Height/2, 1)
	for i := range pp.bloomFBO {
		pp.bloomTex[i] = newColorTarget(pp.bloomW, pp.bloomH)
		gl.GenFramebuffers(1, &pp.bloomFBO[i])
		gl.BindFramebuffer(gl.FRAMEBUFFER, pp.bloomFBO[i])
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, pp.bloomTex[i], 0)
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (pp *PostProcessFBO) freeBloomFBOs() {
	for i := range pp.bloomFBO {
		if pp.bloomFBO[i] != 0 {
			gl.DeleteFramebuffers(1, &pp.bloomFBO[i])
			pp.bloomFBO[i] = 0
		}
		if pp.bloomTex[i] != 0 {
			gl.DeleteTextures(1, &pp.bloomTex[i])
			pp.bloomTex[i] = 0
		}
	}
}

// newColorTarget allocates a linear-filtered, edge-clamped RGBA16F texture.
func newColorTarget(w, h int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, w, h, 0, gl.RGBA, gl.HALF_FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (pp *PostProcessFBO) allocFBO(width, height int) error {
	pp.Width = int32(max(width, 1))
	pp.Height = int32(max(height, 1))

	pp.ColorTex = newColorTarget(pp.Width, pp.Height)

	gl.GenRenderbuffers(1, &pp.DepthRB)
	gl.BindRenderbuffer(gl.RENDERBUFFER, pp.DepthRB)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, pp.Width, pp.Height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &pp.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, pp.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, pp.ColorTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, pp.DepthRB)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("HDR framebuffer incomplete (0x%X)", status)
	}
	return nil
}

func (pp *PostProcessFBO) freeFBO() {
	if pp.FBO != 0 {
		gl.DeleteFramebuffers(1, &pp.FBO)
		pp.FBO = 0
	}
	if pp.ColorTex != 0 {
		gl.DeleteTextures(1, &pp.ColorTex)
		pp.ColorTex = 0
	}
	if pp.DepthRB != 0 {
		gl.DeleteRenderbuffers(1, &pp.DepthRB)
		pp.DepthRB = 0
	}
}

// Resize reallocates every target at the new size.
func (pp *PostProcessFBO) Resize(width, height int) {
	pp.freeFBO()
	if err := pp.allocFBO(width, height); err != nil {
		log.Printf("[Render] resize %dx%d: %v", width, height, err)
	}
	if pp.BloomEnabled {
		pp.freeBloomFBOs()
		pp.allocBloomFBOs()
	}
}

func (pp *PostProcessFBO) Destroy() {
	pp.freeFBO()
	pp.freeBloomFBOs()
	for _, p := range []*uint32{&pp.brightProg, &pp.blurProg, &pp.compositeProg} {
		if *p != 0 {
			gl.DeleteProgram(*p)
			*p = 0
		}
	}
	if pp.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &pp.emptyVAO)
		pp.emptyVAO = 0
	}
}

// Blit resolves the HDR target into framebuffer 0.
func (pp *PostProcessFBO) Blit() {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(pp.emptyVAO)

	bloom := pp.BloomEnabled && pp.brightProg != 0
	if bloom {
		pp.runBloom()
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, pp.Width, pp.Height)
	gl.UseProgram(pp.compositeProg)
	gl.Uniform1f(pp.expLoc, pp.Exposure)
	gl.Uniform1f(pp.bloomStrLoc, pp.BloomStrength)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
	if bloom {
		gl.Uniform1i(pp.hasBloomLoc, 1)
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, pp.bloomTex[0])
	} else {
		gl.Uniform1i(pp.hasBloomLoc, 0)
	}
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// runBloom leaves the blurred bright-pass in bloomTex[0]: every H+V pair
// ping-pongs 0→1→0.
func (pp *PostProcessFBO) runBloom() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, pp.bloomFBO[0])
	gl.Viewport(0, 0, pp.bloomW, pp.bloomH)
	gl.UseProgram(pp.brightProg)
	gl.Uniform1f(pp.brightThreshLoc, pp.BloomThreshold)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.UseProgram(pp.blurProg)
	src, dst := 0, 1
	for i := 0; i < pp.BloomPasses*2; i++ {
		gl.BindFramebuffer(gl.FRAMEBUFFER, pp.bloomFBO[dst])
		if i%2 == 0 {
			gl.Uniform2f(pp.blurDirLoc, 1/float32(pp.bloomW), 0)
		} else {
			gl.Uniform2f(pp.blurDirLoc, 0, 1/float32(pp.bloomH))
		}
		gl.BindTexture(gl.TEXTURE_2D, pp.bloomTex[src])
		gl.DrawArrays(gl.TRIANGLES, 0, 3)
		src, dst = dst, src
	}
}
