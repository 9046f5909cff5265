package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Background draws a texture behind the scene. It writes neither depth nor
// anything but colour, so it must be the first draw of a frame.
type Background struct {
	prog          uint32
	vao           uint32
	brightnessLoc int32

	Brightness float32
}

func NewBackground() (*Background, error) {
	prog, err := newProgram(fullscreenVertSrc, backgroundFragSrc)
	if err != nil {
		return nil, fmt.Errorf("background shader: %w", err)
	}
	bg := &Background{
		prog:          prog,
		brightnessLoc: gl.GetUniformLocation(prog, gl.Str("brightness\x00")),
		Brightness:    1,
	}
	gl.UseProgram(prog)
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("backgroundTex\x00")), 0)
	gl.GenVertexArrays(1, &bg.vao)
	return bg, nil
}

func (bg *Background) Draw(texID uint32) {
	gl.Disable(gl.DEPTH_TEST)
	gl.DepthMask(false)

	gl.UseProgram(bg.prog)
	gl.Uniform1f(bg.brightnessLoc, bg.Brightness)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.BindVertexArray(bg.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	gl.DepthMask(true)
	gl.Enable(gl.DEPTH_TEST)
}

func (bg *Background) Destroy() {
	gl.DeleteVertexArrays(1, &bg.vao)
	gl.DeleteProgram(bg.prog)
}
