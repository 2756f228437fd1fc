package output

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/veandco/go-sdl2/sdl"

	"jubilee/emu/log"
	"jubilee/hw"
)

// window displays pen indices through a palette lookup in the fragment
// shader. All methods must run on the SDL thread.
type window struct {
	*sdl.Window
	context sdl.GLContext

	prog, texture, vao, vbo uint32
	texw, texh              int32
}

func newWindow(cfg Config, texw, texh int) (w *window, err error) {
	sdl.Do(func() {
		w, err = openWindow(cfg, int32(texw), int32(texh))
	})
	return w, err
}

func openWindow(cfg Config, texw, texh int32) (*window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_GAMECONTROLLER); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL: %w", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 3)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	scale := int32(max(cfg.Scale, 1))
	pos := int32(sdl.WINDOWPOS_CENTERED_MASK) | cfg.Monitor
	sw, err := sdl.CreateWindow(cfg.Title, pos, pos, texw*scale, texh*scale,
		sdl.WINDOW_OPENGL|sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w := &window{Window: sw, texw: texw, texh: texh}
	if w.context, err = sw.GLCreateContext(); err != nil {
		sw.Destroy()
		return nil, fmt.Errorf("failed to create OpenGL context: %w", err)
	}
	if err := gl.Init(); err != nil {
		w.destroy()
		return nil, fmt.Errorf("failed to initialize opengl: %w", err)
	}

	interval := 1
	if cfg.DisableVSync {
		interval = 0
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.ModVideo.WarnZ("failed to set swap interval").Error("err", err).End()
	}

	if err := w.setupGL(); err != nil {
		w.destroy()
		return nil, err
	}
	return w, nil
}

func (w *window) setupGL() error {
	prog, err := buildProgram(vertexShader, fragmentShader)
	if err != nil {
		return err
	}
	w.prog = prog

	// One byte per pixel: the pen.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.GenTextures(1, &w.texture)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, w.texw, w.texh, 0, gl.RED, gl.UNSIGNED_BYTE, nil)

	gl.UseProgram(w.prog)
	var pal [3 * 8]float32
	for i, c := range hw.Palette {
		r, g, b, _ := c.RGBA()
		pal[3*i+0] = float32(r) / 0xffff
		pal[3*i+1] = float32(g) / 0xffff
		pal[3*i+2] = float32(b) / 0xffff
	}
	gl.Uniform3fv(gl.GetUniformLocation(w.prog, gl.Str("palette\x00")), int32(len(hw.Palette)), &pal[0])
	gl.Uniform1i(gl.GetUniformLocation(w.prog, gl.Str("pens\x00")), 0)

	gl.GenVertexArrays(1, &w.vao)
	gl.GenBuffers(1, &w.vbo)
	gl.BindVertexArray(w.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl setup error %#x", code)
	}
	return nil
}

// draw presents a frame of pens, letterboxed to keep the aspect ratio.
func (w *window) draw(pens []byte) {
	dw, dh := w.GLGetDrawableSize()
	vw, vh := dw, dw*w.texh/w.texw
	if vh > dh {
		vw, vh = dh*w.texw/w.texh, dh
	}
	gl.Viewport(0, 0, dw, dh)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Viewport((dw-vw)/2, (dh-vh)/2, vw, vh)

	gl.UseProgram(w.prog)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w.texw, w.texh, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(&pens[0]))
	gl.BindVertexArray(w.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	w.GLSwap()
}

func (w *window) destroy() error {
	if w.vao != 0 {
		gl.DeleteVertexArrays(1, &w.vao)
		gl.DeleteBuffers(1, &w.vbo)
		gl.DeleteTextures(1, &w.texture)
		gl.DeleteProgram(w.prog)
	}
	if w.context != nil {
		sdl.GLDeleteContext(w.context)
	}
	err := w.Destroy()
	sdl.Quit()
	return err
}

func (w *window) Close() (err error) {
	sdl.Do(func() { err = w.destroy() })
	return err
}

// Triangle strip covering the viewport: x, y, s, t.
var quad = []float32{
	-1, 1, 0, 0,
	-1, -1, 0, 1,
	1, 1, 1, 0,
	1, -1, 1, 1,
}

const vertexShader = `
#version 330 core
layout (location = 0) in vec2 pos;
layout (location = 1) in vec2 uv;
out vec2 texCoord;

void main() {
    gl_Position = vec4(pos, 0.0, 1.0);
    texCoord = uv;
}
`

const fragmentShader = `
#version 330 core
in vec2 texCoord;
out vec4 color;

uniform sampler2D pens;
uniform vec3 palette[8];

void main() {
    int pen = int(texture(pens, texCoord).r * 255.0 + 0.5) & 7;
    color = vec4(palette[pen], 1.0);
}
`

func buildProgram(vsrc, fsrc string) (uint32, error) {
	vs, err := compileShader(vsrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fsrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fs)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	if gl.GetProgramiv(prog, gl.LINK_STATUS, &status); status == gl.FALSE {
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("shader program link: %s", programLog(prog))
	}
	return prog, nil
}

func compileShader(src string, typ uint32) (uint32, error) {
	sh := gl.CreateShader(typ)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(sh, 1, csrc, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	if gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status); status == gl.FALSE {
		var n int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
		msg := strings.Repeat("\x00", int(n+1))
		gl.GetShaderInfoLog(sh, n, nil, gl.Str(msg))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("compile error: %s", strings.TrimRight(msg, "\x00"))
	}
	return sh, nil
}

func programLog(prog uint32) string {
	var n int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
	msg := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(prog, n, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}
