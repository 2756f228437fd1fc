// Package output presents board frames in an SDL window and turns window
// events into board requests.
package output

import (
	"image"

	"github.com/veandco/go-sdl2/sdl"

	"jubilee/hw"
	"jubilee/hw/hwdefs"
)

type Config struct {
	Title          string
	Scale          int
	Monitor        int32
	DisableVSync   bool
	NumBackBuffers int
}

// Output presents the rendered frames in a window.
type Output struct {
	window *window

	framebufidx int
	framebuf    []*image.Paletted
}

func New(cfg Config) (*Output, error) {
	w, err := newWindow(cfg, hwdefs.ScreenW, hwdefs.ScreenH)
	if err != nil {
		return nil, err
	}

	o := &Output{
		window:   w,
		framebuf: make([]*image.Paletted, max(cfg.NumBackBuffers, 1)),
	}
	for i := range o.framebuf {
		o.framebuf[i] = hw.NewFrame()
	}
	return o, nil
}

func (o *Output) BeginFrame() *image.Paletted {
	o.framebufidx++
	if o.framebufidx == len(o.framebuf) {
		o.framebufidx = 0
	}
	return o.framebuf[o.framebufidx]
}

// EndFrame presents frame, which must come from BeginFrame.
func (o *Output) EndFrame(frame *image.Paletted) {
	sdl.Do(func() { o.window.draw(frame.Pix) })
}

// Poll processes pending window events and calls handle for each user
// request.
func (o *Output) Poll(handle func(hw.OutputEvent)) {
	var events []hw.OutputEvent
	sdl.Do(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case sdl.QuitEvent:
				events = append(events, hw.EventQuit)
			case sdl.KeyboardEvent:
				if e.State != sdl.PRESSED || e.Repeat != 0 {
					break
				}
				if ev := keyEvent(e.Keysym); ev != 0 {
					events = append(events, ev)
				}
			}
		}
	})
	for _, ev := range events {
		handle(ev)
	}
}

func keyEvent(key sdl.Keysym) hw.OutputEvent {
	shift := key.Mod&uint16(sdl.KMOD_SHIFT) != 0
	switch key.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return hw.EventQuit
	case sdl.SCANCODE_P:
		return hw.EventPause
	case sdl.SCANCODE_F3:
		if shift {
			return hw.EventHardReset
		}
		return hw.EventSoftReset
	case sdl.SCANCODE_F7:
		if shift {
			return hw.EventSaveState
		}
		return hw.EventLoadState
	}
	return 0
}

func (o *Output) Close() error {
	return o.window.Close()
}
