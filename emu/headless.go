package emu

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"jubilee/hw"
)

// Headless is an Output that keeps frames in memory. It never produces
// events, the caller decides when to stop.
type Headless struct {
	frames [2]*image.Paletted
	idx    int
	last   *image.Paletted

	count int
}

func NewHeadless() *Headless {
	return &Headless{
		frames: [2]*image.Paletted{hw.NewFrame(), hw.NewFrame()},
	}
}

func (h *Headless) BeginFrame() *image.Paletted {
	h.idx ^= 1
	return h.frames[h.idx]
}

func (h *Headless) EndFrame(frame *image.Paletted) {
	h.last = frame
	h.count++
}

func (h *Headless) Poll(func(hw.OutputEvent)) {}

func (h *Headless) Close() error { return nil }

// Frames returns the number of presented frames.
func (h *Headless) Frames() int { return h.count }

// Screenshot returns a copy of the last presented frame, or nil.
func (h *Headless) Screenshot() *image.Paletted {
	if h.last == nil {
		return nil
	}
	img := hw.NewFrame()
	copy(img.Pix, h.last.Pix)
	return img
}

// Upscale returns img scaled by an integer factor, without filtering.
func Upscale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// SavePNG encodes img as a PNG file at path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
