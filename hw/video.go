package hw

import (
	"image"

	"jubilee/emu/log"
	"jubilee/hw/hwdefs"
	"jubilee/hw/hwio"
)

// NewFrame allocates an image suitable for Video.Render.
func NewFrame() *image.Paletted {
	return image.NewPaletted(image.Rect(0, 0, hwdefs.ScreenW, hwdefs.ScreenH), Palette)
}

// Video is the tile renderer. It keeps a pixmap of the whole tilemap and
// only redraws the tiles which have been invalidated since the last render.
type Video struct {
	vram  []byte // tile codes
	cram  []byte // tile attributes
	tiles *TileSet

	dirty   hwio.Bitset
	tilemap *image.Paletted
}

func NewVideo(vram, cram []byte, tiles *TileSet) *Video {
	v := &Video{
		vram:    vram,
		cram:    cram,
		tiles:   tiles,
		dirty:   hwio.NewBitset(hwdefs.NumTiles),
		tilemap: NewFrame(),
	}
	v.InvalidateAll()
	return v
}

// Invalidate marks tile idx for redraw. Only the 10 lowest bits of idx
// are significant.
func (v *Video) Invalidate(idx uint16) {
	v.dirty.Set(uint(idx) % hwdefs.NumTiles)
}

func (v *Video) InvalidateAll() {
	v.dirty.SetAll()
}

// Dirty reports whether tile idx will be redrawn at next render.
func (v *Video) Dirty(idx uint16) bool {
	return v.dirty.Test(uint(idx) % hwdefs.NumTiles)
}

// Render redraws dirty tiles and copies the whole tilemap into dst, which
// must be at least ScreenW x ScreenH.
func (v *Video) Render(dst *image.Paletted) {
	ndirty := v.dirty.Count()
	if ndirty != 0 {
		for i, ok := v.dirty.Next(0); ok; i, ok = v.dirty.Next(i + 1) {
			v.drawTile(i)
		}
		v.dirty.Reset()
	}
	log.ModVideo.DebugZ("render").Int("dirty", ndirty).End()

	r := dst.Rect
	for y := range hwdefs.ScreenH {
		doff := dst.PixOffset(r.Min.X, r.Min.Y+y)
		soff := y * v.tilemap.Stride
		copy(dst.Pix[doff:doff+hwdefs.ScreenW], v.tilemap.Pix[soff:soff+hwdefs.ScreenW])
	}
}

func (v *Video) drawTile(idx uint) {
	code := v.vram[idx]
	bank := v.cram[idx] & (hwdefs.NumGfxBank - 1)
	x0 := int(idx%hwdefs.TileCols) * hwdefs.TileSize
	y0 := int(idx/hwdefs.TileCols) * hwdefs.TileSize
	drawTile(v.tilemap, x0, y0, v.tiles.Tile(bank, code))
}
