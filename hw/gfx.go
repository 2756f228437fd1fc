package hw

import (
	"fmt"
	"image"
	"image/color"

	"jubilee/hw/hwdefs"
)

const (
	tilePixels = hwdefs.TileSize * hwdefs.TileSize
	tileBytes  = hwdefs.TileSize // one byte per row, per plane
	bankTiles  = 256
	bankStride = bankTiles * tileBytes // 0x800
	numPlanes  = 3
)

// Palette is the fixed 3-bit RGB palette of the board. Pen bit 0 drives
// red, bit 1 green and bit 2 blue.
var Palette = color.Palette{
	color.RGBA{0x00, 0x00, 0x00, 0xff},
	color.RGBA{0xff, 0x00, 0x00, 0xff},
	color.RGBA{0x00, 0xff, 0x00, 0xff},
	color.RGBA{0xff, 0xff, 0x00, 0xff},
	color.RGBA{0x00, 0x00, 0xff, 0xff},
	color.RGBA{0xff, 0x00, 0xff, 0xff},
	color.RGBA{0x00, 0xff, 0xff, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
}

// A Tile holds the pens of an 8x8 tile, row-major.
type Tile [tilePixels]uint8

// TileSet holds the decoded tiles of the graphics banks.
type TileSet struct {
	tiles [hwdefs.NumGfxBank][bankTiles]Tile
}

// DecodeTiles decodes the graphics ROM region. The region is made of 3
// bitplanes of equal size, plane 0 being the most significant bit of the
// pen. Inside a plane, banks are 0x800 bytes apart and a tile row is a
// byte, the leftmost pixel in bit 7.
func DecodeTiles(gfx []byte) (*TileSet, error) {
	if len(gfx)%numPlanes != 0 {
		return nil, fmt.Errorf("region size %#x is not a multiple of %d planes", len(gfx), numPlanes)
	}
	plane := len(gfx) / numPlanes
	if plane < hwdefs.NumGfxBank*bankStride {
		return nil, fmt.Errorf("plane size %#x too small, want at least %#x", plane, hwdefs.NumGfxBank*bankStride)
	}

	ts := &TileSet{}
	for bank := range hwdefs.NumGfxBank {
		for code := range bankTiles {
			tile := &ts.tiles[bank][code]
			off := bank*bankStride + code*tileBytes
			for y := range hwdefs.TileSize {
				for x := range hwdefs.TileSize {
					pen := uint8(0)
					for p := range numPlanes {
						row := gfx[p*plane+off+y]
						pen = pen<<1 | (row>>(7-x))&1
					}
					tile[y*hwdefs.TileSize+x] = pen
				}
			}
		}
	}
	return ts, nil
}

// Tile returns the decoded tile for a bank and code. Only the 2 lowest bits
// of bank are used.
func (ts *TileSet) Tile(bank, code uint8) *Tile {
	return &ts.tiles[bank&(hwdefs.NumGfxBank-1)][code]
}

// Sheet draws all the tiles in a single image: banks are laid side by side,
// each bank being a 16x16 grid of tiles.
func (ts *TileSet) Sheet() *image.Paletted {
	const (
		perRow = 16
		bankW  = perRow * hwdefs.TileSize
	)
	img := image.NewPaletted(image.Rect(0, 0, hwdefs.NumGfxBank*bankW, bankW), Palette)
	for bank := range hwdefs.NumGfxBank {
		for code := range bankTiles {
			x0 := bank*bankW + (code%perRow)*hwdefs.TileSize
			y0 := (code / perRow) * hwdefs.TileSize
			drawTile(img, x0, y0, &ts.tiles[bank][code])
		}
	}
	return img
}

func drawTile(img *image.Paletted, x0, y0 int, tile *Tile) {
	for y := range hwdefs.TileSize {
		off := img.PixOffset(x0, y0+y)
		copy(img.Pix[off:off+hwdefs.TileSize], tile[y*hwdefs.TileSize:])
	}
}
