package hw

import (
	"crypto/sha1"
	"encoding/hex"
	"image"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jubilee/hw/hwdefs"
)

func frameDigest(img *image.Paletted) string {
	h := sha1.Sum(img.Pix)
	return hex.EncodeToString(h[:])
}

// planesGfx returns a graphics region where only the given bytes are set.
func planesGfx(set map[int]byte) []byte {
	gfx := make([]byte, 0x6000)
	for off, v := range set {
		gfx[off] = v
	}
	return gfx
}

func TestDecodeTiles(t *testing.T) {
	const plane = 0x2000
	gfx := planesGfx(map[int]byte{
		0*plane + 2*0x800 + 5*8 + 0:   0x80, // bank 2, code 5, row 0, pixel 0, msb
		1*plane + 2*0x800 + 5*8 + 0:   0x80, // same pixel, middle bit
		2*plane + 2*0x800 + 5*8 + 7:   0x01, // row 7, pixel 7, lsb
		1*plane + 3*0x800 + 255*8 + 3: 0x10, // bank 3, code 255, row 3, pixel 3
	})

	ts, err := DecodeTiles(gfx)
	if err != nil {
		t.Fatal(err)
	}

	tile := ts.Tile(2, 5)
	if tile[0] != 6 {
		t.Errorf("tile(2,5) pixel (0,0) = %d, want 6", tile[0])
	}
	if tile[63] != 1 {
		t.Errorf("tile(2,5) pixel (7,7) = %d, want 1", tile[63])
	}
	for i, pen := range tile[1:63] {
		if pen != 0 {
			t.Errorf("tile(2,5) pixel %d = %d, want 0", i+1, pen)
		}
	}
	if got := ts.Tile(3, 255)[3*8+3]; got != 2 {
		t.Errorf("tile(3,255) pixel (3,3) = %d, want 2", got)
	}

	// Only the 2 lowest bits select the bank.
	if ts.Tile(6, 5) != tile {
		t.Errorf("tile(6,5) should be tile(2,5)")
	}
}

func TestPalette(t *testing.T) {
	want := [][3]uint8{
		{0, 0, 0}, {0xff, 0, 0}, {0, 0xff, 0}, {0xff, 0xff, 0},
		{0, 0, 0xff}, {0xff, 0, 0xff}, {0, 0xff, 0xff}, {0xff, 0xff, 0xff},
	}
	var got [][3]uint8
	for _, c := range Palette {
		r, g, b, _ := c.RGBA()
		got = append(got, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)})
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderAttributeChangesBank(t *testing.T) {
	const plane = 0x2000
	gfx := planesGfx(map[int]byte{
		0*plane + 2*0x800 + 5*8 + 0: 0x80,
		2*plane + 2*0x800 + 5*8 + 7: 0x01,
	})
	b, err := NewBoard(testProgram(), gfx)
	if err != nil {
		t.Fatal(err)
	}

	// Tile 33 is at row 1, column 1.
	b.Write8(0x3000+33, 5)
	b.Write8(0x3800+33, 2)

	frame := NewFrame()
	b.Render(frame)
	if got := frame.ColorIndexAt(8, 8); got != 4 {
		t.Errorf("pixel (8,8) = %d, want 4", got)
	}
	if got := frame.ColorIndexAt(15, 15); got != 1 {
		t.Errorf("pixel (15,15) = %d, want 1", got)
	}

	// Same code, bank 0 is blank.
	b.Write8(0x3800+33, 0)
	b.Render(frame)
	if got := frame.ColorIndexAt(8, 8); got != 0 {
		t.Errorf("pixel (8,8) after bank change = %d, want 0", got)
	}
	if got := frame.ColorIndexAt(15, 15); got != 0 {
		t.Errorf("pixel (15,15) after bank change = %d, want 0", got)
	}

	// Unused attribute bits are ignored.
	b.Write8(0x3800+33, 0xfe)
	b.Render(frame)
	if got := frame.ColorIndexAt(8, 8); got != 4 {
		t.Errorf("pixel (8,8) with attr fe = %d, want 4", got)
	}
}

func fillTilemap(b *Board) {
	for i := range uint16(hwdefs.NumTiles) {
		b.Write8(hwdefs.VideoRAMBase+i, uint8(i*7))
		b.Write8(hwdefs.ColorRAMBase+i, uint8(i>>4))
	}
}

func TestRenderDigest(t *testing.T) {
	b := newTestBoard(t)

	frame := NewFrame()
	b.Render(frame)
	if got, want := frameDigest(frame), blankFrameDigest; got != want {
		t.Errorf("blank frame digest = %s, want %s", got, want)
	}

	fillTilemap(b)
	b.Render(frame)
	if got, want := frameDigest(frame), filledFrameDigest; got != want {
		t.Errorf("filled frame digest = %s, want %s", got, want)
	}
}

// Rendering with dirty tracking must always give the same frame as a full
// redraw of the current memory content.
func TestRenderMatchesFullRedraw(t *testing.T) {
	b := newTestBoard(t)
	rng := rand.New(rand.NewPCG(1, 2))

	frames := []*image.Paletted{NewFrame(), NewFrame()}
	for i := range 50 {
		for range rng.IntN(64) {
			addr := uint16(hwdefs.VideoRAMBase + rng.IntN(0x400))
			if rng.IntN(2) == 1 {
				addr = uint16(hwdefs.ColorRAMBase + rng.IntN(0x400))
			}
			b.Write8(addr, uint8(rng.Uint32()))
		}

		// Alternate between 2 output buffers as the emulator does.
		frame := frames[i%2]
		b.Render(frame)

		full := NewVideo(b.VideoRAM.Data, b.ColorRAM.Data, b.Video.tiles)
		want := NewFrame()
		full.Render(want)

		if diff := cmp.Diff(want.Pix, frame.Pix); diff != "" {
			t.Fatalf("frame %d differs from full redraw", i)
		}
	}
}

func TestRenderSubImage(t *testing.T) {
	b := newTestBoard(t)
	fillTilemap(b)

	want := NewFrame()
	b.Render(want)

	big := image.NewPaletted(image.Rect(0, 0, hwdefs.ScreenW+16, hwdefs.ScreenH+16), Palette)
	sub := big.SubImage(image.Rect(8, 8, 8+hwdefs.ScreenW, 8+hwdefs.ScreenH)).(*image.Paletted)
	b.Render(sub)

	for y := range hwdefs.ScreenH {
		for x := range hwdefs.ScreenW {
			if got, want := sub.ColorIndexAt(8+x, 8+y), want.ColorIndexAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestTileSheet(t *testing.T) {
	b := newTestBoard(t)
	sheet := b.Video.tiles.Sheet()

	if got, want := sheet.Bounds(), image.Rect(0, 0, 512, 128); got != want {
		t.Fatalf("sheet bounds = %v, want %v", got, want)
	}

	// Bank 1, code 0x23: column 3, row 2 of the second bank grid.
	tile := b.Video.tiles.Tile(1, 0x23)
	for y := range 8 {
		for x := range 8 {
			if got, want := sheet.ColorIndexAt(128+3*8+x, 2*8+y), tile[y*8+x]; got != want {
				t.Fatalf("sheet pixel (%d,%d) of tile = %d, want %d", x, y, got, want)
			}
		}
	}
}

func BenchmarkRender(b *testing.B) {
	board := newTestBoard(b)
	fillTilemap(board)
	frame := NewFrame()

	b.Run("clean", func(b *testing.B) {
		for range b.N {
			board.Render(frame)
		}
	})
	b.Run("dirty", func(b *testing.B) {
		for range b.N {
			board.Video.InvalidateAll()
			board.Render(frame)
		}
	})
}

// SHA-1 of the frame pixels, for the test graphics region.
const (
	blankFrameDigest  = "262cf6a06c266134cc91af6c8ac038465bc3dc6b"
	filledFrameDigest = "9925bcb289e30a8f5f143fd3fd1896b9af3ead67"
)
