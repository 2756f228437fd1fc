package hwdefs

import "time"

// Clocks. Only the master clock is confirmed, the dividers are guesses.
const (
	MasterClock = 6_000_000       // 6 MHz crystal
	CPUClock    = MasterClock / 2 // TMS9980A
	CRTCClock   = MasterClock / 4 // MC6845
	RefreshRate = 60              // frames per second
	FrameCycles = CPUClock / RefreshRate
)

// FrameDuration is the duration of one emulated frame.
const FrameDuration = time.Second / RefreshRate

// Screen and tilemap geometry.
const (
	TileSize   = 8  // tiles are 8x8 pixels
	TileCols   = 32 // columns in the tilemap
	TileRows   = 32 // rows in the tilemap
	NumTiles   = TileCols * TileRows
	ScreenW    = TileCols * TileSize
	ScreenH    = TileRows * TileSize
	NumGfxBank = 4
)

// CPU memory map. Addresses are masked with AddrMask before decoding.
const (
	AddrMask = 0x3FFF

	ROMBase      = 0x0000 // program ROM, $0000-$2FFF
	ROMSize      = 0x3000
	VideoRAMBase = 0x3000 // video RAM, $3000-$33FF (first half of the TC5517AP)
	NVRAMBase    = 0x3400 // working RAM, $3400-$37FF (second half of the TC5517AP, battery backed)
	ColorRAMBase = 0x3800 // attribute RAM, $3800-$3BFF (2114)
	CRTCBase     = 0x3E00 // MC6845, $3E00-$3E03
	RAMSize      = 0x400
)

// TMS9980A interrupt levels.
const (
	IntReset  = 0
	IntLevel1 = 1
	IntLevel2 = 2
	IntLevel3 = 3
	IntLevel4 = 4
)

const (
	SoftReset = true
	HardReset = false
)
