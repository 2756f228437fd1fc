package hw

import (
	"fmt"
	"image"
	"io"
	"sync/atomic"

	"jubilee/emu/log"
	"jubilee/hw/hwdefs"
	"jubilee/hw/hwio"
	"jubilee/hw/mc6845"
)

// CRTC is the display controller, as seen from the CPU bus.
type CRTC interface {
	Status() uint8
	SetAddress(val uint8)
	ReadRegister() uint8
	WriteRegister(val uint8)
}

// InterruptSink receives the interrupt line changes, that's the CPU.
type InterruptSink interface {
	SetInterruptLine(level int, asserted bool)
}

// Board is the Jubilee logic board. It owns all the mutable state of the
// machine and exposes the memory and CRU buses to the CPU.
type Board struct {
	Bus *hwio.Table // CPU memory bus

	// $0000-$2FFF
	ROM hwio.Mem `hwio:"offset=0x0000,vsize=0x3000,readonly"`
	// $3000-$33FF
	VideoRAM hwio.Mem `hwio:"offset=0x3000,size=0x400,wcb"`
	// $3400-$37FF
	NVRAM hwio.Mem `hwio:"offset=0x3400,size=0x400"`
	// $3800-$3BFF
	ColorRAM hwio.Mem `hwio:"offset=0x3800,size=0x400,wcb"`
	// $3E00-$3E01: CRTC status (read) and address (write).
	CRTCAddr hwio.Device `hwio:"offset=0x3e00,size=0x2,rcb,wcb"`
	// $3E02-$3E03: CRTC register read/write.
	CRTCData hwio.Device `hwio:"offset=0x3e02,size=0x2,rcb,wcb"`

	CRTC  CRTC
	Video *Video
	CRU   CRU
	IRQ   IRQ
	Input InputPorts

	tracer *tracer
	frame  atomic.Uint64
}

// NewBoard creates a board at power-up state from the program and graphics
// ROM regions.
func NewBoard(prg, gfx []byte) (*Board, error) {
	if len(prg) > 0x4000 {
		return nil, fmt.Errorf("program rom too big: %d bytes", len(prg))
	}
	tiles, err := DecodeTiles(gfx)
	if err != nil {
		return nil, fmt.Errorf("graphics rom: %w", err)
	}

	b := &Board{
		Bus:  hwio.NewTable("cpu"),
		CRTC: mc6845.New(hwdefs.TileSize),
	}
	b.ROM.Data = make([]byte, 0x4000)
	copy(b.ROM.Data, prg)

	if err := hwio.InitRegs(b); err != nil {
		return nil, err
	}
	b.Bus.SetGlobalMask(hwdefs.AddrMask)
	b.Bus.MapBank(0x0000, b, 0)

	b.Video = NewVideo(b.VideoRAM.Data, b.ColorRAM.Data, tiles)
	b.CRU.irq = &b.IRQ
	b.CRU.input = &b.Input
	return b, nil
}

// SetInterruptSink connects the interrupt controller output to the CPU.
func (b *Board) SetInterruptSink(sink InterruptSink) {
	b.IRQ.sink = sink
}

func (b *Board) PlugInputDevice(dev InputDevice) {
	b.Input.dev = dev
}

// SetTraceOutput enables the trace of all bus transactions to w. A nil
// writer disables it.
func (b *Board) SetTraceOutput(w io.Writer) {
	if w == nil {
		b.tracer = nil
		return
	}
	b.tracer = &tracer{w: w}
}

// Reset resets the board. A hard reset is a power cycle: volatile memories,
// the input multiplexer and the display controller are cleared. The working
// RAM is battery backed and survives both.
func (b *Board) Reset(soft bool) {
	// Besides the CRU 0x0CE2 write, reset is the only way to clear the line.
	b.IRQ.Acknowledge()
	if soft {
		return
	}

	clear(b.VideoRAM.Data)
	clear(b.ColorRAM.Data)
	b.CRU.MuxSel = 0
	if c, ok := b.CRTC.(*mc6845.CRTC); ok {
		c.Reset()
	}
	b.Video.InvalidateAll()
	b.frame.Store(0)
}

// FrameSync signals the start of vertical blank. It triggers the level 1
// interrupt, once per frame.
func (b *Board) FrameSync() {
	b.frame.Add(1)
	b.IRQ.Assert()
}

// Frame returns the number of frames since power-up.
func (b *Board) Frame() uint64 { return b.frame.Load() }

// Render draws the current content of video and attribute RAM into dst.
func (b *Board) Render(dst *image.Paletted) {
	b.Video.Render(dst)
}

func (b *Board) AddLogContext(z *log.EntryZ) {
	z.Uint64("frame", b.frame.Load())
}

// CPU memory bus

func (b *Board) Read8(addr uint16) uint8 {
	val := b.Bus.Read8(addr, false)
	if b.tracer != nil {
		b.tracer.trace(b.frame.Load(), traceRead8, addr, uint16(val))
	}
	return val
}

// Peek8 reads memory without side effects.
func (b *Board) Peek8(addr uint16) uint8 {
	return b.Bus.Peek8(addr)
}

func (b *Board) Write8(addr uint16, val uint8) {
	if b.tracer != nil {
		b.tracer.trace(b.frame.Load(), traceWrite8, addr, uint16(val))
	}
	b.Bus.Write8(addr, val)
}

func (b *Board) Read16(addr uint16) uint16 {
	val := hwio.Read16(b.Bus, addr)
	if b.tracer != nil {
		b.tracer.trace(b.frame.Load(), traceRead16, addr&^1, val)
	}
	return val
}

func (b *Board) Write16(addr uint16, val uint16) {
	if b.tracer != nil {
		b.tracer.trace(b.frame.Load(), traceWrite16, addr&^1, val)
	}
	hwio.Write16(b.Bus, addr, val)
}

// CRU bus

func (b *Board) ReadCRU(addr uint16) uint8 {
	val := b.CRU.Read(addr)
	if b.tracer != nil {
		b.tracer.trace(b.frame.Load(), traceCRURead, addr, uint16(val))
	}
	return val
}

func (b *Board) WriteCRU(addr uint16, bit uint8) {
	if b.tracer != nil {
		b.tracer.trace(b.frame.Load(), traceCRUWrite, addr, uint16(bit&1))
	}
	b.CRU.Write(addr, bit)
}

// Memory mapped callbacks

// $3000-$33FF
func (b *Board) WriteVIDEORAM(addr uint16, _ uint8) {
	b.Video.Invalidate(addr)
}

// $3800-$3BFF
func (b *Board) WriteCOLORRAM(addr uint16, _ uint8) {
	b.Video.Invalidate(addr)
}

// $3E00-$3E01
func (b *Board) ReadCRTCADDR(_ uint16) uint8 {
	return b.CRTC.Status()
}

func (b *Board) WriteCRTCADDR(_ uint16, val uint8) {
	b.CRTC.SetAddress(val)
}

// $3E02-$3E03
func (b *Board) ReadCRTCDATA(_ uint16) uint8 {
	return b.CRTC.ReadRegister()
}

func (b *Board) WriteCRTCDATA(_ uint16, val uint8) {
	b.CRTC.WriteRegister(val)
}
