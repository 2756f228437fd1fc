// Package mc6845 implements the register file of the Motorola MC6845 CRT
// controller, as seen from the CPU.
package mc6845

import (
	"fmt"

	"jubilee/emu/log"
	"jubilee/hw/hwio"
)

const NumRegs = 18

// Register indices.
const (
	HTotal      = 0x00
	HDisplayed  = 0x01
	HSyncPos    = 0x02
	SyncWidth   = 0x03
	VTotal      = 0x04
	VTotalAdj   = 0x05
	VDisplayed  = 0x06
	VSyncPos    = 0x07
	ModeControl = 0x08
	MaxRasAddr  = 0x09
	CursorStart = 0x0A
	CursorEnd   = 0x0B
	StartAddrHi = 0x0C
	StartAddrLo = 0x0D
	CursorHi    = 0x0E
	CursorLo    = 0x0F
	LightPenHi  = 0x10
	LightPenLo  = 0x11
)

// writable bits of each register.
var writeMasks = [NumRegs]uint8{
	0xff, 0xff, 0xff, 0x0f, 0x7f, 0x1f, 0x7f, 0x7f, 0x03,
	0x1f, 0x7f, 0x1f, 0x3f, 0xff, 0x3f, 0xff, 0x00, 0x00,
}

// CRTC is a MC6845. The address register selects the register accessed by
// subsequent data reads and writes.
type CRTC struct {
	// Number of pixels per character clock.
	CharWidth int

	index uint8
	regs  [NumRegs]hwio.Reg8
}

func New(charWidth int) *CRTC {
	c := &CRTC{CharWidth: charWidth}
	for i := range c.regs {
		r := &c.regs[i]
		r.Name = fmt.Sprintf("R%d", i)
		r.RoMask = ^writeMasks[i]
		switch i {
		case CursorHi, CursorLo:
		case LightPenHi, LightPenLo:
			r.Flags = hwio.ReadOnlyFlag
		default:
			r.Flags = hwio.WriteOnlyFlag
		}
	}
	for _, i := range []int{HDisplayed, VDisplayed, MaxRasAddr} {
		c.regs[i].WriteCb = c.geometryChanged
	}
	return c
}

func (c *CRTC) Reset() {
	c.index = 0
	for i := range c.regs {
		c.regs[i].Value = 0
	}
}

// Status returns 0, the MC6845 has no status register.
func (c *CRTC) Status() uint8 {
	return 0
}

func (c *CRTC) SetAddress(val uint8) {
	c.index = val & 0x1f
}

func (c *CRTC) Address() uint8 {
	return c.index
}

// ReadRegister reads the currently selected register. Only cursor and light
// pen registers are readable, others read as 0.
func (c *CRTC) ReadRegister() uint8 {
	if int(c.index) >= NumRegs {
		return 0
	}
	return c.regs[c.index].Read8(uint16(c.index), false)
}

func (c *CRTC) WriteRegister(val uint8) {
	if int(c.index) >= NumRegs {
		log.ModCRTC.DebugZ("write to invalid register").
			Hex8("reg", c.index).
			Hex8("val", val).
			End()
		return
	}

	c.regs[c.index].Write8(uint16(c.index), val)
	log.ModCRTC.DebugZ("write register").
		Hex8("reg", c.index).
		Hex8("val", c.regs[c.index].Value).
		End()
}

func (c *CRTC) geometryChanged(old, val uint8) {
	if old == val {
		return
	}
	log.ModCRTC.DebugZ("geometry changed").Stringer("geom", c.Geometry()).End()
}

// Regs returns a copy of all registers.
func (c *CRTC) Regs() [NumRegs]uint8 {
	var regs [NumRegs]uint8
	for i := range c.regs {
		regs[i] = c.regs[i].Value
	}
	return regs
}

// SetRegs restores the address and all registers.
func (c *CRTC) SetRegs(index uint8, regs [NumRegs]uint8) {
	c.index = index & 0x1f
	for i := range regs {
		c.regs[i].Value = regs[i] & writeMasks[i]
	}
}

// Geometry describes the raster programmed into the CRTC, in pixels.
type Geometry struct {
	TotalW, TotalH     int
	VisibleW, VisibleH int
}

func (g Geometry) String() string {
	return fmt.Sprintf("total %dx%d, visible %dx%d", g.TotalW, g.TotalH, g.VisibleW, g.VisibleH)
}

// Geometry computes the raster size from the current register values.
func (c *CRTC) Geometry() Geometry {
	reg := func(i int) int { return int(c.regs[i].Value) }
	rows := reg(MaxRasAddr) + 1
	return Geometry{
		TotalW:   (reg(HTotal) + 1) * c.CharWidth,
		TotalH:   (reg(VTotal)+1)*rows + reg(VTotalAdj),
		VisibleW: reg(HDisplayed) * c.CharWidth,
		VisibleH: reg(VDisplayed) * rows,
	}
}
