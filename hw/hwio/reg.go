package hwio

import (
	"fmt"

	"jubilee/emu/log"
)

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

func (f RWFlags) readable() bool { return f&WriteOnlyFlag == 0 }
func (f RWFlags) writable() bool { return f&ReadOnlyFlag == 0 }

// Reg8 is an 8-bit register. Bits set in RoMask are preserved by writes.
type Reg8 struct {
	Name   string
	Value  uint8
	RoMask uint8

	Flags   RWFlags
	ReadCb  func(val uint8) uint8
	PeekCb  func(val uint8) uint8
	WriteCb func(old uint8, val uint8)
}

func (reg Reg8) String() string {
	return fmt.Sprintf("%s=%02x", reg.Name, reg.Value)
}

func (reg *Reg8) Write8(addr uint16, val uint8) {
	if !reg.Flags.writable() {
		log.ModHwIo.DebugZ("write to readonly register").
			String("name", reg.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}

	old := reg.Value
	reg.Value = old&reg.RoMask | val&^reg.RoMask
	if reg.WriteCb != nil {
		reg.WriteCb(old, reg.Value)
	}
}

// Read8 returns the register value, or 0 for write-only registers. A peek
// has no side effect.
func (reg *Reg8) Read8(addr uint16, peek bool) uint8 {
	switch {
	case peek && reg.PeekCb != nil:
		return reg.PeekCb(reg.Value)
	case !reg.Flags.readable():
		if !peek {
			log.ModHwIo.DebugZ("read from writeonly register").
				String("name", reg.Name).
				Hex16("addr", addr).
				End()
		}
		return 0
	case !peek && reg.ReadCb != nil:
		return reg.ReadCb(reg.Value)
	}
	return reg.Value
}
