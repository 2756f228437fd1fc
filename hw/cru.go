package hw

import (
	"jubilee/emu/log"
)

// CRU lines. Write addresses are the CPU CRU bit addresses, read lines are
// the ones the program polls.
const (
	cruIntAck  = 0x0CE2 // 1: clear the level 1 interrupt
	cruMuxSelA = 0x0CC2 // 1: select input port A
	cruMuxSelB = 0x0CC4 // 1: select input port B
	cruMuxSelC = 0x0CC6 // 1: select input port C

	cruMuxPort = 0x00C8 // multiplexed input port
)

// CRUUnknown is the value returned when reading a CRU line the board does
// not drive, or the multiplexed port while no port is selected.
const CRUUnknown = 0xFF

// CRU is the board logic connected to the CPU serial I/O bus. It drives the
// input port multiplexer and acknowledges interrupts.
type CRU struct {
	// MuxSel is the selected input port, 1 to 3, 0 when none has been
	// selected yet.
	MuxSel uint8

	irq   *IRQ
	input *InputPorts
}

// Write handles a single bit CRU write. Only the lowest bit of bit is
// significant. Writes to lines the board does not decode are ignored.
func (c *CRU) Write(addr uint16, bit uint8) {
	bit &= 1
	if bit == 1 {
		switch addr {
		case cruIntAck:
			log.ModCRU.DebugZ("interrupt acknowledge").End()
			c.irq.Acknowledge()
			return
		case cruMuxSelA, cruMuxSelB, cruMuxSelC:
			c.MuxSel = uint8(addr-cruMuxSelA)/2 + 1
			log.ModCRU.DebugZ("select input port").Uint8("mux", c.MuxSel).End()
			return
		}
	}

	log.ModCRU.DebugZ("unhandled write").
		Hex16("addr", addr).
		Uint8("bit", bit).
		End()
}

// Read handles a CRU read.
func (c *CRU) Read(addr uint16) uint8 {
	if addr == cruMuxPort {
		return c.ReadMux()
	}

	log.ModCRU.DebugZ("unhandled read").Hex16("addr", addr).End()
	return CRUUnknown
}

// ReadMux returns the state of the input port selected by the multiplexer.
func (c *CRU) ReadMux() uint8 {
	switch c.MuxSel {
	case 1:
		return c.input.Read(PortA)
	case 2:
		return c.input.Read(PortB)
	case 3:
		return c.input.Read(PortC)
	}
	return CRUUnknown
}
