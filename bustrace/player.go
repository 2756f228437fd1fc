package bustrace

import (
	"errors"
	"fmt"

	"jubilee/emu/log"
	"jubilee/hw"
	"jubilee/hw/hwdefs"
)

// Bus is the CPU view of the board.
type Bus interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
	Read16(addr uint16) uint16
	Write16(addr uint16, val uint16)
	ReadCRU(addr uint16) uint8
	WriteCRU(addr uint16, bit uint8)
}

// OpCycles is the number of CPU cycles charged for each transaction.
const OpCycles = 10

// A Mismatch is an op whose result differs from the expected value.
type Mismatch struct {
	Index int // in the op list, negative for the interrupt handler
	Op    Op
	Got   uint16
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("op %d (%s): got %#x, want %#x", m.Index, m.Op, m.Got, m.Want())
}

func (m Mismatch) Want() uint16 { return m.Op.Want }

// Player replays a script on a bus. It plays the role of the CPU: it receives
// the interrupt line changes and runs the script interrupt handler when the
// line is asserted. It also provides the input ports state set by the script.
type Player struct {
	bus    Bus
	script *Script

	pc        int  // next op
	wait      int  // frames to wait before resuming
	line      bool // interrupt line level 1
	ports     [hw.NumInputPorts]uint8
	cycles    int64 // total cycles consumed
	nirq      int   // interrupt handler runs
	errs      []error
	stopOnErr bool
}

func NewPlayer(s *Script, bus Bus) *Player {
	return &Player{script: s, bus: bus}
}

// StopOnError makes the player stop at the first mismatch.
func (p *Player) StopOnError(stop bool) {
	p.stopOnErr = stop
}

func (p *Player) SetInterruptLine(level int, asserted bool) {
	if level != hwdefs.IntLevel1 {
		return
	}
	p.line = asserted
}

func (p *Player) ReadPort(port hw.InputPort) uint8 {
	return p.ports[port]
}

// Reset restarts the script from the beginning.
func (p *Player) Reset() {
	p.pc = 0
	p.wait = 0
	p.line = false
	p.ports = [hw.NumInputPorts]uint8{}
	p.errs = nil
}

// Done reports whether all ops have been played.
func (p *Player) Done() bool {
	return (p.pc >= len(p.script.Ops) && p.wait == 0) || p.stopped()
}

func (p *Player) stopped() bool {
	return p.stopOnErr && len(p.errs) > 0
}

// Err returns all the mismatches seen so far.
func (p *Player) Err() error {
	return errors.Join(p.errs...)
}

// Cycles returns the number of cycles consumed since creation.
func (p *Player) Cycles() int64 { return p.cycles }

// Run gives the CPU the time of cycles. The interrupt handler runs first if
// the interrupt line is asserted, then ops are played until the budget is
// consumed, or a frame op is reached.
func (p *Player) Run(cycles int64) {
	if p.stopped() {
		return
	}

	budget := cycles
	if p.line && len(p.script.IRQ) > 0 {
		p.nirq++
		for i, op := range p.script.IRQ {
			p.exec(-1-i, op)
			budget -= OpCycles
		}
	}

	if p.wait > 0 {
		p.wait--
		p.cycles += cycles
		return
	}

	for p.pc < len(p.script.Ops) && budget > 0 && !p.stopped() {
		op := p.script.Ops[p.pc]
		p.pc++
		if op.Kind == OpFrame {
			p.wait = op.Count - 1
			break
		}
		p.exec(p.pc-1, op)
		budget -= OpCycles
	}
	p.cycles += cycles
}

func (p *Player) exec(idx int, op Op) {
	var got uint16
	switch op.Kind {
	case OpRead:
		got = uint16(p.bus.Read8(op.Addr))
	case OpWrite:
		p.bus.Write8(op.Addr, uint8(op.Val))
	case OpRead16:
		got = p.bus.Read16(op.Addr)
	case OpWrite16:
		p.bus.Write16(op.Addr, op.Val)
	case OpCRURead:
		got = uint16(p.bus.ReadCRU(op.Addr))
	case OpCRUWrite:
		p.bus.WriteCRU(op.Addr, uint8(op.Val))
	case OpIRQ:
		if p.line {
			got = 1
		}
	case OpInput:
		p.ports[op.Port] = uint8(op.Val)
	}

	if op.HasWant && got != op.Want {
		m := Mismatch{Index: idx, Op: op, Got: got}
		p.errs = append(p.errs, m)
		log.ModCPU.WarnZ("script mismatch").
			Int("op", idx).
			Stringer("kind", op.Kind).
			Hex16("addr", op.Addr).
			Hex16("got", got).
			Hex16("want", op.Want).
			End()
	}
}

// IRQCount returns the number of times the interrupt handler has run.
func (p *Player) IRQCount() int { return p.nirq }
