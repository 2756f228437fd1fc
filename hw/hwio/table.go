package hwio

import (
	"fmt"
	"slices"

	"jubilee/emu/log"
)

// OpenBus is the value read from an unmapped address when the table has no
// Unmapped handler.
const OpenBus = 0x00

type BankIO8 interface {
	// Read8 reads a byte from the given address. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read8(addr uint16, peek bool) uint8
	Write8(addr uint16, val uint8)
}

// Write16 writes a 16-bit word as 2 byte accesses, most significant byte
// first (TMS99xx byte order). Word accesses ignore the address LSB.
func Write16(b BankIO8, addr uint16, val uint16) {
	addr &^= 1
	b.Write8(addr, uint8(val>>8))
	b.Write8(addr+1, uint8(val))
}

// Read16 reads a 16-bit word as 2 byte accesses, most significant byte
// first (TMS99xx byte order). Word accesses ignore the address LSB.
func Read16(b BankIO8, addr uint16) uint16 {
	addr &^= 1
	hi := b.Read8(addr, false)
	lo := b.Read8(addr+1, false)
	return uint16(hi)<<8 | uint16(lo)
}

// A span is a contiguous range of addresses [begin, end] served by io.
type span struct {
	begin, end uint16
	io         BankIO8
}

// Table is an address decoder: it routes every access to the device mapped
// at that address. Mapped ranges never overlap.
type Table struct {
	Name string

	// Unmapped, if set, serves all accesses to unmapped addresses.
	Unmapped BankIO8

	mask  uint16
	spans []span // sorted by address
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

// Reset unmaps everything and removes the global mask.
func (t *Table) Reset() {
	t.spans = nil
	t.mask = 0xFFFF
}

// SetGlobalMask sets the mask applied to every address before decoding,
// which mirrors the whole address space every mask+1 bytes.
func (t *Table) SetGlobalMask(mask uint16) {
	t.mask = mask
}

// MapBank maps the hwio-tagged Mem, Reg8 and Device fields of the struct
// pointed to by bank, at addr plus their offset. Only fields belonging to
// bank number bankNum are mapped. Tag options:
//
//	offset=0x12     offset from addr. Fields without offset are not mapped.
//	bank=N          bank number, 0 if absent.
func (t *Table) MapBank(addr uint16, bank any, bankNum int) {
	regs, err := bankGetRegs(bank, bankNum)
	if err != nil {
		panic(err)
	}

	for _, reg := range regs {
		switch r := reg.regPtr.(type) {
		case *Mem:
			t.MapMem(addr+reg.offset, r)
		case *Reg8:
			t.MapReg8(addr+reg.offset, r)
		case *Device:
			t.MapDevice(addr+reg.offset, r)
		default:
			panic(fmt.Errorf("invalid reg type: %T", r))
		}
	}
}

func (t *Table) mapBus8(addr, size uint16, io BankIO8) {
	if err := t.insert(addr, addr+size-1, io); err != nil {
		panic(err)
	}
}

func (t *Table) insert(begin, end uint16, io BankIO8) error {
	if end < begin {
		return fmt.Errorf("%s: invalid range [%04x-%04x]", t.Name, begin, end)
	}

	idx, _ := slices.BinarySearchFunc(t.spans, begin, func(s span, addr uint16) int {
		return int(s.begin) - int(addr)
	})
	if idx > 0 && t.spans[idx-1].end >= begin {
		prev := t.spans[idx-1]
		return fmt.Errorf("%s: range [%04x-%04x] overlaps [%04x-%04x]", t.Name, begin, end, prev.begin, prev.end)
	}
	if idx < len(t.spans) && t.spans[idx].begin <= end {
		next := t.spans[idx]
		return fmt.Errorf("%s: range [%04x-%04x] overlaps [%04x-%04x]", t.Name, begin, end, next.begin, next.end)
	}

	t.spans = slices.Insert(t.spans, idx, span{begin: begin, end: end, io: io})
	return nil
}

func (t *Table) MapReg8(addr uint16, io *Reg8) {
	t.mapBus8(addr, 1, io)
}

func (t *Table) MapDevice(addr uint16, io *Device) {
	log.ModHwIo.DebugZ("mapping device").
		Hex16("addr", addr).
		Hex16("size", uint16(io.Size)).
		String("area", io.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, uint16(io.Size), io)
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(mem.VSize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, uint16(mem.VSize), mem.BankIO8())
}

func (t *Table) search(addr uint16) BankIO8 {
	idx, found := slices.BinarySearchFunc(t.spans, addr, func(s span, addr uint16) int {
		switch {
		case s.end < addr:
			return -1
		case s.begin > addr:
			return 1
		}
		return 0
	})
	if !found {
		return nil
	}
	return t.spans[idx].io
}

// Read8 searches in the table for the device mapped at the given address and
// forward the read to it.
func (t *Table) Read8(addr uint16, peek bool) uint8 {
	addr &= t.mask
	io := t.search(addr)
	if io == nil {
		if !peek {
			log.ModMem.DebugZ("unmapped read").
				String("bus", t.Name).
				Hex16("addr", addr).
				End()
		}
		if t.Unmapped != nil {
			return t.Unmapped.Read8(addr, peek)
		}
		return OpenBus
	}
	return io.Read8(addr, peek)
}

// Peek8 is a convenience function.
func (t *Table) Peek8(addr uint16) uint8 {
	return t.Read8(addr, true)
}

func (t *Table) Write8(addr uint16, val uint8) {
	addr &= t.mask
	io := t.search(addr)
	if io == nil {
		log.ModMem.DebugZ("unmapped write").
			String("bus", t.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		if t.Unmapped != nil {
			t.Unmapped.Write8(addr, val)
		}
		return
	}
	io.Write8(addr, val)
}
