package hwio

import "jubilee/emu/log"

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = 1 // writes are dropped
)

// Mem is a linear memory area. The physical buffer size must be a power of
// 2, it is mirrored over VSize bytes when mapped.
type Mem struct {
	Name    string
	Data    []byte
	VSize   int
	Flags   MemFlags
	WriteCb func(addr uint16, val uint8) // called after each successful write
}

// BankIO8 returns the adaptor mapped into a Table.
func (m *Mem) BankIO8() BankIO8 {
	if len(m.Data) == 0 || len(m.Data)&(len(m.Data)-1) != 0 {
		panic("memory buffer size is not pow2: " + m.Name)
	}
	return &mem{Mem: m, mask: uint16(len(m.Data) - 1)}
}

// mem is used by pointer since Table stores it behind the BankIO8 interface.
type mem struct {
	*Mem
	mask uint16
}

func (m *mem) Read8(addr uint16, _ bool) uint8 {
	return m.Data[addr&m.mask]
}

func (m *mem) Write8(addr uint16, val uint8) {
	if m.Flags&MemFlagReadOnly != 0 {
		log.ModMem.DebugZ("write to readonly memory").
			String("name", m.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}

	m.Data[addr&m.mask] = val
	if m.WriteCb != nil {
		m.WriteCb(addr, val)
	}
}
