package hwio

import "jubilee/emu/log"

// Device serves a range of addresses through callbacks. Addresses passed to
// the callbacks are bus addresses, after the table global mask.
type Device struct {
	Name  string // for debugging
	Size  int
	Flags RWFlags

	ReadCb  func(addr uint16) uint8
	PeekCb  func(addr uint16) uint8
	WriteCb func(addr uint16, val uint8)
}

// Read8 forwards the read to ReadCb, or to PeekCb when peeking. Devices
// without the relevant callback read as OpenBus.
func (d *Device) Read8(addr uint16, peek bool) uint8 {
	if peek {
		if d.PeekCb == nil {
			return OpenBus
		}
		return d.PeekCb(addr)
	}
	if !d.Flags.readable() {
		log.ModHwIo.DebugZ("read from writeonly device").
			String("name", d.Name).
			Hex16("addr", addr).
			End()
		return OpenBus
	}
	if d.ReadCb == nil {
		return OpenBus
	}
	return d.ReadCb(addr)
}

func (d *Device) Write8(addr uint16, val uint8) {
	if !d.Flags.writable() {
		log.ModHwIo.DebugZ("write to readonly device").
			String("name", d.Name).
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		return
	}
	if d.WriteCb != nil {
		d.WriteCb(addr, val)
	}
}
