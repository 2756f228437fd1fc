package hwio

import "testing"

func TestReg8(t *testing.T) {
	var (
		r     = Reg8{Name: "r", Value: 0x11, RoMask: 0xF0}
		calls [][2]uint8
	)
	r.WriteCb = func(old, val uint8) { calls = append(calls, [2]uint8{old, val}) }

	for _, addr := range []uint16{0, 0xFFFF} {
		if got := r.Read8(addr, false); got != r.Value {
			t.Errorf("Read8(%04x) = %02x, want %02x", addr, got, r.Value)
		}
	}

	r.Write8(0, 0x77)
	r.Write8(0xFFFF, 0x88)
	if r.Value != 0x18 {
		t.Errorf("Value = %02x, want 18", r.Value)
	}
	want := [][2]uint8{{0x11, 0x17}, {0x17, 0x18}}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("write callback calls = %02x, want %02x", calls, want)
	}
	if s := r.String(); s != "r=18" {
		t.Errorf("String() = %q", s)
	}
}

func TestReg8Flags(t *testing.T) {
	wo := Reg8{Value: 0x42, Flags: WriteOnlyFlag}
	if got := wo.Read8(0, false); got != 0 {
		t.Errorf("Read8 from writeonly reg = %02x, want 0", got)
	}
	if got := wo.Read8(0, true); got != 0 {
		t.Errorf("Peek8 from writeonly reg = %02x, want 0", got)
	}
	wo.Write8(0, 0x24)
	if wo.Value != 0x24 {
		t.Errorf("writeonly reg value = %02x, want 24", wo.Value)
	}

	ro := Reg8{Value: 0x42, Flags: ReadOnlyFlag}
	ro.Write8(0, 0x24)
	if got := ro.Read8(0, false); got != 0x42 {
		t.Errorf("readonly reg = %02x, want 42", got)
	}
}
