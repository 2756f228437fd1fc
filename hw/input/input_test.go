package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/veandco/go-sdl2/sdl"

	"jubilee/hw"
)

func TestButtonWiring(t *testing.T) {
	// Each switch has its own bit.
	seen := map[hw.InputPort]uint8{}
	for b := range NumButtons {
		port, mask := b.Port()
		if mask == 0 || mask&(mask-1) != 0 {
			t.Errorf("%s: mask %02x is not a single bit", b, mask)
		}
		if seen[port]&mask != 0 {
			t.Errorf("%s: bit %02x of port %s already used", b, mask, port)
		}
		seen[port] |= mask
	}

	want := map[hw.InputPort]uint8{
		hw.PortA: 0xff,
		hw.PortB: 0xc0,
		hw.PortC: 0x11,
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("wired bits mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderPorts(t *testing.T) {
	keys := make([]uint8, sdl.NUM_SCANCODES)
	p := newProvider(keys, nil, DefaultConfig())

	read := func() [3]uint8 {
		return [3]uint8{p.ReadPort(hw.PortA), p.ReadPort(hw.PortB), p.ReadPort(hw.PortC)}
	}

	p.Poll()
	if got := read(); got != [3]uint8{} {
		t.Fatalf("ports with no key pressed = %02x", got)
	}

	keys[sdl.SCANCODE_Z] = 1 // hold 1
	keys[sdl.SCANCODE_B] = 1 // hold 5
	keys[sdl.SCANCODE_9] = 1 // attendant
	keys[sdl.SCANCODE_1] = 1 // deal
	p.Poll()
	if got, want := read(), [3]uint8{0x28, 0x40, 0x10}; got != want {
		t.Errorf("ports = %02x, want %02x", got, want)
	}

	// Sampled at poll time only.
	clear(keys)
	if got, want := read(), [3]uint8{0x28, 0x40, 0x10}; got != want {
		t.Errorf("ports before poll = %02x, want %02x", got, want)
	}
	p.Poll()
	if got := read(); got != [3]uint8{} {
		t.Errorf("ports after release = %02x, want 0", got)
	}
}

func TestProviderToggle(t *testing.T) {
	keys := make([]uint8, sdl.NUM_SCANCODES)
	p := newProvider(keys, nil, DefaultConfig())

	steps := []struct {
		down bool
		want uint8
	}{
		{false, 0x00},
		{true, 0x80}, // press: on
		{true, 0x80}, // held
		{false, 0x80},
		{true, 0x00}, // press: off
		{false, 0x00},
		{true, 0x80},
	}
	for i, s := range steps {
		keys[sdl.SCANCODE_0] = 0
		if s.down {
			keys[sdl.SCANCODE_0] = 1
		}
		p.Poll()
		if got := p.ReadPort(hw.PortB); got != s.want {
			t.Errorf("step %d: port B = %02x, want %02x", i, got, s.want)
		}
	}
}

func TestProviderUnboundButton(t *testing.T) {
	keys := make([]uint8, sdl.NUM_SCANCODES)
	cfg := DefaultConfig()
	cfg.Buttons[DealStart] = Code{}
	cfg.Buttons[Hold2] = Code{Type: ControllerButton, CtrlButton: sdl.CONTROLLER_BUTTON_A, CtrlGUID: "0300"}
	p := newProvider(keys, nil, cfg)

	keys[sdl.SCANCODE_1] = 1
	keys[sdl.SCANCODE_X] = 1
	p.Poll()
	if got := p.ReadPort(hw.PortC); got != 0 {
		t.Errorf("port C = %02x, want 0", got)
	}
	if got := p.ReadPort(hw.PortA); got != 0 {
		t.Errorf("port A = %02x, want 0", got)
	}
}

func TestDefaultKeyBindings(t *testing.T) {
	cfg := DefaultConfig()
	want := [NumButtons]string{
		CancelTake:      "key N",
		BetGamble:       "key M",
		Hold4HalfGamble: "key V",
		Hold5Red:        "key B",
		HandPay:         "key 8",
		Hold1Black:      "key Z",
		Hold2:           "key X",
		Hold3:           "key C",
		Attendant:       "key 9",
		Bookkeeping:     "key 0",
		Reset:           "key R",
		DealStart:       "key 1",
	}
	for b, code := range cfg.Buttons {
		text, err := code.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		if string(text) != want[b] {
			t.Errorf("%s: got %q, want %q", Button(b), text, want[b])
		}
	}
}
