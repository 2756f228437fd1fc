package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"jubilee/emu/log"
	"jubilee/hw"
)

// Config holds the key bindings of the cabinet buttons.
type Config struct {
	Buttons [NumButtons]Code `toml:"buttons"`
}

func key(sc sdl.Scancode) Code {
	return Code{Type: Keyboard, Scancode: sc}
}

// DefaultConfig returns the default key bindings.
func DefaultConfig() Config {
	return Config{
		Buttons: [NumButtons]Code{
			CancelTake:      key(sdl.SCANCODE_N),
			BetGamble:       key(sdl.SCANCODE_M),
			Hold4HalfGamble: key(sdl.SCANCODE_V),
			Hold5Red:        key(sdl.SCANCODE_B),
			HandPay:         key(sdl.SCANCODE_8),
			Hold1Black:      key(sdl.SCANCODE_Z),
			Hold2:           key(sdl.SCANCODE_X),
			Hold3:           key(sdl.SCANCODE_C),
			Attendant:       key(sdl.SCANCODE_9),
			Bookkeeping:     key(sdl.SCANCODE_0),
			Reset:           key(sdl.SCANCODE_R),
			DealStart:       key(sdl.SCANCODE_1),
		},
	}
}

// Provider samples the keyboard and game controllers and provides the
// state of the board input ports.
type Provider struct {
	keystate []uint8
	ctrls    *GameControllers

	cfg Config

	down    [NumButtons]bool // at previous poll
	latched [NumButtons]bool // toggle switches state
	ports   [hw.NumInputPorts]uint8
}

func NewProvider(cfg Config) *Provider {
	var (
		keystate []uint8
		ctrls    *GameControllers
	)
	sdl.Do(func() {
		keystate = sdl.GetKeyboardState()
		ctrls = NewGameControllers()
	})
	return newProvider(keystate, ctrls, cfg)
}

func newProvider(keystate []uint8, ctrls *GameControllers, cfg Config) *Provider {
	return &Provider{
		keystate: keystate,
		ctrls:    ctrls,
		cfg:      cfg,
	}
}

func (p *Provider) isDown(code Code) bool {
	if code.Type == Keyboard {
		return int(code.Scancode) < len(p.keystate) && p.keystate[code.Scancode] != 0
	}
	return p.ctrls.pressed(code)
}

// Poll samples all the buttons. It must be called once per frame, toggle
// switches flip on the press edge.
func (p *Provider) Poll() {
	var ports [hw.NumInputPorts]uint8
	for b := range NumButtons {
		w := buttonWiring[b]
		down := p.isDown(p.cfg.Buttons[b])
		on := down
		if w.toggle {
			if down && !p.down[b] {
				p.latched[b] = !p.latched[b]
				log.ModInput.InfoZ("toggle switch").
					Stringer("button", b).
					Bool("on", p.latched[b]).
					End()
			}
			on = p.latched[b]
		}
		p.down[b] = down
		if on {
			ports[w.port] |= w.mask
		}
	}
	p.ports = ports
}

// ReadPort returns the state of port at the last poll.
func (p *Provider) ReadPort(port hw.InputPort) uint8 {
	return p.ports[port]
}

func (p *Provider) Close() {
	if p.ctrls != nil {
		sdl.Do(p.ctrls.Close)
	}
}
