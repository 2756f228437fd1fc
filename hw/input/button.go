package input

import "jubilee/hw"

//go:generate go tool stringer -type=Button

// A Button identifies a switch of the cabinet.
type Button uint8

const (
	CancelTake Button = iota
	BetGamble
	Hold4HalfGamble
	Hold5Red
	HandPay
	Hold1Black
	Hold2
	Hold3
	Attendant
	Bookkeeping
	Reset
	DealStart

	NumButtons
)

type wiring struct {
	port   hw.InputPort
	mask   uint8
	toggle bool // latched, flips at each press
}

// where each switch is wired, all active high.
var buttonWiring = [NumButtons]wiring{
	CancelTake:      {port: hw.PortA, mask: 0x01},
	BetGamble:       {port: hw.PortA, mask: 0x02},
	Hold4HalfGamble: {port: hw.PortA, mask: 0x04},
	Hold5Red:        {port: hw.PortA, mask: 0x08},
	HandPay:         {port: hw.PortA, mask: 0x10},
	Hold1Black:      {port: hw.PortA, mask: 0x20},
	Hold2:           {port: hw.PortA, mask: 0x40},
	Hold3:           {port: hw.PortA, mask: 0x80},
	Attendant:       {port: hw.PortB, mask: 0x40},
	Bookkeeping:     {port: hw.PortB, mask: 0x80, toggle: true},
	Reset:           {port: hw.PortC, mask: 0x01},
	DealStart:       {port: hw.PortC, mask: 0x10},
}

// Port returns the input port and bit mask of the button.
func (b Button) Port() (hw.InputPort, uint8) {
	w := buttonWiring[b]
	return w.port, w.mask
}
