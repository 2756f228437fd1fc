package hw

import (
	"jubilee/emu/log"
	"jubilee/hw/hwdefs"
)

// IRQ is the interrupt controller. The board only uses level 1, raised at
// each vertical blank and held until the program acknowledges it through
// the CRU.
type IRQ struct {
	sink InterruptSink
	line bool
}

// Assert raises the level 1 interrupt. Asserting an already asserted line
// has no effect.
func (irq *IRQ) Assert() {
	if irq.line {
		return
	}
	irq.line = true
	log.ModIRQ.DebugZ("assert").Int("level", hwdefs.IntLevel1).End()
	if irq.sink != nil {
		irq.sink.SetInterruptLine(hwdefs.IntLevel1, true)
	}
}

// Acknowledge clears the level 1 interrupt.
func (irq *IRQ) Acknowledge() {
	if irq.line {
		log.ModIRQ.DebugZ("clear").Int("level", hwdefs.IntLevel1).End()
	}
	irq.line = false
	if irq.sink != nil {
		irq.sink.SetInterruptLine(hwdefs.IntLevel1, false)
	}
}

// Asserted reports the state of the level 1 line.
func (irq *IRQ) Asserted() bool {
	return irq.line
}
