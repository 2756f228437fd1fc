package hw

import (
	"fmt"

	"jubilee/hw/hwdefs"
	"jubilee/hw/mc6845"
	"jubilee/hw/snapshot"
)

// State captures the board state.
func (b *Board) State() *snapshot.Board {
	s := &snapshot.Board{
		Version:  snapshot.Version,
		Frame:    b.frame.Load(),
		VideoRAM: clone(b.VideoRAM.Data),
		NVRAM:    clone(b.NVRAM.Data),
		ColorRAM: clone(b.ColorRAM.Data),
		MuxSel:   b.CRU.MuxSel,
		IRQLine:  b.IRQ.line,
	}
	if c, ok := b.CRTC.(*mc6845.CRTC); ok {
		s.CRTC.Index = c.Address()
		s.CRTC.Regs = c.Regs()
	}
	return s
}

// SetState restores the board from s. The interrupt line state is forwarded
// to the interrupt sink.
func (b *Board) SetState(s *snapshot.Board) error {
	if s.Version != snapshot.Version {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	for _, ram := range []struct {
		name string
		buf  []byte
	}{
		{"video ram", s.VideoRAM},
		{"nvram", s.NVRAM},
		{"color ram", s.ColorRAM},
	} {
		if len(ram.buf) != hwdefs.RAMSize {
			return fmt.Errorf("%s: size %#x, want %#x", ram.name, len(ram.buf), hwdefs.RAMSize)
		}
	}
	if s.MuxSel > 3 {
		return fmt.Errorf("invalid mux selector %d", s.MuxSel)
	}

	b.frame.Store(s.Frame)
	copy(b.VideoRAM.Data, s.VideoRAM)
	copy(b.NVRAM.Data, s.NVRAM)
	copy(b.ColorRAM.Data, s.ColorRAM)
	b.CRU.MuxSel = s.MuxSel
	if c, ok := b.CRTC.(*mc6845.CRTC); ok {
		c.SetRegs(s.CRTC.Index, s.CRTC.Regs)
	}
	if s.IRQLine {
		b.IRQ.Assert()
	} else {
		b.IRQ.Acknowledge()
	}
	b.Video.InvalidateAll()
	return nil
}

// SaveSnapshot returns the board state, JSON encoded.
func (b *Board) SaveSnapshot() ([]byte, error) {
	return b.State().MarshalJSON()
}

// LoadSnapshot restores the board state from a JSON encoded snapshot.
func (b *Board) LoadSnapshot(buf []byte) error {
	var s snapshot.Board
	if err := s.UnmarshalJSON(buf); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return b.SetState(&s)
}

func clone(buf []byte) []byte {
	return append([]byte(nil), buf...)
}
