package bustrace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"jubilee/hw"
	"jubilee/hw/hwdefs"
)

func newBoard(t *testing.T) *hw.Board {
	t.Helper()
	prg := make([]byte, 0x4000)
	gfx := make([]byte, 0x6000)
	for i := range gfx {
		gfx[i] = byte(i)
	}
	b, err := hw.NewBoard(prg, gfx)
	require.NoError(t, err)
	return b
}

// play runs the script on a board, as the emulator loop does, and returns
// the number of frames it took.
func play(t *testing.T, b *hw.Board, p *Player) int {
	t.Helper()
	b.SetInterruptSink(p)
	b.PlugInputDevice(p)

	frames := 0
	for !p.Done() {
		p.Run(hwdefs.FrameCycles)
		b.FrameSync()
		frames++
		require.Less(t, frames, 1000, "script never ends")
	}
	return frames
}

func TestPlayHandshake(t *testing.T) {
	s, err := Open(filepath.Join("testdata", "handshake.json"))
	require.NoError(t, err)

	b := newBoard(t)
	p := NewPlayer(s, b)
	frames := play(t, b, p)

	require.NoError(t, p.Err())
	require.Equal(t, 4, frames)
	require.Equal(t, uint8(3), b.CRU.MuxSel)
	require.Equal(t, uint8(0x5a), b.NVRAM.Data[0])
	// Handler acknowledges the interrupt at each frame but the first.
	require.Equal(t, 3, p.IRQCount())
	require.Equal(t, int64(4*hwdefs.FrameCycles), p.Cycles())
}

func TestPlayMismatch(t *testing.T) {
	s, err := Parse([]byte(`{"ops":[
		{"op": "write", "addr": "0x3000", "val": 7},
		{"op": "read", "addr": "0x3000", "want": 8},
		{"op": "frame"},
		{"op": "irq", "want": false},
		{"op": "read", "addr": "0x3000", "want": 7}
	]}`))
	require.NoError(t, err)

	b := newBoard(t)
	p := NewPlayer(s, b)
	play(t, b, p)

	// No interrupt handler: the line stays asserted.
	err = p.Err()
	require.Error(t, err)
	var m Mismatch
	require.ErrorAs(t, err, &m)
	require.Equal(t, 1, m.Index)
	require.Equal(t, uint16(7), m.Got)
	require.ErrorContains(t, err, "op 3 (irq): got 0x1, want 0x0")
}

func TestPlayStopOnError(t *testing.T) {
	s, err := Parse([]byte(`{"ops":[
		{"op": "read", "addr": "0x3000", "want": 1},
		{"op": "write", "addr": "0x3000", "val": 2}
	]}`))
	require.NoError(t, err)

	b := newBoard(t)
	p := NewPlayer(s, b)
	p.StopOnError(true)
	play(t, b, p)

	require.Error(t, p.Err())
	require.Equal(t, uint8(0), b.Read8(0x3000))
}

func TestPlayBudget(t *testing.T) {
	var ops []Op
	for i := range 10 {
		ops = append(ops, Op{Kind: OpWrite, Addr: 0x3400 + uint16(i), Val: uint16(i + 1), Count: 1})
	}
	b := newBoard(t)
	p := NewPlayer(&Script{Ops: ops}, b)

	p.Run(3 * OpCycles)
	require.Equal(t, uint8(3), b.Read8(0x3402))
	require.Equal(t, uint8(0), b.Read8(0x3403))
	require.False(t, p.Done())

	p.Run(100 * OpCycles)
	require.Equal(t, uint8(10), b.Read8(0x3409))
	require.True(t, p.Done())
}

func TestPlayerReset(t *testing.T) {
	s := &Script{Ops: []Op{
		{Kind: OpInput, Port: hw.PortC, Val: 0x10, Count: 1},
		{Kind: OpFrame, Count: 2},
	}}
	p := NewPlayer(s, newBoard(t))
	p.Run(hwdefs.FrameCycles)
	require.Equal(t, uint8(0x10), p.ReadPort(hw.PortC))
	require.False(t, p.Done())

	p.Reset()
	require.Equal(t, uint8(0), p.ReadPort(hw.PortC))
	require.False(t, p.Done())
}
