package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jubilee/bustrace"
	"jubilee/hw"
	"jubilee/hw/hwdefs"
)

func newTestBoard(tb testing.TB) *hw.Board {
	tb.Helper()
	gfx := make([]byte, 0x6000)
	for i := range gfx {
		gfx[i] = byte(i*37 + i>>5)
	}
	b, err := hw.NewBoard(make([]byte, 0x3000), gfx)
	if err != nil {
		tb.Fatal(err)
	}
	return b
}

// counterCPU writes the number of times it ran at the start of NVRAM.
type counterCPU struct {
	b      *hw.Board
	runs   int
	cycles int64
	resets int
}

func (c *counterCPU) Run(cycles int64) {
	c.runs++
	c.cycles += cycles
	c.b.Write8(hwdefs.NVRAMBase, uint8(c.runs))
}

func (c *counterCPU) Reset() { c.resets++ }

// scriptedOutput emits a list of events at each poll.
type scriptedOutput struct {
	*Headless
	events [][]hw.OutputEvent
	npoll  int
}

func (o *scriptedOutput) Poll(handle func(hw.OutputEvent)) {
	if o.npoll < len(o.events) {
		for _, ev := range o.events[o.npoll] {
			handle(ev)
		}
	}
	o.npoll++
}

func stopEmulator(e *Emulator) func() {
	return func() {
		e.Stop()
		e.Run()
	}
}

func TestRunOneFrame(t *testing.T) {
	script, err := bustrace.Parse([]byte(`{
  "irq": [{"op": "cru_write", "addr": "0x0ce2", "val": 1}],
  "ops": [
    {"op": "write", "addr": "0x3000", "val": "0x41"},
    {"op": "write", "addr": "0x3800", "val": 2},
    {"op": "write", "addr": "0x3021", "val": "0x7f"},
    {"op": "frame"},
    {"op": "irq", "want": false},
    {"op": "write", "addr": "0x3800", "val": 3}
  ]
}`))
	if err != nil {
		t.Fatal(err)
	}

	b := newTestBoard(t)
	cpu := bustrace.NewPlayer(script, b)
	b.SetInterruptSink(cpu)
	b.PlugInputDevice(cpu)

	out := NewHeadless()
	e := New(b, cpu, out)
	t.Cleanup(stopEmulator(e))
	for range 2 {
		e.RunOneFrame()
	}

	if err := cpu.Err(); err != nil {
		t.Fatal(err)
	}
	if !cpu.Done() {
		t.Errorf("script not finished")
	}
	if got := out.Frames(); got != 2 {
		t.Errorf("presented frames = %d, want 2", got)
	}
	if got := b.Frame(); got != 2 {
		t.Errorf("board frame = %d, want 2", got)
	}
	if got, want := cpu.Cycles(), int64(2*hwdefs.FrameCycles); got != want {
		t.Errorf("cpu cycles = %d, want %d", got, want)
	}

	want := hw.NewFrame()
	b.Render(want)
	if diff := cmp.Diff(want.Pix, out.Screenshot().Pix); diff != "" {
		t.Errorf("last frame differs from board content (-want +got):\n%s", diff)
	}
}

func TestLoopEvents(t *testing.T) {
	b := newTestBoard(t)
	cpu := &counterCPU{b: b}
	out := &scriptedOutput{
		Headless: NewHeadless(),
		events: [][]hw.OutputEvent{
			1: {hw.EventSaveState},
			3: {hw.EventLoadState},
			4: {hw.EventQuit},
		},
	}

	dir := t.TempDir()
	e := New(b, cpu, out)
	e.nvramDir = dir
	e.SetStatePath(filepath.Join(dir, "state.json"))
	e.Run()

	if cpu.runs != 4 {
		t.Errorf("cpu ran %d frames, want 4", cpu.runs)
	}
	// State saved after frame 2 and restored after frame 4.
	if got := b.Frame(); got != 2 {
		t.Errorf("board frame = %d, want 2", got)
	}
	if got := b.NVRAM.Data[0]; got != 2 {
		t.Errorf("nvram[0] = %d, want 2", got)
	}

	nv, err := os.ReadFile(filepath.Join(dir, nvramFilename))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(b.NVRAM.Data, nv); diff != "" {
		t.Errorf("persisted nvram (-want +got):\n%s", diff)
	}
}

func TestLoopPauseThenQuit(t *testing.T) {
	b := newTestBoard(t)
	cpu := &counterCPU{b: b}
	out := &scriptedOutput{
		Headless: NewHeadless(),
		events: [][]hw.OutputEvent{
			2: {hw.EventPause},
			3: {hw.EventPause},
			5: {hw.EventQuit},
		},
	}

	e := New(b, cpu, out)
	e.Run()

	// Only the frame following the pause request is skipped.
	if cpu.runs != 4 {
		t.Errorf("cpu ran %d frames, want 4", cpu.runs)
	}
	if e.isPaused() {
		t.Errorf("emulator still paused")
	}
}

func TestHandleReset(t *testing.T) {
	b := newTestBoard(t)
	cpu := &counterCPU{b: b}
	e := New(b, cpu, NewHeadless())
	t.Cleanup(stopEmulator(e))

	e.RunOneFrame()
	b.Write8(hwdefs.VideoRAMBase, 0x12)
	if !b.IRQ.Asserted() {
		t.Fatalf("irq not asserted after frame sync")
	}

	e.Reset()
	e.handleReset()
	if b.IRQ.Asserted() {
		t.Errorf("irq still asserted after soft reset")
	}
	if got := b.Frame(); got != 1 {
		t.Errorf("soft reset changed frame counter to %d", got)
	}
	if got := b.VideoRAM.Data[0]; got != 0x12 {
		t.Errorf("soft reset cleared video ram")
	}
	if cpu.resets != 0 {
		t.Errorf("soft reset reset the cpu")
	}

	e.RunOneFrame()
	e.Restart()
	e.handleReset()
	if b.IRQ.Asserted() {
		t.Errorf("irq still asserted after hard reset")
	}
	if got := b.Frame(); got != 0 {
		t.Errorf("frame counter = %d after hard reset, want 0", got)
	}
	if got := b.VideoRAM.Data[0]; got != 0 {
		t.Errorf("video ram not cleared by hard reset")
	}
	if got := b.NVRAM.Data[0]; got != 2 {
		t.Errorf("nvram[0] = %d after hard reset, want 2", got)
	}
	if cpu.resets != 1 {
		t.Errorf("cpu resets = %d, want 1", cpu.resets)
	}
}

func TestStateErrors(t *testing.T) {
	b := newTestBoard(t)
	e := New(b, &counterCPU{b: b}, NewHeadless())
	t.Cleanup(stopEmulator(e))

	if err := e.writeState(); err == nil {
		t.Errorf("writeState without path: got nil error")
	}

	path := filepath.Join(t.TempDir(), "state.json")
	e.SetStatePath(path)
	if err := e.readState(); err == nil {
		t.Errorf("readState of missing file: got nil error")
	}
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := e.readState(); err == nil {
		t.Errorf("readState of bad version: got nil error")
	}
}
