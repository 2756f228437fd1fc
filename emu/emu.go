package emu

import (
	"fmt"
	"image"
	"os"
	"sync/atomic"
	"time"

	"jubilee/emu/log"
	"jubilee/hw"
	"jubilee/hw/hwdefs"
	"jubilee/hw/input"
	"jubilee/hw/output"
)

// CPU is the processor driving the board bus.
type CPU interface {
	Run(cycles int64)
}

type Output interface {
	BeginFrame() *image.Paletted
	EndFrame(*image.Paletted)
	Poll(handle func(hw.OutputEvent))
	Close() error
}

// An InputPoller samples host inputs once per frame.
type InputPoller interface {
	Poll()
}

type Emulator struct {
	Board *hw.Board
	CPU   CPU

	out    Output
	inputs InputPoller

	nvramDir  string
	statePath string

	// These are accessed concurrently by the emulator loop and the UI.
	quit      atomic.Bool
	paused    atomic.Bool
	reset     atomic.Bool
	restart   atomic.Bool
	saveState atomic.Bool
	loadState atomic.Bool
}

// New creates an emulator presenting the frames produced by board to out.
func New(board *hw.Board, cpu CPU, out Output) *Emulator {
	log.AddContext(board)
	return &Emulator{
		Board: board,
		CPU:   cpu,
		out:   out,
	}
}

// Launch shows the window, plugs the keyboard and game controllers into the
// board and restores the NVRAM. It doesn't start the emulation loop, call
// Run() for that.
func Launch(board *hw.Board, cpu CPU, cfg Config) (*Emulator, error) {
	out, err := output.New(output.Config{
		Title:          "Jubilee Double-Up Poker",
		Scale:          cfg.Video.Scale,
		Monitor:        cfg.Video.Monitor,
		DisableVSync:   cfg.Video.DisableVSync,
		NumBackBuffers: 2,
	})
	if err != nil {
		return nil, fmt.Errorf("output setup: %w", err)
	}

	inprov := input.NewProvider(cfg.Input)
	board.PlugInputDevice(inprov)

	if cfg.TraceOut != nil {
		board.SetTraceOutput(cfg.TraceOut)
	}

	e := New(board, cpu, out)
	e.inputs = inprov
	e.nvramDir = cfg.NVRAMDir()
	if err := LoadNVRAM(e.nvramDir, board.NVRAM.Data); err != nil {
		out.Close()
		return nil, fmt.Errorf("nvram: %w", err)
	}
	return e, nil
}

// SetStatePath sets the file used by save and load state requests.
func (e *Emulator) SetStatePath(path string) { e.statePath = path }

// RunOneFrame runs the CPU for a frame worth of cycles, renders and presents
// the frame then signals the vertical sync to the board.
func (e *Emulator) RunOneFrame() {
	if e.inputs != nil {
		e.inputs.Poll()
	}
	e.CPU.Run(hwdefs.FrameCycles)

	frame := e.out.BeginFrame()
	e.Board.Render(frame)
	e.out.EndFrame(frame)

	e.Board.FrameSync()
}

func (e *Emulator) loop() {
	for {
		e.out.Poll(e.handleEvent)
		if e.shouldStop() {
			break
		}

		if e.isPaused() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
		} else {
			e.RunOneFrame()
		}
		e.handleReset()
		e.handleState()
	}
}

// Run runs the emulation loop until the emulator is stopped, then persists
// the NVRAM and closes the output.
func (e *Emulator) Run() {
	start := time.Now()
	e.loop()
	log.ModEmu.InfoZ("Emulation loop exited").
		Uint64("frames", e.Board.Frame()).
		Duration("elapsed", time.Since(start)).
		End()

	if e.nvramDir != "" {
		if err := SaveNVRAM(e.nvramDir, e.Board.NVRAM.Data); err != nil {
			log.ModEmu.WarnZ("Failed to save nvram").Error("err", err).End()
		}
	}
	if c, ok := e.inputs.(interface{ Close() }); ok {
		c.Close()
	}
	if err := e.out.Close(); err != nil {
		log.ModEmu.WarnZ("Failed to close output").Error("err", err).End()
	}
	log.RemoveContext(e.Board)
}

func (e *Emulator) handleEvent(ev hw.OutputEvent) {
	switch ev {
	case hw.EventQuit:
		e.Stop()
	case hw.EventPause:
		e.SetPause(!e.isPaused())
	case hw.EventSoftReset:
		e.Reset()
	case hw.EventHardReset:
		e.Restart()
	case hw.EventSaveState:
		e.SaveState()
	case hw.EventLoadState:
		e.LoadState()
	}
}

// SetPause, Stop, Reset, Restart, SaveState and LoadState allow to control
// the emulator loop in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Restart()            { e.restart.Store(true) }
func (e *Emulator) SaveState()          { e.saveState.Store(true) }
func (e *Emulator) LoadState()          { e.loadState.Store(true) }
func (e *Emulator) Stop() {
	e.quit.Store(true)
}

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) shouldStop() bool {
	return e.quit.Load()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing soft reset").End()
		e.Board.Reset(hwdefs.SoftReset)
	} else if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing hard reset").End()
		e.Board.Reset(hwdefs.HardReset)
		if r, ok := e.CPU.(interface{ Reset() }); ok {
			r.Reset()
		}
	}
}

func (e *Emulator) handleState() {
	if e.saveState.CompareAndSwap(true, false) {
		if err := e.writeState(); err != nil {
			log.ModEmu.WarnZ("Failed to save state").Error("err", err).End()
		}
	}
	if e.loadState.CompareAndSwap(true, false) {
		if err := e.readState(); err != nil {
			log.ModEmu.WarnZ("Failed to load state").Error("err", err).End()
		}
	}
}

func (e *Emulator) writeState() error {
	if e.statePath == "" {
		return fmt.Errorf("no state file")
	}
	buf, err := e.Board.SaveSnapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(e.statePath, buf, 0644); err != nil {
		return err
	}
	log.ModEmu.InfoZ("State saved").String("path", e.statePath).Int("size", len(buf)).End()
	return nil
}

func (e *Emulator) readState() error {
	if e.statePath == "" {
		return fmt.Errorf("no state file")
	}
	buf, err := os.ReadFile(e.statePath)
	if err != nil {
		return err
	}
	if err := e.Board.LoadSnapshot(buf); err != nil {
		return fmt.Errorf("%s: %w", e.statePath, err)
	}
	log.ModEmu.InfoZ("State loaded").String("path", e.statePath).End()
	return nil
}
