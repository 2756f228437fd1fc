package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/profile"
	"github.com/veandco/go-sdl2/sdl"

	"jubilee/bustrace"
	"jubilee/emu"
	"jubilee/emu/log"
	"jubilee/hw"
	"jubilee/roms"
)

// powerUp loads the ROM set, builds the board and plugs the script player
// as its CPU.
func powerUp(romset, script string) (*hw.Board, *bustrace.Player, error) {
	imgs, err := loadROMs(romset)
	if err != nil {
		return nil, nil, err
	}
	board, err := hw.NewBoard(imgs.Program, imgs.Graphics)
	if err != nil {
		return nil, nil, fmt.Errorf("power up failed: %w", err)
	}

	s, err := bustrace.Open(script)
	if err != nil {
		return nil, nil, err
	}
	player := bustrace.NewPlayer(s, board)
	board.SetInterruptSink(player)
	return board, player, nil
}

func loadROMs(path string) (*roms.Images, error) {
	imgs, err := roms.Load(&roms.Jubileep, path)
	if err != nil {
		return nil, fmt.Errorf("error loading ROM set: %w", err)
	}
	if !imgs.Verified() {
		log.ModEmu.WarnZ("ROM set has bad dumps, run rom-infos for details").String("path", path).End()
	}
	return imgs, nil
}

// runMain runs the emulator in a window.
func runMain(args Run, cfg *emu.Config) {
	var exitcode int
	sdl.Main(func() {
		board, player, err := powerUp(args.RomSet, args.Script)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitcode = 1
			return
		}

		var traceout io.WriteCloser
		if args.Trace != nil {
			traceout = args.Trace
			defer traceout.Close()
		}

		cfg.TraceOut = traceout
		cfg.Video.Monitor = args.Monitor
		if args.Scale > 0 {
			cfg.Video.Scale = args.Scale
		}
		if args.NoVSync {
			cfg.Video.DisableVSync = true
		}

		emulator, err := emu.Launch(board, player, *cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start emulator: %v\n", err)
			exitcode = 1
			return
		}
		emulator.SetStatePath(args.State)

		if args.CPUProfile != "" {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(args.CPUProfile)).Stop()
		}

		emulator.Run()

		if err := player.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "script errors:\n%v\n", err)
			exitcode = 1
		}
	})
	os.Exit(exitcode)
}

// renderMain plays the script on a headless board for at least the
// requested number of frames and saves the last one.
func renderMain(args Render) {
	board, player, err := powerUp(args.RomSet, args.Script)
	checkf(err, "failed to power up")
	board.PlugInputDevice(player)

	if args.Trace != nil {
		board.SetTraceOutput(args.Trace)
		defer args.Trace.Close()
	}

	out := emu.NewHeadless()
	emulator := emu.New(board, player, out)
	for out.Frames() < args.Frames || !player.Done() {
		emulator.RunOneFrame()
	}
	emulator.Stop()
	emulator.Run()

	checkf(emu.SavePNG(emu.Upscale(out.Screenshot(), args.Scale), args.Out), "failed to save frame")
	fmt.Printf("frame %d written to %s\n", board.Frame(), args.Out)

	if err := player.Err(); err != nil {
		fatalf("script errors:\n%v", err)
	}
}

func tilesMain(args Tiles) {
	imgs, err := loadROMs(args.RomSet)
	checkf(err, "failed to load ROM set")

	tiles, err := hw.DecodeTiles(imgs.Graphics)
	checkf(err, "failed to decode graphics")
	checkf(emu.SavePNG(emu.Upscale(tiles.Sheet(), args.Scale), args.Out), "failed to save tiles")
	fmt.Println("tiles written to", args.Out)
}

func romInfosMain(args RomInfos) {
	imgs, err := roms.Load(&roms.Jubileep, args.RomSet)
	checkf(err, "failed to load ROM set")

	fmt.Printf("%s (%s)\n\n", roms.Jubileep.Description, roms.Jubileep.Name)
	checkf(imgs.WriteReport(os.Stdout), "failed to write report")
	if !imgs.Verified() {
		os.Exit(1)
	}
}
