package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"jubilee/emu"
)

func main() {
	cfg := emu.LoadConfigOrDefault()
	args := parseArgs(os.Args[1:])

	switch args.mode {
	case runMode:
		runMain(args.Run, &cfg)
	case renderMode:
		renderMain(args.Render)
	case tilesMode:
		tilesMain(args.Tiles)
	case romInfosMode:
		romInfosMain(args.RomInfos)
	case versionMode:
		printVersion()
	}
}

func printVersion() {
	version := "(devel)"
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		version = bi.Main.Version
	}
	fmt.Println("jubilee", version)
}
