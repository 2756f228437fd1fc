package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"jubilee/emu/log"
)

type mode byte

const (
	runMode      mode = iota // Run the board in a window
	renderMode               // Run headless and save a frame
	tilesMode                // Save the graphics banks
	romInfosMode             // Show ROM set checksums
	versionMode              // Show version
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run the board in a window."`
		Render   Render   `cmd:"" help:"Run the board headless and save the last frame as PNG."`
		Tiles    Tiles    `cmd:"" help:"Save the 4 graphics banks as PNG."`
		RomInfos RomInfos `cmd:"" help:"Verify ROM set checksums." name:"rom-infos"`
		Version  Version  `cmd:"" help:"Show Jubilee version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`

		mode mode
	}

	Run struct {
		RomSet string `arg:"" name:"romset" help:"${romset_help}" type:"path"`

		Script     string   `name:"script" help:"${script_help}" type:"existingfile" required:""`
		State      string   `name:"state" help:"Save state file. (F7 load, Shift+F7 save)" type:"path"`
		Scale      int      `name:"scale" help:"Window scale factor, overrides the configuration."`
		Monitor    int32    `name:"monitor" help:"Monitor index to use." default:"0"`
		NoVSync    bool     `name:"no-vsync" help:"Disable vertical synchronization."`
		CPUProfile string   `name:"cpuprofile" help:"${cpuprofile_help}" type:"path" placeholder:"DIR"`
		Trace      *outfile `name:"trace" help:"Write bus trace log." placeholder:"FILE|stdout|stderr"`
	}

	Render struct {
		RomSet string `arg:"" name:"romset" help:"${romset_help}" type:"path"`

		Script string   `name:"script" help:"${script_help}" type:"existingfile" required:""`
		Frames int      `name:"frames" help:"Minimum number of frames to run." default:"60"`
		Out    string   `name:"out" help:"Output PNG file." type:"path" default:"frame.png"`
		Scale  int      `name:"scale" help:"Output scale factor." default:"1"`
		Trace  *outfile `name:"trace" help:"Write bus trace log." placeholder:"FILE|stdout|stderr"`
	}

	Tiles struct {
		RomSet string `arg:"" name:"romset" help:"${romset_help}" type:"path"`

		Out   string `name:"out" help:"Output PNG file." type:"path" default:"tiles.png"`
		Scale int    `name:"scale" help:"Output scale factor." default:"2"`
	}

	RomInfos struct {
		RomSet string `arg:"" name:"romset" help:"${romset_help}" type:"path"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"romset_help":     "ROM set directory or zip archive.",
	"script_help":     "Bus script played as the CPU.",
	"cpuprofile_help": "Write CPU profile to directory.",
	"log_help":        "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("jubilee"),
		kong.Description("Jubilee Double-Up Poker board emulator."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch ctx.Command() {
	case "render <romset>":
		cfg.mode = renderMode
	case "tiles <romset>":
		cfg.mode = tilesMode
	case "rom-infos <romset>":
		cfg.mode = romInfosMode
	case "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	cmd := ctx.Command()
	if !strings.HasPrefix(cmd, "run") && !strings.HasPrefix(cmd, "render") {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("\nLog modules (--log, comma-separated):\n")
	for _, m := range log.ModuleNames() {
		fmt.Fprintf(&sb, "  %s\n", m)
	}
	sb.WriteString("  all   debug logs for every module\n")
	sb.WriteString("  no    no logs at all, not even errors\n")
	_, err := io.WriteString(os.Stderr, sb.String())
	return err
}

// logModMask is the --log flag. Decoding it enables debug logs for the
// listed modules.
type logModMask log.ModuleMask

// Decode implements kong.MapperValue.
func (lm *logModMask) Decode(ctx *kong.DecodeContext) error {
	var mask log.ModuleMask
	var all, none bool

	for _, name := range strings.Split(ctx.Scan.Pop().Value.(string), ",") {
		switch name {
		case "all":
			all = true
		case "no":
			none = true
		default:
			mod, ok := log.ModuleByName(name)
			if !ok {
				return fmt.Errorf("unknown log module %q", name)
			}
			mask |= mod.Mask()
		}
	}

	switch {
	case none && (all || mask != 0):
		return fmt.Errorf("'no' cannot be combined with other log modules")
	case none:
		log.Disable()
	case all:
		mask = log.ModuleMaskAll
	}
	*lm = logModMask(mask)
	log.EnableDebugModules(mask)
	return nil
}

// outfile is a FILE|stdout|stderr flag value.
type outfile struct {
	io.WriteCloser
	name string
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Decode implements kong.MapperValue.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	f.name = ctx.Scan.Pop().Value.(string)
	switch f.name {
	case "stdout":
		f.WriteCloser = nopCloser{os.Stdout}
	case "stderr":
		f.WriteCloser = nopCloser{os.Stderr}
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return fmt.Errorf("trace output: %w", err)
		}
		f.WriteCloser = fd
	}
	return nil
}

func (f *outfile) String() string { return f.name }

// checkf exits with an error message if err is not nil.
func checkf(err error, format string, args ...any) {
	if err != nil {
		fatalf("%s: %v", fmt.Sprintf(format, args...), err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "jubilee: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
