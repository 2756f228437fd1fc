package log

import "slices"

type (
	Module     uint
	ModuleMask uint64
)

const ModuleMaskAll ModuleMask = ^ModuleMask(0)

// Board modules. Debug output is enabled per module, warnings and errors are
// always shown.
const (
	ModEmu Module = iota + 1
	ModCPU
	ModMem
	ModHwIo
	ModVideo
	ModInput
	ModCRU
	ModCRTC
	ModIRQ

	numModules
)

var modNames = [numModules]string{
	ModEmu:   "emu",
	ModCPU:   "cpu",
	ModMem:   "mem",
	ModHwIo:  "hwio",
	ModVideo: "video",
	ModInput: "input",
	ModCRU:   "cru",
	ModCRTC:  "crtc",
	ModIRQ:   "irq",
}

var (
	debugMask ModuleMask
	disabled  bool // nothing at all is logged
)

func ModuleByName(name string) (Module, bool) {
	for mod := ModEmu; mod < numModules; mod++ {
		if modNames[mod] == name {
			return mod, true
		}
	}
	return 0, false
}

// ModuleNames returns the sorted names of all modules.
func ModuleNames() []string {
	names := slices.Clone(modNames[ModEmu:])
	slices.Sort(names)
	return names
}

func (mod Module) String() string {
	if mod == 0 || mod >= numModules {
		return "<error>"
	}
	return modNames[mod]
}

func (mod Module) Mask() ModuleMask { return 1 << ModuleMask(mod) }

func EnableDebugModules(mask ModuleMask)  { debugMask |= mask }
func DisableDebugModules(mask ModuleMask) { debugMask &^= mask }

// Disable turns off all logging, whatever the level.
func Disable() { disabled = true }

func (mod Module) Enabled(level Level) bool {
	if disabled {
		return false
	}
	return level <= WarnLevel || debugMask&mod.Mask() != 0
}

// logz returns nil when mod is disabled at lvl.
func (mod Module) logz(lvl Level, msg string) *EntryZ {
	if !mod.Enabled(lvl) {
		return nil
	}
	e := NewEntryZ()
	e.mod, e.lvl, e.msg = mod, lvl, msg
	return e
}

func (mod Module) DebugZ(msg string) *EntryZ { return mod.logz(DebugLevel, msg) }
func (mod Module) InfoZ(msg string) *EntryZ  { return mod.logz(InfoLevel, msg) }
func (mod Module) WarnZ(msg string) *EntryZ  { return mod.logz(WarnLevel, msg) }
