package emu

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/veandco/go-sdl2/sdl"

	"jubilee/hw/input"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)

	want := DefaultConfig()
	want.Video.Scale = 3
	want.Video.DisableVSync = true
	want.Machine.NVRAMDir = "/tmp/nv"
	want.Input.Buttons[input.DealStart] = input.Code{Type: input.Keyboard, Scancode: sdl.SCANCODE_SPACE}

	if err := saveConfig(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Config{}, "TraceOut")); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)
	const content = `
[video]
scale = 0
monitor = 1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Video.Scale != 1 {
		t.Errorf("scale = %d, want 1", cfg.Video.Scale)
	}
	if cfg.Video.Monitor != 1 {
		t.Errorf("monitor = %d, want 1", cfg.Video.Monitor)
	}
	// Missing sections keep their defaults.
	if diff := cmp.Diff(input.DefaultConfig(), cfg.Input); diff != "" {
		t.Errorf("input config (-want +got):\n%s", diff)
	}
}

func TestConfigMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), cfgFilename))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("loadConfig error = %v, want fs.ErrNotExist", err)
	}
}

func TestConfigNVRAMDir(t *testing.T) {
	cfg := Config{Machine: MachineConfig{NVRAMDir: "/some/dir"}}
	if got := cfg.NVRAMDir(); got != "/some/dir" {
		t.Errorf("NVRAMDir() = %q", got)
	}
}
