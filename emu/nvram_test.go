package emu

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNVRAMFirstBoot(t *testing.T) {
	buf := bytes.Repeat([]byte{0xaa}, 0x400)
	if err := LoadNVRAM(t.TempDir(), buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, make([]byte, 0x400)) {
		t.Errorf("nvram not zero-filled at first boot")
	}
}

func TestNVRAMRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub", "dir")
	src := make([]byte, 0x400)
	for i := range src {
		src[i] = byte(i * 3)
	}
	if err := SaveNVRAM(dir, src); err != nil {
		t.Fatal(err)
	}

	dst := make([]byte, 0x400)
	if err := LoadNVRAM(dir, dst); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src, dst) {
		t.Errorf("nvram content differs after reload")
	}

	// No temporary file left behind.
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(ents) != 1 || ents[0].Name() != nvramFilename {
		t.Errorf("unexpected directory content: %v", ents)
	}
}

func TestNVRAMSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, nvramFilename), make([]byte, 12), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadNVRAM(dir, make([]byte, 0x400)); err == nil {
		t.Errorf("got nil error for a truncated nvram file")
	}
}
