package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"jubilee/emu/log"
)

const nvramFilename = "jubileep.nv"

// LoadNVRAM fills dst with the content of the NVRAM file in dir. If there is
// no such file, it's the first boot and dst is zero-filled.
func LoadNVRAM(dir string, dst []byte) error {
	path := filepath.Join(dir, nvramFilename)
	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		clear(dst)
		log.ModEmu.InfoZ("no nvram, first boot").String("path", path).End()
		return nil
	}
	if err != nil {
		return err
	}
	if len(buf) != len(dst) {
		return fmt.Errorf("%s: size is %d bytes, want %d", path, len(buf), len(dst))
	}
	copy(dst, buf)
	log.ModEmu.InfoZ("loaded nvram").String("path", path).End()
	return nil
}

// SaveNVRAM writes src to the NVRAM file in dir.
func SaveNVRAM(dir string, src []byte) error {
	if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
		return err
	}

	// Write then rename so that a crash never leaves a truncated file.
	f, err := os.CreateTemp(dir, nvramFilename+".*")
	if err != nil {
		return err
	}
	if _, err := f.Write(src); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	path := filepath.Join(dir, nvramFilename)
	if err := os.Rename(f.Name(), path); err != nil {
		return err
	}
	log.ModEmu.InfoZ("saved nvram").String("path", path).End()
	return nil
}
