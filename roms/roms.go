// Package roms describes the ROM set of the board and loads it from a
// directory or a zip archive.
package roms

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"path"
	"runtime"

	"golang.org/x/sync/errgroup"

	"jubilee/emu/log"
)

// A Region is a memory area of the board filled by ROM chips.
type Region uint8

const (
	Program  Region = iota // CPU program, 0x4000 bytes
	Graphics               // 3 tile bitplanes, 0x6000 bytes
)

func (r Region) String() string {
	switch r {
	case Program:
		return "program"
	case Graphics:
		return "graphics"
	}
	return fmt.Sprintf("Region(%d)", r)
}

// File describes a ROM chip dump.
type File struct {
	Name   string
	Region Region
	Offset int
	Size   int
	CRC    uint32
	SHA1   string
}

// A Set is a complete collection of ROM dumps for a board.
type Set struct {
	Name         string
	Description  string
	ProgramSize  int
	GraphicsSize int
	Files        []File
}

// Jubileep is the Jubilee Double-Up Poker set.
var Jubileep = Set{
	Name:         "jubileep",
	Description:  "Jubilee Double-Up Poker",
	ProgramSize:  0x4000,
	GraphicsSize: 0x6000,
	Files: []File{
		{"1_ic59.bin", Program, 0x0000, 0x1000, 0x534c81c2, "4ce1d4492de9cbbc37e5a946b1183d8e8b0ba989"},
		{"2_ic58.bin", Program, 0x1000, 0x1000, 0x69984028, "c919a5cb43f23a0d9e496107997c74799709b347"},
		{"3_ic57.bin", Program, 0x2000, 0x1000, 0xc9ae423d, "8321e3e6fd60d92202b0c7b47e2a333a567b5c22"},
		{"ic49.bin", Graphics, 0x0000, 0x2000, 0xec65d259, "9e82e4043cbea26b91965a19507a5f00dc3ba01a"},
		{"ic48.bin", Graphics, 0x2000, 0x2000, 0x74e9ffd9, "7349fea72a349a58014b795ec6c29647e7159d39"},
		{"ic47.bin", Graphics, 0x4000, 0x2000, 0x55dc8482, "53f22bd66e5fcad5e2397998bc58109c3c19af96"},
	},
}

// Check is the verification result of a loaded file.
type Check struct {
	File File
	CRC  uint32
	SHA1 string
}

// OK reports whether the loaded file matches the expected checksums.
func (c Check) OK() bool {
	return c.CRC == c.File.CRC && c.SHA1 == c.File.SHA1
}

// Images holds the loaded memory regions.
type Images struct {
	Program  []byte
	Graphics []byte
	Checks   []Check // in set order
}

// Verified reports whether all files matched their checksums.
func (imgs *Images) Verified() bool {
	for _, c := range imgs.Checks {
		if !c.OK() {
			return false
		}
	}
	return true
}

// Load loads set from path, which is either a directory or a zip archive.
// Files are searched at the root and in a sub-directory named after the set.
// Missing files and size mismatches are errors, checksum mismatches are only
// reported in Images.Checks.
func Load(set *Set, path string) (*Images, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var fsys fs.FS
	if fi.IsDir() {
		fsys = os.DirFS(path)
	} else {
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		fsys = zr
	}

	imgs, err := LoadFS(set, fsys)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return imgs, nil
}

// LoadFS loads set from fsys.
func LoadFS(set *Set, fsys fs.FS) (*Images, error) {
	imgs := &Images{
		Program:  make([]byte, set.ProgramSize),
		Graphics: make([]byte, set.GraphicsSize),
		Checks:   make([]Check, len(set.Files)),
	}

	dsts := make([][]byte, len(set.Files))
	for i, f := range set.Files {
		region := imgs.Program
		if f.Region == Graphics {
			region = imgs.Graphics
		}
		if f.Offset < 0 || f.Offset+f.Size > len(region) {
			return nil, fmt.Errorf("%s: does not fit in %s region", f.Name, f.Region)
		}
		dsts[i] = region[f.Offset : f.Offset+f.Size]
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, f := range set.Files {
		dst := dsts[i]
		g.Go(func() error {
			chk, err := loadFile(fsys, set.Name, f, dst)
			if err != nil {
				return err
			}
			imgs.Checks[i] = chk
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range imgs.Checks {
		if !c.OK() {
			log.ModEmu.WarnZ("bad rom checksum").
				String("file", c.File.Name).
				Hex32("crc", c.CRC).
				Hex32("want", c.File.CRC).
				End()
		}
	}
	return imgs, nil
}

func openFile(fsys fs.FS, setname, name string) (fs.File, error) {
	f, err := fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		f, err = fsys.Open(path.Join(setname, name))
	}
	return f, err
}

func loadFile(fsys fs.FS, setname string, f File, dst []byte) (Check, error) {
	chk := Check{File: f}

	r, err := openFile(fsys, setname, f.Name)
	if err != nil {
		return chk, err
	}
	defer r.Close()

	buf, err := io.ReadAll(r)
	if err != nil {
		return chk, fmt.Errorf("%s: %w", f.Name, err)
	}
	if len(buf) != f.Size {
		return chk, fmt.Errorf("%s: size is %#x, want %#x", f.Name, len(buf), f.Size)
	}
	copy(dst, buf)

	sum := sha1.Sum(buf)
	chk.CRC = crc32.ChecksumIEEE(buf)
	chk.SHA1 = hex.EncodeToString(sum[:])

	log.ModEmu.DebugZ("loaded rom").
		String("file", f.Name).
		Stringer("region", f.Region).
		Hex32("crc", chk.CRC).
		End()
	return chk, nil
}
