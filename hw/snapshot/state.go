// Package snapshot defines the serializable state of the board.
package snapshot

import (
	"fmt"

	"github.com/go-faster/jx"
)

// Version is the current snapshot format version.
const Version = 1

const numCRTCRegs = 18

type Board struct {
	Version int
	Frame   uint64

	VideoRAM []byte
	NVRAM    []byte
	ColorRAM []byte

	MuxSel  uint8
	IRQLine bool

	CRTC CRTC
}

type CRTC struct {
	Index uint8
	Regs  [numCRTCRegs]uint8
}

func (s *Board) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("version")
	e.Int(s.Version)
	e.FieldStart("frame")
	e.UInt64(s.Frame)
	e.FieldStart("video_ram")
	e.Base64(s.VideoRAM)
	e.FieldStart("nvram")
	e.Base64(s.NVRAM)
	e.FieldStart("color_ram")
	e.Base64(s.ColorRAM)
	e.FieldStart("mux_sel")
	e.UInt8(s.MuxSel)
	e.FieldStart("irq_line")
	e.Bool(s.IRQLine)
	e.FieldStart("crtc")
	s.CRTC.Encode(e)
	e.ObjEnd()
}

func (s *Board) Decode(d *jx.Decoder) error {
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			s.Version, err = d.Int()
		case "frame":
			s.Frame, err = d.UInt64()
		case "video_ram":
			s.VideoRAM, err = d.Base64()
		case "nvram":
			s.NVRAM, err = d.Base64()
		case "color_ram":
			s.ColorRAM, err = d.Base64()
		case "mux_sel":
			s.MuxSel, err = d.UInt8()
		case "irq_line":
			s.IRQLine, err = d.Bool()
		case "crtc":
			err = s.CRTC.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.Version != Version {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	return nil
}

func (s *Board) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return e.Bytes(), nil
}

func (s *Board) UnmarshalJSON(data []byte) error {
	return s.Decode(jx.DecodeBytes(data))
}

func (c *CRTC) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("index")
	e.UInt8(c.Index)
	e.FieldStart("regs")
	e.ArrStart()
	for _, r := range c.Regs {
		e.UInt8(r)
	}
	e.ArrEnd()
	e.ObjEnd()
}

func (c *CRTC) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "index":
			v, err := d.UInt8()
			c.Index = v
			return err
		case "regs":
			i := 0
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.UInt8()
				if err != nil {
					return err
				}
				if i >= len(c.Regs) {
					return fmt.Errorf("too many registers")
				}
				c.Regs[i] = v
				i++
				return nil
			})
		}
		return d.Skip()
	})
}
