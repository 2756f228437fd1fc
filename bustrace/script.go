// Package bustrace reads scripts of bus transactions and replays them on the
// board, standing for the CPU.
package bustrace

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/jx"

	"jubilee/hw"
)

type OpKind uint8

const (
	OpRead OpKind = iota
	OpWrite
	OpRead16
	OpWrite16
	OpCRURead
	OpCRUWrite
	OpFrame
	OpIRQ
	OpInput
)

var opNames = [...]string{
	OpRead:     "read",
	OpWrite:    "write",
	OpRead16:   "read16",
	OpWrite16:  "write16",
	OpCRURead:  "cru_read",
	OpCRUWrite: "cru_write",
	OpFrame:    "frame",
	OpIRQ:      "irq",
	OpInput:    "input",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "OpKind(" + strconv.Itoa(int(k)) + ")"
}

func parseOpKind(s string) (OpKind, error) {
	for k, name := range opNames {
		if name == s {
			return OpKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown op %q", s)
}

// An Op is a single step of a script.
type Op struct {
	Kind  OpKind
	Addr  uint16
	Val   uint16
	Count int          // frame
	Port  hw.InputPort // input

	HasWant bool
	Want    uint16 // for irq, 1 for asserted
}

func (op Op) String() string {
	switch op.Kind {
	case OpFrame:
		return fmt.Sprintf("frame %d", op.Count)
	case OpIRQ:
		return "irq"
	case OpInput:
		return fmt.Sprintf("input %s=%02x", op.Port, op.Val)
	case OpWrite, OpWrite16, OpCRUWrite:
		return fmt.Sprintf("%s %04x=%x", op.Kind, op.Addr, op.Val)
	}
	return fmt.Sprintf("%s %04x", op.Kind, op.Addr)
}

// A Script is a sequence of bus transactions. IRQ is the interrupt handler,
// run each time the CPU is given time while the interrupt line is asserted.
type Script struct {
	Name string
	Ops  []Op
	IRQ  []Op
}

// Open reads and parses a script file.
func Open(path string) (*Script, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse parses a JSON encoded script.
func Parse(data []byte) (*Script, error) {
	s := &Script{}
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			s.Name, err = d.Str()
		case "ops":
			s.Ops, err = decodeOps(d)
		case "irq":
			s.IRQ, err = decodeOps(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, op := range s.IRQ {
		if op.Kind == OpFrame {
			return nil, fmt.Errorf("irq: frame op not allowed in interrupt handler")
		}
	}
	return s, nil
}

func decodeOps(d *jx.Decoder) ([]Op, error) {
	var ops []Op
	err := d.Arr(func(d *jx.Decoder) error {
		op, err := decodeOp(d)
		if err != nil {
			return fmt.Errorf("op %d: %w", len(ops), err)
		}
		ops = append(ops, op)
		return nil
	})
	return ops, err
}

func decodeOp(d *jx.Decoder) (Op, error) {
	op := Op{Count: 1}
	var (
		hasKind bool
		hasAddr bool
		hasVal  bool
		hasPort bool
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var (
			err error
			v   uint64
		)
		switch key {
		case "op":
			var s string
			if s, err = d.Str(); err == nil {
				op.Kind, err = parseOpKind(s)
				hasKind = true
			}
		case "addr":
			v, err = decodeUint(d, 16)
			op.Addr = uint16(v)
			hasAddr = true
		case "val":
			v, err = decodeUint(d, 16)
			op.Val = uint16(v)
			hasVal = true
		case "count":
			v, err = decodeUint(d, 31)
			op.Count = int(v)
		case "port":
			var s string
			if s, err = d.Str(); err == nil {
				op.Port, err = parsePort(s)
				hasPort = true
			}
		case "want":
			op.HasWant = true
			if d.Next() == jx.Bool {
				var b bool
				b, err = d.Bool()
				if b {
					op.Want = 1
				}
				break
			}
			v, err = decodeUint(d, 16)
			op.Want = uint16(v)
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return op, err
	}

	if !hasKind {
		return op, fmt.Errorf("missing op")
	}
	switch op.Kind {
	case OpRead, OpRead16, OpCRURead:
		if !hasAddr {
			return op, fmt.Errorf("%s: missing addr", op.Kind)
		}
	case OpWrite, OpWrite16, OpCRUWrite:
		if !hasAddr || !hasVal {
			return op, fmt.Errorf("%s: missing addr or val", op.Kind)
		}
	case OpInput:
		if !hasPort || !hasVal {
			return op, fmt.Errorf("%s: missing port or val", op.Kind)
		}
	case OpFrame:
		if op.Count < 1 {
			return op, fmt.Errorf("frame: count must be positive")
		}
	}
	switch op.Kind {
	case OpWrite, OpInput:
		if op.Val > math.MaxUint8 {
			return op, fmt.Errorf("%s: value %#x does not fit in a byte", op.Kind, op.Val)
		}
	case OpRead, OpCRURead:
		if op.Want > math.MaxUint8 {
			return op, fmt.Errorf("%s: want %#x does not fit in a byte", op.Kind, op.Want)
		}
	case OpCRUWrite:
		if op.Val > 1 {
			return op, fmt.Errorf("%s: value %#x is not a bit", op.Kind, op.Val)
		}
	}
	return op, nil
}

// decodeUint decodes an unsigned integer, either a JSON number or a string
// holding a Go integer literal ("0x3000", "0b101", "42").
func decodeUint(d *jx.Decoder, bits int) (uint64, error) {
	var (
		v   uint64
		err error
	)
	switch d.Next() {
	case jx.String:
		var s string
		if s, err = d.Str(); err != nil {
			return 0, err
		}
		v, err = strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	case jx.Number:
		v, err = d.UInt64()
	default:
		return 0, fmt.Errorf("want number or string, got %s", d.Next())
	}
	if err != nil {
		return 0, err
	}
	if v>>bits != 0 {
		return 0, fmt.Errorf("value %#x overflows %d bits", v, bits)
	}
	return v, nil
}

func parsePort(s string) (hw.InputPort, error) {
	for p := range hw.NumInputPorts {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown input port %q", s)
}
