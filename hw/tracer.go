package hw

import (
	"fmt"
	"io"

	"jubilee/hw/hwdefs"
)

type traceOp uint8

const (
	traceRead8 traceOp = iota
	traceWrite8
	traceRead16
	traceWrite16
	traceCRURead
	traceCRUWrite
)

var traceOpNames = [...]string{
	traceRead8:    "R8 ",
	traceWrite8:   "W8 ",
	traceRead16:   "R16",
	traceWrite16:  "W16",
	traceCRURead:  "CRR",
	traceCRUWrite: "CRW",
}

// tracer writes one line per bus transaction.
type tracer struct {
	w   io.Writer
	buf []byte
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func (t *tracer) trace(frame uint64, op traceOp, addr, val uint16) {
	buf := fmt.Appendf(t.buf[:0], "F:%-6d %s ", frame, traceOpNames[op])

	var hex [4]byte
	hexEncode(hex[0:], byte(addr>>8))
	hexEncode(hex[2:], byte(addr))
	buf = append(buf, hex[:]...)
	buf = append(buf, ' ')

	switch op {
	case traceRead16, traceWrite16:
		hexEncode(hex[0:], byte(val>>8))
		hexEncode(hex[2:], byte(val))
		buf = append(buf, hex[:4]...)
	case traceCRUWrite:
		buf = append(buf, '0'+byte(val&1), ' ', ' ', ' ')
	default:
		hexEncode(hex[0:], byte(val))
		buf = append(buf, hex[:2]...)
		buf = append(buf, ' ', ' ')
	}

	if label := traceLabel(op, addr); label != "" {
		buf = append(buf, ' ')
		buf = append(buf, label...)
	}
	buf = append(buf, '\n')
	t.buf = buf
	t.w.Write(buf)
}

var cruLabels = map[uint16]string{
	cruIntAck:  "IntAck",
	cruMuxSelA: "MuxSelA",
	cruMuxSelB: "MuxSelB",
	cruMuxSelC: "MuxSelC",
	cruMuxPort: "MuxPort",
}

func traceLabel(op traceOp, addr uint16) string {
	if op == traceCRURead || op == traceCRUWrite {
		return cruLabels[addr]
	}

	addr &= hwdefs.AddrMask
	switch {
	case addr < hwdefs.ROMBase+hwdefs.ROMSize:
		return "ROM"
	case addr < hwdefs.NVRAMBase:
		return "VideoRAM"
	case addr < hwdefs.ColorRAMBase:
		return "NVRAM"
	case addr < hwdefs.ColorRAMBase+hwdefs.RAMSize:
		return "ColorRAM"
	case addr >= hwdefs.CRTCBase && addr < hwdefs.CRTCBase+2:
		return "CRTCAddr"
	case addr >= hwdefs.CRTCBase+2 && addr < hwdefs.CRTCBase+4:
		return "CRTCData"
	}
	return ""
}
