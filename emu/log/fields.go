package log

import (
	"fmt"
	"strconv"
	"time"
)

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindBool
	kindInt
	kindUint
	kindHex
	kindError
	kindDuration
	kindStringer
)

// ZField is a deferred log field. Numbers, booleans and durations all live
// in num; formatting happens only if the entry reaches the logger.
type ZField struct {
	Key   string
	kind  fieldKind
	width uint8 // hex digits
	num   uint64
	str   string
	iface any
}

func (f *ZField) Value() string {
	switch f.kind {
	case kindString:
		return f.str
	case kindBool:
		return strconv.FormatBool(f.num != 0)
	case kindInt:
		return strconv.FormatInt(int64(f.num), 10)
	case kindUint:
		return strconv.FormatUint(f.num, 10)
	case kindHex:
		mask := uint64(1)<<(4*uint(f.width)) - 1
		return fmt.Sprintf("%0*x", f.width, f.num&mask)
	case kindDuration:
		return time.Duration(f.num).String()
	case kindError:
		if f.iface == nil {
			return "<nil>"
		}
		return f.iface.(error).Error()
	case kindStringer:
		return f.iface.(fmt.Stringer).String()
	}
	return "?"
}
