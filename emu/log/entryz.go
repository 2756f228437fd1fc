package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

const maxZFields = 16

// EntryZ is a log entry built field by field. All methods accept a nil
// receiver, which is what disabled modules return, so that a disabled log
// line costs a single comparison.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [maxZFields]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (z *EntryZ) add(f ZField) *EntryZ {
	if z == nil || z.zfidx == maxZFields {
		return z
	}
	z.zfbuf[z.zfidx] = f
	z.zfidx++
	return z
}

func (z *EntryZ) String(key, val string) *EntryZ {
	return z.add(ZField{Key: key, kind: kindString, str: val})
}

func (z *EntryZ) Bool(key string, val bool) *EntryZ {
	f := ZField{Key: key, kind: kindBool}
	if val {
		f.num = 1
	}
	return z.add(f)
}

func (z *EntryZ) Int(key string, val int) *EntryZ {
	return z.add(ZField{Key: key, kind: kindInt, num: uint64(val)})
}

func (z *EntryZ) Uint8(key string, val uint8) *EntryZ {
	return z.add(ZField{Key: key, kind: kindUint, num: uint64(val)})
}

func (z *EntryZ) Uint16(key string, val uint16) *EntryZ {
	return z.add(ZField{Key: key, kind: kindUint, num: uint64(val)})
}

func (z *EntryZ) Uint64(key string, val uint64) *EntryZ {
	return z.add(ZField{Key: key, kind: kindUint, num: val})
}

func (z *EntryZ) hex(key string, val uint64, width uint8) *EntryZ {
	return z.add(ZField{Key: key, kind: kindHex, width: width, num: val})
}

func (z *EntryZ) Hex8(key string, val uint8) *EntryZ   { return z.hex(key, uint64(val), 2) }
func (z *EntryZ) Hex16(key string, val uint16) *EntryZ { return z.hex(key, uint64(val), 4) }
func (z *EntryZ) Hex32(key string, val uint32) *EntryZ { return z.hex(key, uint64(val), 8) }

func (z *EntryZ) Error(key string, err error) *EntryZ {
	f := ZField{Key: key, kind: kindError}
	if err != nil {
		f.iface = err
	}
	return z.add(f)
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return z.add(ZField{Key: key, kind: kindDuration, num: uint64(d)})
}

func (z *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return z.add(ZField{Key: key, kind: kindStringer, iface: s})
}

// End emits the entry and gives it back to the pool.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	addContexts(z)

	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = z.mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}

	entry := logrus.StandardLogger().WithFields(fields)
	switch z.lvl {
	case DebugLevel:
		entry.Debug(z.msg)
	case InfoLevel:
		entry.Info(z.msg)
	case WarnLevel:
		entry.Warn(z.msg)
	case ErrorLevel:
		entry.Error(z.msg)
	case FatalLevel:
		entry.Fatal(z.msg)
	case PanicLevel:
		entry.Panic(z.msg)
	}

	*z = EntryZ{}
	entryPool.Put(z)
}
