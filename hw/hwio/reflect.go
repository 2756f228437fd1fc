package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type bankReg struct {
	regPtr any
	offset uint16
}

// tag options of a single hwio-tagged field.
type regTag struct {
	offset    int // -1 if absent
	bank      int
	size      int
	vsize     int
	reset     uint64
	rwmask    uint64
	hasRWMask bool
	readonly  bool
	writeonly bool
	rcb       string
	wcb       string
	pcb       string
}

func parseTag(field, tag string) (regTag, error) {
	rt := regTag{offset: -1}
	upper := strings.ToUpper(field)

	for _, opt := range strings.Split(tag, ",") {
		if opt == "" {
			continue
		}
		key, val, hasVal := strings.Cut(opt, "=")

		parseNum := func() (uint64, error) {
			if !hasVal {
				return 0, fmt.Errorf("%s: option %q requires a value", field, key)
			}
			n, err := strconv.ParseUint(val, 0, 64)
			if err != nil {
				return 0, fmt.Errorf("%s: invalid %s value: %w", field, key, err)
			}
			return n, nil
		}
		cbName := func(prefix string) string {
			if hasVal {
				return val
			}
			return prefix + upper
		}

		var (
			n   uint64
			err error
		)
		switch key {
		case "offset":
			n, err = parseNum()
			rt.offset = int(n)
		case "bank":
			n, err = parseNum()
			rt.bank = int(n)
		case "size":
			n, err = parseNum()
			rt.size = int(n)
		case "vsize":
			n, err = parseNum()
			rt.vsize = int(n)
		case "reset":
			rt.reset, err = parseNum()
		case "rwmask":
			rt.rwmask, err = parseNum()
			rt.hasRWMask = true
		case "readonly":
			rt.readonly = true
		case "writeonly":
			rt.writeonly = true
		case "rcb":
			rt.rcb = cbName("Read")
		case "wcb":
			rt.wcb = cbName("Write")
		case "pcb":
			rt.pcb = cbName("Peek")
		default:
			return rt, fmt.Errorf("%s: unknown hwio option %q", field, key)
		}
		if err != nil {
			return rt, err
		}
	}

	if rt.readonly && rt.writeonly {
		return rt, fmt.Errorf("%s: readonly and writeonly are mutually exclusive", field)
	}
	return rt, nil
}

func (rt regTag) rwflags() RWFlags {
	switch {
	case rt.readonly:
		return ReadOnlyFlag
	case rt.writeonly:
		return WriteOnlyFlag
	}
	return ReadWriteFlag
}

// method returns the method called name on v, converted to a func of type T.
func method[T any](v reflect.Value, field, name string) (T, error) {
	var fn T
	m := v.MethodByName(name)
	if !m.IsValid() {
		return fn, fmt.Errorf("%s: missing callback method %s", field, name)
	}
	fn, ok := m.Interface().(T)
	if !ok {
		return fn, fmt.Errorf("%s: callback %s has type %s, want %T", field, name, m.Type(), fn)
	}
	return fn, nil
}

func initMem(v reflect.Value, name string, m *Mem, rt regTag) error {
	m.Name = name
	if rt.size != 0 && m.Data == nil {
		m.Data = make([]byte, rt.size)
	}
	if len(m.Data) == 0 {
		return fmt.Errorf("%s: memory has no size and no data", name)
	}
	if len(m.Data)&(len(m.Data)-1) != 0 {
		return fmt.Errorf("%s: memory size %#x is not pow2", name, len(m.Data))
	}

	m.VSize = rt.vsize
	if m.VSize == 0 {
		m.VSize = len(m.Data)
	}
	if rt.readonly {
		m.Flags |= MemFlagReadOnly
	}
	if rt.wcb != "" {
		cb, err := method[func(uint16, uint8)](v, name, rt.wcb)
		if err != nil {
			return err
		}
		m.WriteCb = cb
	}
	return nil
}

func initReg8(v reflect.Value, name string, r *Reg8, rt regTag) error {
	r.Name = name
	if rt.reset > 0xff {
		return fmt.Errorf("%s: reset value %#x too big", name, rt.reset)
	}
	if rt.rwmask > 0xff {
		return fmt.Errorf("%s: rwmask value %#x too big", name, rt.rwmask)
	}
	r.Value = uint8(rt.reset)
	if rt.hasRWMask {
		r.RoMask = ^uint8(rt.rwmask)
	}
	r.Flags = rt.rwflags()

	var err error
	if rt.rcb != "" {
		if r.ReadCb, err = method[func(uint8) uint8](v, name, rt.rcb); err != nil {
			return err
		}
	}
	if rt.pcb != "" {
		if r.PeekCb, err = method[func(uint8) uint8](v, name, rt.pcb); err != nil {
			return err
		}
	}
	if rt.wcb != "" {
		if r.WriteCb, err = method[func(uint8, uint8)](v, name, rt.wcb); err != nil {
			return err
		}
	}
	return nil
}

func initDevice(v reflect.Value, name string, d *Device, rt regTag) error {
	d.Name = name
	d.Size = rt.size
	if d.Size == 0 {
		return fmt.Errorf("%s: device has no size", name)
	}
	d.Flags = rt.rwflags()

	var err error
	if rt.rcb != "" {
		if d.ReadCb, err = method[func(uint16) uint8](v, name, rt.rcb); err != nil {
			return err
		}
	}
	if rt.pcb != "" {
		if d.PeekCb, err = method[func(uint16) uint8](v, name, rt.pcb); err != nil {
			return err
		}
	}
	if rt.wcb != "" {
		if d.WriteCb, err = method[func(uint16, uint8)](v, name, rt.wcb); err != nil {
			return err
		}
	}
	return nil
}

// walk calls fn for each hwio-tagged field of the struct pointed to by ptr.
func walk(ptr any, fn func(sf reflect.StructField, fv reflect.Value, rt regTag) error) error {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("hwio: %T is not a pointer to struct", ptr)
	}

	s := v.Elem()
	for i := range s.NumField() {
		sf := s.Type().Field(i)
		tag, ok := sf.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseTag(sf.Name, tag)
		if err != nil {
			return err
		}
		if err := fn(sf, s.Field(i), rt); err != nil {
			return err
		}
	}
	return nil
}

// InitRegs initializes all hwio-tagged fields of the struct pointed to by ptr,
// that is Mem, Reg8 and Device fields. Callbacks are methods of ptr, named
// after the field: ReadFIELD, WriteFIELD and PeekFIELD, unless a name is
// explicitly given, like in `pcb=PeekStatus`.
func InitRegs(ptr any) error {
	v := reflect.ValueOf(ptr)
	return walk(ptr, func(sf reflect.StructField, fv reflect.Value, rt regTag) error {
		switch r := fv.Addr().Interface().(type) {
		case *Mem:
			return initMem(v, sf.Name, r, rt)
		case *Reg8:
			return initReg8(v, sf.Name, r, rt)
		case *Device:
			return initDevice(v, sf.Name, r, rt)
		}
		return fmt.Errorf("%s: invalid hwio field type %s", sf.Name, sf.Type)
	})
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(ptr any) {
	if err := InitRegs(ptr); err != nil {
		panic(err)
	}
}

func bankGetRegs(ptr any, bankNum int) ([]bankReg, error) {
	var regs []bankReg
	err := walk(ptr, func(sf reflect.StructField, fv reflect.Value, rt regTag) error {
		if rt.offset < 0 || rt.bank != bankNum {
			return nil
		}
		regs = append(regs, bankReg{
			regPtr: fv.Addr().Interface(),
			offset: uint16(rt.offset),
		})
		return nil
	})
	return regs, err
}
