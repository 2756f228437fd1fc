package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

type ControllerType uint8

const (
	UnsetController ControllerType = iota
	Keyboard
	ControllerButton
	ControllerAxis
)

// text prefix of each code type.
var typePrefix = [...]string{
	Keyboard:         "key",
	ControllerButton: "joybtn",
	ControllerAxis:   "joyaxis",
}

func (t ControllerType) String() string {
	switch t {
	case Keyboard:
		return "key"
	case ControllerButton:
		return "joy button"
	case ControllerAxis:
		return "joy axis"
	}
	return "not set"
}

// A Code identifies a host input bound to a cabinet button: a keyboard key,
// or a button or axis direction of a specific game controller.
type Code struct {
	Scancode sdl.Scancode

	CtrlGUID    string
	CtrlButton  sdl.GameControllerButton
	CtrlAxis    sdl.GameControllerAxis
	CtrlAxisDir int16

	Type ControllerType
}

// Name returns the SDL name of the key, button or axis.
func (c Code) Name() string {
	switch c.Type {
	case Keyboard:
		return sdl.GetScancodeName(c.Scancode)
	case ControllerButton:
		return sdl.GameControllerGetStringForButton(c.CtrlButton)
	case ControllerAxis:
		dir := "+"
		if c.CtrlAxisDir < 0 {
			dir = "-"
		}
		return sdl.GameControllerGetStringForAxis(c.CtrlAxis) + dir
	}
	return ""
}

// MarshalText encodes c as "key <name>", "joybtn <name> <guid>" or
// "joyaxis <name><+|-> <guid>". Key names may contain spaces.
func (c Code) MarshalText() ([]byte, error) {
	switch c.Type {
	case UnsetController:
		return nil, nil
	case Keyboard:
		return []byte(typePrefix[Keyboard] + " " + c.Name()), nil
	case ControllerButton, ControllerAxis:
		return fmt.Appendf(nil, "%s %s %s", typePrefix[c.Type], c.Name(), c.CtrlGUID), nil
	}
	return nil, fmt.Errorf("invalid controller type %d", c.Type)
}

func (c *Code) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	kind, rest, _ := strings.Cut(s, " ")
	rest = strings.TrimSpace(rest)

	*c = Code{}
	switch kind {
	case "":
		return nil

	case typePrefix[Keyboard]:
		if rest == "" {
			return fmt.Errorf("malformed key code: %q", s)
		}
		c.Scancode = sdl.GetScancodeFromName(rest)
		if c.Scancode == sdl.SCANCODE_UNKNOWN {
			return fmt.Errorf("unrecognized key %q", rest)
		}
		c.Type = Keyboard
		return nil

	case typePrefix[ControllerButton], typePrefix[ControllerAxis]:
		i := strings.LastIndexByte(rest, ' ')
		if i < 0 {
			return fmt.Errorf("malformed %s code, missing guid: %q", kind, s)
		}
		name, guid := strings.TrimSpace(rest[:i]), rest[i+1:]
		c.CtrlGUID = guid
		if kind == typePrefix[ControllerButton] {
			return c.parseButton(name)
		}
		return c.parseAxis(name)
	}
	return fmt.Errorf("unrecognized input code: %q", s)
}

func (c *Code) parseButton(name string) error {
	c.CtrlButton = sdl.GameControllerGetButtonFromString(name)
	if c.CtrlButton == sdl.CONTROLLER_BUTTON_INVALID {
		return fmt.Errorf("unrecognized button %q", name)
	}
	c.Type = ControllerButton
	return nil
}

func (c *Code) parseAxis(name string) error {
	switch {
	case strings.HasSuffix(name, "+"):
		c.CtrlAxisDir = 1
	case strings.HasSuffix(name, "-"):
		c.CtrlAxisDir = -1
	default:
		return fmt.Errorf("missing axis direction: %q", name)
	}
	c.CtrlAxis = sdl.GameControllerGetAxisFromString(name[:len(name)-1])
	if c.CtrlAxis == sdl.CONTROLLER_AXIS_INVALID {
		return fmt.Errorf("unrecognized axis %q", name)
	}
	c.Type = ControllerAxis
	return nil
}
