package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"jubilee/emu/log"
)

// JoyAxisThreshold is the axis value, in [-32768, 32767], past which an axis
// direction is considered pressed.
const JoyAxisThreshold = 32000

// GameControllers holds the game controllers connected at startup, by GUID.
type GameControllers struct {
	byGUID map[string]*sdl.GameController
}

// NewGameControllers opens all the game controllers currently connected.
// Must be called on the SDL thread.
func NewGameControllers() *GameControllers {
	gcs := &GameControllers{byGUID: make(map[string]*sdl.GameController)}
	for i := range sdl.NumJoysticks() {
		if !sdl.IsGameController(i) {
			continue
		}
		c := sdl.GameControllerOpen(i)
		if c == nil {
			log.ModInput.WarnZ("failed to open controller").Int("index", i).End()
			continue
		}
		guid := sdl.JoystickGetGUIDString(c.Joystick().GUID())
		gcs.byGUID[guid] = c
		log.ModInput.InfoZ("found controller").
			String("name", c.Name()).
			String("guid", guid).
			End()
	}
	return gcs
}

// pressed reports whether the controller button or axis direction of code
// is active. Codes of disconnected controllers are never pressed.
func (gcs *GameControllers) pressed(code Code) bool {
	if gcs == nil {
		return false
	}
	c := gcs.byGUID[code.CtrlGUID]
	if c == nil {
		return false
	}
	switch code.Type {
	case ControllerButton:
		return c.Button(code.CtrlButton) != 0
	case ControllerAxis:
		v := c.Axis(code.CtrlAxis)
		if code.CtrlAxisDir < 0 {
			return v <= -JoyAxisThreshold
		}
		return v >= JoyAxisThreshold
	}
	return false
}

func (gcs *GameControllers) Close() {
	for _, c := range gcs.byGUID {
		c.Close()
	}
	clear(gcs.byGUID)
}
