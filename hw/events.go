package hw

// OutputEvent is a user request coming from the output window.
type OutputEvent uint8

const (
	EventQuit OutputEvent = iota + 1
	EventPause
	EventSoftReset
	EventHardReset
	EventSaveState
	EventLoadState
)
