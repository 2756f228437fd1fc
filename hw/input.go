package hw

//go:generate go tool stringer -type=InputPort -trimprefix=Port

// InputPort identifies one of the 3 multiplexed input ports.
type InputPort uint8

const (
	PortA InputPort = iota // IN0
	PortB                  // IN1
	PortC                  // IN2

	NumInputPorts
)

// An InputDevice provides the state of the board input ports. Each bit is
// a switch, the polarity being up to the device.
type InputDevice interface {
	ReadPort(port InputPort) uint8
}

// InputPorts connects the multiplexer to an InputDevice.
type InputPorts struct {
	dev InputDevice
}

// Read returns the state of port. With no device plugged, all switches read
// as released.
func (ip *InputPorts) Read(port InputPort) uint8 {
	if ip.dev == nil {
		return 0
	}
	return ip.dev.ReadPort(port)
}
