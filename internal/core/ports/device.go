package ports

import "github.com/secure-shed/shedctl/internal/core/domain"

// DeviceType is the contract every device plug-in implements.
type DeviceType interface {
	// Initialise configures the device instance and claims its pins. A false
	// return removes the device from the live set; other devices continue.
	Initialise(deviceName string, pins []domain.DevicePin, graceSecs int) bool

	// CheckDevice is called on every worker tick. Sensors read their inputs
	// here and may publish SensorDeviceStateChange.
	CheckDevice()

	// ReceiveEvent delivers alarm-level events routed by the device manager.
	ReceiveEvent(evt domain.Event)
}

// PinDriver abstracts the GPIO layer. Pins are exclusive to a single device
// instance; reads are non-blocking.
type PinDriver interface {
	// SetupInput configures a pin as an input, optionally with pull-up.
	SetupInput(label string, pullUp bool) error

	// SetupOutput configures a pin as an output.
	SetupOutput(label string) error

	// Read returns the current logic level of an input pin.
	Read(label string) (domain.PinState, error)

	// Write drives an output pin.
	Write(label string, state domain.PinState) error

	// Refresh lets emulated implementations rescan their backing state.
	// Real hardware drivers treat it as a no-op.
	Refresh()

	// Cleanup releases all claimed pins. Called once at shutdown.
	Cleanup()
}
