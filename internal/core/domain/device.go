package domain

// HardwareRole classifies a device for alarm-event routing.
type HardwareRole string

const (
	HardwareSensor HardwareRole = "sensor"
	HardwareSiren  HardwareRole = "siren"
)

// PinState is the logic level of a GPIO pin.
type PinState int

const (
	PinLow  PinState = 0
	PinHigh PinState = 1
)

// AllowedPinLabels is the fixed enumeration of GPIO labels a device may be
// assigned. Pin assignment is validated against this at configuration load.
var AllowedPinLabels = []string{
	"GPIO05", "GPIO06", "GPIO14", "GPIO15",
	"GPIO18", "GPIO23", "GPIO24", "GPIO25",
}

// IsAllowedPinLabel reports whether label is in the fixed pin enumeration.
func IsAllowedPinLabel(label string) bool {
	for _, l := range AllowedPinLabels {
		if l == label {
			return true
		}
	}
	return false
}

// DevicePin binds a role identifier (e.g. "sensorPin") to a GPIO label.
type DevicePin struct {
	Identifier string
	IOPin      string
}

// DeviceDescriptor is one entry of the devices configuration file. Built at
// boot, immutable thereafter.
type DeviceDescriptor struct {
	Name                   string
	Hardware               HardwareRole
	DeviceType             string
	Pins                   []DevicePin
	Enabled                bool
	TriggerGracePeriodSecs int // 0 means no grace period configured
}

// FindPin returns the pin with the given identifier, or false when absent.
func (d DeviceDescriptor) FindPin(identifier string) (DevicePin, bool) {
	for _, p := range d.Pins {
		if p.Identifier == identifier {
			return p, true
		}
	}
	return DevicePin{}, false
}

// DeviceTypeEntry is one entry of the device types configuration file.
type DeviceTypeEntry struct {
	Name    string
	Enabled bool
}
