package devicemgr

import (
	"log/slog"

	"github.com/secure-shed/shedctl/internal/adapters/devices"
	"github.com/secure-shed/shedctl/internal/core/ports"
)

// Constructor builds a device-type instance wired to its collaborators.
type Constructor func(driver ports.PinDriver, queue ports.EventQueue, log *slog.Logger) ports.DeviceType

// Registry maps a device-type name to its constructor. Dynamic plug-in
// loading collapses to this table: a name missing here is the single
// "unknown type" failure mode.
type Registry map[string]Constructor

// DefaultRegistry returns the built-in device types.
func DefaultRegistry() Registry {
	return Registry{
		"GenericAlarmSiren":     devices.NewGenericAlarmSiren,
		"MagneticContactSensor": devices.NewMagneticContactSensor,
	}
}
