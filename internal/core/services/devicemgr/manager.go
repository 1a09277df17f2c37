// Package devicemgr owns the live set of hardware device instances: loading
// them from configuration, ticking them, and routing alarm-level events to
// them by hardware role.
package devicemgr

import (
	"log/slog"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/core/ports"
	"github.com/secure-shed/shedctl/internal/telemetry"
)

type liveDevice struct {
	name     string
	hardware domain.HardwareRole
	impl     ports.DeviceType
}

// Manager holds the live device set. No load failure is fatal: a device that
// cannot be used is warned about and skipped, the rest continue.
type Manager struct {
	driver   ports.PinDriver
	queue    ports.EventQueue
	registry Registry
	log      *slog.Logger
	devices  []liveDevice
}

// New creates an empty manager; call Load before the worker starts ticking.
func New(driver ports.PinDriver, queue ports.EventQueue, registry Registry, log *slog.Logger) *Manager {
	return &Manager{
		driver:   driver,
		queue:    queue,
		registry: registry,
		log:      log,
	}
}

// Load instantiates every usable device from the descriptors. deviceTypes is
// the device-types configuration: a type absent from it, or disabled in it,
// is not eligible.
func (m *Manager) Load(descriptors []domain.DeviceDescriptor, deviceTypes []domain.DeviceTypeEntry) {
	eligible := make(map[string]bool, len(deviceTypes))
	for _, t := range deviceTypes {
		if !t.Enabled {
			m.log.Warn("device type is disabled, not loading it", "type", t.Name)
			continue
		}
		if _, ok := m.registry[t.Name]; !ok {
			m.log.Warn("device type is not in the registry, skipping", "type", t.Name)
			continue
		}
		eligible[t.Name] = true
	}

	for _, desc := range descriptors {
		if !desc.Enabled {
			m.log.Warn("device is disabled, not loading it", "device", desc.Name)
			continue
		}
		if !eligible[desc.DeviceType] {
			m.log.Warn("ignoring device with invalid device type",
				"device", desc.Name, "type", desc.DeviceType)
			continue
		}

		impl := m.registry[desc.DeviceType](m.driver, m.queue, m.log)
		if !impl.Initialise(desc.Name, desc.Pins, desc.TriggerGracePeriodSecs) {
			m.log.Warn("device initialisation failed so it cannot be used",
				"device", desc.Name)
			continue
		}

		m.devices = append(m.devices, liveDevice{
			name:     desc.Name,
			hardware: desc.Hardware,
			impl:     impl,
		})
	}

	telemetry.LiveDevices.Set(float64(len(m.devices)))
}

// LiveCount returns the number of successfully loaded devices.
func (m *Manager) LiveCount() int {
	return len(m.devices)
}

// CheckDevices runs one polling pass: refresh the pin driver, then tick every
// live device.
func (m *Manager) CheckDevices() {
	m.driver.Refresh()
	for _, d := range m.devices {
		d.impl.CheckDevice()
	}
}

// ReceiveEvent routes alarm-level events by hardware role: siren commands to
// sirens, alarm set/unset to sensors.
func (m *Manager) ReceiveEvent(evt domain.Event) {
	switch evt.Kind {
	case domain.EventActivateSiren:
		for _, d := range m.roleDevices(domain.HardwareSiren) {
			m.log.Info("activating alarm siren", "device", d.name)
			d.impl.ReceiveEvent(evt)
		}

	case domain.EventDeactivateSiren:
		for _, d := range m.roleDevices(domain.HardwareSiren) {
			m.log.Info("deactivating alarm siren", "device", d.name)
			d.impl.ReceiveEvent(evt)
		}

	case domain.EventAlarmActivated, domain.EventAlarmDeactivated:
		for _, d := range m.roleDevices(domain.HardwareSensor) {
			d.impl.ReceiveEvent(evt)
		}
	}
}

// Cleanup releases GPIO resources. Called once, on the worker, at shutdown.
func (m *Manager) Cleanup() {
	m.log.Info("cleaning up hardware devices")
	m.driver.Cleanup()
}

func (m *Manager) roleDevices(role domain.HardwareRole) []liveDevice {
	matched := make([]liveDevice, 0, len(m.devices))
	for _, d := range m.devices {
		if d.hardware == role {
			matched = append(matched, d)
		}
	}
	return matched
}
