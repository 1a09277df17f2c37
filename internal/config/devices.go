package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

type devicesFile struct {
	Devices []deviceEntry `json:"devices"`
}

type deviceEntry struct {
	DeviceType             string     `json:"deviceType"`
	Hardware               string     `json:"hardware"`
	Name                   string     `json:"name"`
	Enabled                bool       `json:"enabled"`
	Pins                   []pinEntry `json:"pins"`
	TriggerGracePeriodSecs *int       `json:"triggerGracePeriodSecs,omitempty"`
}

type pinEntry struct {
	IOPin      string `json:"ioPin"`
	Identifier string `json:"identifier"`
}

// LoadDevicesConfig reads the devices configuration file into descriptors.
// Structural violations fail the whole load; the device manager handles
// per-device problems such as an unknown device type.
func LoadDevicesConfig(path string) ([]domain.DeviceDescriptor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open devices config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	var cfg devicesFile
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("cannot parse devices config: %w", err)
	}

	descriptors := make([]domain.DeviceDescriptor, 0, len(cfg.Devices))
	for i, entry := range cfg.Devices {
		descriptor, err := buildDescriptor(entry)
		if err != nil {
			return nil, fmt.Errorf("devices[%d]: %w", i, err)
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors, nil
}

func buildDescriptor(entry deviceEntry) (domain.DeviceDescriptor, error) {
	if entry.Name == "" {
		return domain.DeviceDescriptor{}, fmt.Errorf("name must not be empty")
	}
	if entry.DeviceType == "" {
		return domain.DeviceDescriptor{}, fmt.Errorf("deviceType must not be empty")
	}

	var hardware domain.HardwareRole
	switch entry.Hardware {
	case "sensor":
		hardware = domain.HardwareSensor
	case "siren":
		hardware = domain.HardwareSiren
	default:
		return domain.DeviceDescriptor{},
			fmt.Errorf("hardware %q must be sensor or siren", entry.Hardware)
	}

	pins := make([]domain.DevicePin, 0, len(entry.Pins))
	for _, pin := range entry.Pins {
		if !domain.IsAllowedPinLabel(pin.IOPin) {
			return domain.DeviceDescriptor{},
				fmt.Errorf("pin label %q is not in the allowed set", pin.IOPin)
		}
		if pin.Identifier == "" {
			return domain.DeviceDescriptor{}, fmt.Errorf("pin identifier must not be empty")
		}
		pins = append(pins, domain.DevicePin{
			Identifier: pin.Identifier,
			IOPin:      pin.IOPin,
		})
	}

	grace := 0
	if entry.TriggerGracePeriodSecs != nil {
		if *entry.TriggerGracePeriodSecs < 1 {
			return domain.DeviceDescriptor{},
				fmt.Errorf("triggerGracePeriodSecs must be >= 1 when present")
		}
		grace = *entry.TriggerGracePeriodSecs
	}

	return domain.DeviceDescriptor{
		Name:                   entry.Name,
		Hardware:               hardware,
		DeviceType:             entry.DeviceType,
		Pins:                   pins,
		Enabled:                entry.Enabled,
		TriggerGracePeriodSecs: grace,
	}, nil
}

type deviceTypesFile struct {
	DeviceTypes []deviceTypeEntry `json:"deviceTypes"`
}

type deviceTypeEntry struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// LoadDeviceTypesConfig reads the device-types configuration file.
func LoadDeviceTypesConfig(path string) ([]domain.DeviceTypeEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open device types config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	var cfg deviceTypesFile
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("cannot parse device types config: %w", err)
	}

	entries := make([]domain.DeviceTypeEntry, 0, len(cfg.DeviceTypes))
	for i, entry := range cfg.DeviceTypes {
		if entry.Name == "" {
			return nil, fmt.Errorf("deviceTypes[%d]: name must not be empty", i)
		}
		entries = append(entries, domain.DeviceTypeEntry{
			Name:    entry.Name,
			Enabled: entry.Enabled,
		})
	}
	return entries, nil
}
