// Package devices holds the concrete device-type plug-ins loaded by the
// device manager's registry.
package devices

import (
	"log/slog"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/core/ports"
)

// SirenPinID is the pin identifier a siren descriptor must carry.
const SirenPinID = "sirenPin"

// GenericAlarmSiren drives a relay-backed siren. The pin idles high (siren
// off) and is driven low to sound.
type GenericAlarmSiren struct {
	driver     ports.PinDriver
	log        *slog.Logger
	deviceName string
	pin        string
}

// NewGenericAlarmSiren creates an uninitialised siren plug-in.
func NewGenericAlarmSiren(driver ports.PinDriver, _ ports.EventQueue, log *slog.Logger) ports.DeviceType {
	return &GenericAlarmSiren{driver: driver, log: log}
}

// Initialise claims the siren pin and drives it to the idle state.
func (s *GenericAlarmSiren) Initialise(deviceName string, pins []domain.DevicePin, _ int) bool {
	s.deviceName = deviceName

	if len(pins) != 1 {
		s.log.Warn("device has wrong pin count",
			"device", deviceName, "expected", 1, "actual", len(pins))
		return false
	}
	if pins[0].Identifier != SirenPinID {
		s.log.Warn("device is missing expected pin",
			"device", deviceName, "identifier", SirenPinID)
		return false
	}

	s.pin = pins[0].IOPin
	if err := s.driver.SetupOutput(s.pin); err != nil {
		s.log.Warn("device pin setup failed",
			"device", deviceName, "pin", s.pin, "error", err)
		return false
	}
	if err := s.driver.Write(s.pin, domain.PinHigh); err != nil {
		s.log.Warn("device pin write failed",
			"device", deviceName, "pin", s.pin, "error", err)
		return false
	}
	return true
}

// CheckDevice is a no-op; sirens are purely event driven.
func (s *GenericAlarmSiren) CheckDevice() {}

// ReceiveEvent sounds or silences the siren.
func (s *GenericAlarmSiren) ReceiveEvent(evt domain.Event) {
	switch evt.Kind {
	case domain.EventActivateSiren:
		if err := s.driver.Write(s.pin, domain.PinLow); err != nil {
			s.log.Error("failed to activate siren",
				"device", s.deviceName, "error", err)
		}
	case domain.EventDeactivateSiren:
		if err := s.driver.Write(s.pin, domain.PinHigh); err != nil {
			s.log.Error("failed to deactivate siren",
				"device", s.deviceName, "error", err)
		}
	}
}
