package devices

import (
	"log/slog"
	"time"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/core/ports"
	"github.com/secure-shed/shedctl/internal/telemetry"
)

// SensorPinID is the pin identifier a contact-sensor descriptor must carry.
const SensorPinID = "sensorPin"

// SensorTypeName is the human-readable type reported in state-change events.
const SensorTypeName = "Magnetic Contact Sensor"

// MagneticContactSensor reads a door/window contact wired with a pull-up:
// the pin reads high when the contact is open. A private state machine
// implements the set/unset grace periods around alarm activation.
type MagneticContactSensor struct {
	driver ports.PinDriver
	queue  ports.EventQueue
	log    *slog.Logger
	now    func() time.Time

	deviceName string
	pin        string
	graceSecs  int

	state         domain.SensorState
	triggered     bool
	graceDeadline time.Time
}

// NewMagneticContactSensor creates an uninitialised contact-sensor plug-in.
func NewMagneticContactSensor(driver ports.PinDriver, queue ports.EventQueue, log *slog.Logger) ports.DeviceType {
	return &MagneticContactSensor{
		driver: driver,
		queue:  queue,
		log:    log,
		now:    time.Now,
		state:  domain.SensorAlarmInactive,
	}
}

// Initialise claims the sensor pin as a pulled-up input.
func (m *MagneticContactSensor) Initialise(deviceName string, pins []domain.DevicePin, graceSecs int) bool {
	m.deviceName = deviceName
	m.graceSecs = graceSecs

	if len(pins) != 1 {
		m.log.Warn("device has wrong pin count",
			"device", deviceName, "expected", 1, "actual", len(pins))
		return false
	}
	if pins[0].Identifier != SensorPinID {
		m.log.Warn("device is missing expected pin",
			"device", deviceName, "identifier", SensorPinID)
		return false
	}

	m.pin = pins[0].IOPin
	if err := m.driver.SetupInput(m.pin, true); err != nil {
		m.log.Warn("device pin setup failed",
			"device", deviceName, "pin", m.pin, "error", err)
		return false
	}
	return true
}

// CheckDevice samples the contact and advances the grace-period machine.
func (m *MagneticContactSensor) CheckDevice() {
	pinState, err := m.driver.Read(m.pin)
	if err != nil {
		m.log.Error("sensor read failed", "device", m.deviceName, "error", err)
		return
	}
	contactOpen := pinState == domain.PinHigh

	switch m.state {
	case domain.SensorAlarmSetPeriod:
		m.handleSetGracePeriod(contactOpen)

	case domain.SensorAlarmUnsetPeriod:
		m.handleUnsetGracePeriod()

	default:
		// Once triggered, contact changes are ignored until the alarm is
		// deactivated.
		if m.triggered {
			return
		}
		if m.triggered == contactOpen {
			return
		}

		stateMsg := "closed"
		if contactOpen {
			stateMsg = "opened"
		}

		if m.state == domain.SensorAlarmInactive {
			m.log.Info("contact changed while alarm inactive",
				"device", m.deviceName, "contact", stateMsg)
			m.triggered = contactOpen
			return
		}

		if m.graceSecs > 0 {
			m.state = domain.SensorAlarmUnsetPeriod
			m.graceDeadline = m.now().Add(time.Duration(m.graceSecs) * time.Second)
			m.log.Info("sensor triggered, entered unset grace period",
				"device", m.deviceName, "graceSecs", m.graceSecs)
			return
		}

		m.triggered = contactOpen
		m.log.Info("contact changed", "device", m.deviceName, "contact", stateMsg)
		m.publishStateChange()
	}
}

// ReceiveEvent arms or disarms the sensor when the alarm level changes.
func (m *MagneticContactSensor) ReceiveEvent(evt domain.Event) {
	switch evt.Kind {
	case domain.EventAlarmActivated:
		body, ok := evt.Body.(domain.AlarmActivatedBody)
		if !ok {
			return
		}
		m.triggered = false
		if body.NoGraceTime || m.graceSecs == 0 {
			m.state = domain.SensorAlarmActivate
			m.log.Info("alarm activated, device armed immediately",
				"device", m.deviceName)
			return
		}
		m.state = domain.SensorAlarmSetPeriod
		m.graceDeadline = body.ActivationTime.Add(time.Duration(m.graceSecs) * time.Second)
		m.log.Info("alarm activated, device in set grace period",
			"device", m.deviceName, "graceSecs", m.graceSecs)

	case domain.EventAlarmDeactivated:
		m.state = domain.SensorAlarmInactive
		m.triggered = false
	}
}

func (m *MagneticContactSensor) handleSetGracePeriod(contactOpen bool) {
	if !m.now().After(m.graceDeadline) {
		return
	}

	m.state = domain.SensorAlarmActivate
	m.log.Info("alarm set grace period ended", "device", m.deviceName)

	if contactOpen {
		m.log.Info("device caused alarm to trigger", "device", m.deviceName)
		m.triggered = true
		m.publishStateChange()
	}
}

func (m *MagneticContactSensor) handleUnsetGracePeriod() {
	if !m.now().After(m.graceDeadline) {
		return
	}

	m.log.Info("alarm unset grace period ended, alarm triggered",
		"device", m.deviceName)
	m.state = domain.SensorAlarmActivate
	m.triggered = true
	m.publishStateChange()
}

func (m *MagneticContactSensor) publishStateChange() {
	telemetry.SensorTriggers.WithLabelValues(m.deviceName).Inc()
	evt := domain.NewEvent(domain.EventSensorDeviceStateChange, domain.SensorStateChangeBody{
		DeviceType: SensorTypeName,
		DeviceName: m.deviceName,
		Triggered:  m.triggered,
	})
	if err := m.queue.Queue(evt); err != nil {
		m.log.Error("failed to queue sensor state change",
			"device", m.deviceName, "error", err)
	}
}
