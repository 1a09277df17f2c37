package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind identifies an event on the controller's internal bus. The set is
// closed: queueing a kind with no registered handler is an error.
type EventKind int

const (
	EventKeypadKeyCodeEntered EventKind = iota
	EventSensorDeviceStateChange
	EventActivateSiren
	EventDeactivateSiren
	EventAlarmActivated
	EventAlarmDeactivated
	EventKeypadAPISendAlivePing
	EventKeypadAPISendKeypadLock
)

func (k EventKind) String() string {
	switch k {
	case EventKeypadKeyCodeEntered:
		return "KeypadKeyCodeEntered"
	case EventSensorDeviceStateChange:
		return "SensorDeviceStateChange"
	case EventActivateSiren:
		return "ActivateSiren"
	case EventDeactivateSiren:
		return "DeactivateSiren"
	case EventAlarmActivated:
		return "AlarmActivated"
	case EventAlarmDeactivated:
		return "AlarmDeactivated"
	case EventKeypadAPISendAlivePing:
		return "KeypadApiSendAlivePing"
	case EventKeypadAPISendKeypadLock:
		return "KeypadApiSendKeypadLock"
	}
	return "Unknown"
}

// Event is a (kind, body) pair flowing through the bus. ID is a uuid used
// only for log correlation; re-queued events keep their original ID.
type Event struct {
	ID   string
	Kind EventKind
	Body any
}

// NewEvent builds an event with a fresh correlation ID.
func NewEvent(kind EventKind, body any) Event {
	return Event{ID: uuid.NewString(), Kind: kind, Body: body}
}

// KeyCodeEnteredBody carries the digit sequence typed on the keypad.
type KeyCodeEnteredBody struct {
	KeySequence string
}

// SensorStateChangeBody is published by a sensor device when its triggered
// state changes while the alarm is live.
type SensorStateChangeBody struct {
	DeviceType string
	DeviceName string
	Triggered  bool
}

// AlarmActivatedBody is delivered to sensor devices when the alarm is set.
// NoGraceTime true means sensors must arm immediately, skipping the set
// grace period.
type AlarmActivatedBody struct {
	ActivationTime time.Time
	NoGraceTime    bool
}

// KeypadLockBody carries the absolute wall-clock unlock time (seconds since
// epoch) sent to the keypad controller.
type KeypadLockBody struct {
	LockTime int64
}
