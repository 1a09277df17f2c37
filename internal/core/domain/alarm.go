package domain

// AlarmState is the authoritative alarm state held by the central controller.
// It is owned by the state manager; nothing else may transition it.
type AlarmState int

const (
	AlarmDeactivated AlarmState = iota
	AlarmActivated
	AlarmTriggered
)

func (s AlarmState) String() string {
	switch s {
	case AlarmDeactivated:
		return "Deactivated"
	case AlarmActivated:
		return "Activated"
	case AlarmTriggered:
		return "Triggered"
	}
	return "Unknown"
}

// SensorState is the private per-sensor state machine used by magnetic
// contact sensors to honour grace periods. It is distinct from AlarmState.
type SensorState int

const (
	SensorAlarmInactive SensorState = iota
	SensorAlarmSetPeriod
	SensorAlarmUnsetPeriod
	SensorAlarmActivate
)

func (s SensorState) String() string {
	switch s {
	case SensorAlarmInactive:
		return "AlarmInactive"
	case SensorAlarmSetPeriod:
		return "AlarmSetPeriod"
	case SensorAlarmUnsetPeriod:
		return "AlarmUnsetPeriod"
	case SensorAlarmActivate:
		return "AlarmActivate"
	}
	return "Unknown"
}

// PanelType selects which drawing surface the keypad controller shows.
type PanelType int

const (
	PanelKeypadIsLocked PanelType = iota
	PanelCommunicationsLost
	PanelKeypad
)

func (p PanelType) String() string {
	switch p {
	case PanelKeypadIsLocked:
		return "KeypadIsLocked"
	case PanelCommunicationsLost:
		return "CommunicationsLost"
	case PanelKeypad:
		return "Keypad"
	}
	return "Unknown"
}

// KeyCodeRecord is the detail row returned by the key-code store.
type KeyCodeRecord struct {
	IsMasterKey bool
}

// FailedAttemptActionType enumerates the configured responses to a run of
// consecutive failed key-code entries.
type FailedAttemptActionType string

const (
	ActionDisableKeyPad       FailedAttemptActionType = "disableKeyPad"
	ActionTriggerAlarm        FailedAttemptActionType = "triggerAlarm"
	ActionResetAttemptAccount FailedAttemptActionType = "resetAttemptAccount"
)

// FailedAttemptAction is one configured side effect. Only disableKeyPad
// carries a parameter (lockTime, in relative seconds at configuration level).
type FailedAttemptAction struct {
	Type     FailedAttemptActionType
	LockTime int
}

// FailedAttemptResponses maps a failed-attempt count to the actions executed
// when that count is reached. Immutable after configuration load.
type FailedAttemptResponses map[int][]FailedAttemptAction
