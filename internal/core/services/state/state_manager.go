// Package state holds the central controller's alarm state machine. The
// manager owns the authoritative alarm state; every transition happens here
// and nowhere else.
package state

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/core/ports"
	"github.com/secure-shed/shedctl/internal/logstore"
	"github.com/secure-shed/shedctl/internal/telemetry"
)

// KeypadClient is the outbound surface towards the keypad controller.
type KeypadClient interface {
	SendAlivePing(ctx context.Context) (int, error)
	SendKeypadLock(ctx context.Context, lockTime int64) (int, error)
}

// Manager consumes keypad and sensor events and produces siren, alarm and
// keypad-API events. All handlers run on the worker goroutine; the mutex only
// guards CurrentState reads from the HTTP surface.
type Manager struct {
	mu        sync.Mutex
	log       *slog.Logger
	store     ports.KeyCodeStore
	queue     ports.EventQueue
	keypad    KeypadClient
	responses domain.FailedAttemptResponses

	state          domain.AlarmState
	failedAttempts int

	// unableToConnLogged suppresses repeated transport-failure logs for the
	// alive ping until the next successful delivery.
	unableToConnLogged bool

	now func() time.Time
}

// New creates a manager in the Deactivated state.
func New(store ports.KeyCodeStore, queue ports.EventQueue, keypad KeypadClient,
	responses domain.FailedAttemptResponses, log *slog.Logger) *Manager {
	telemetry.AlarmState.Set(float64(domain.AlarmDeactivated))
	return &Manager{
		log:       log,
		store:     store,
		queue:     queue,
		keypad:    keypad,
		responses: responses,
		state:     domain.AlarmDeactivated,
		now:       time.Now,
	}
}

// CurrentState returns the alarm state for health reporting.
func (m *Manager) CurrentState() domain.AlarmState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// HandleKeypadEvent processes events originating from the keypad controller.
func (m *Manager) HandleKeypadEvent(ctx context.Context, evt domain.Event) {
	if evt.Kind == domain.EventKeypadKeyCodeEntered {
		body, ok := evt.Body.(domain.KeyCodeEnteredBody)
		if !ok {
			m.log.Error("key code event carried an unexpected body", "event", evt.ID)
			return
		}
		m.handleKeyCodeEntered(ctx, body.KeySequence)
	}
}

// HandleDeviceEvent processes events originating from sensor devices.
func (m *Manager) HandleDeviceEvent(evt domain.Event) {
	if evt.Kind == domain.EventSensorDeviceStateChange {
		body, ok := evt.Body.(domain.SensorStateChangeBody)
		if !ok {
			m.log.Error("sensor event carried an unexpected body", "event", evt.ID)
			return
		}
		m.handleSensorStateChange(body)
	}
}

func (m *Manager) handleKeyCodeEntered(ctx context.Context, keySequence string) {
	record, err := m.store.LookupKeyCode(ctx, keySequence)
	if err == nil {
		telemetry.KeyCodeAttempts.WithLabelValues("accepted").Inc()
		m.handleValidKeyCode(record)
		return
	}

	telemetry.KeyCodeAttempts.WithLabelValues("rejected").Inc()
	m.log.Info("an invalid key code was entered on keypad")

	m.mu.Lock()
	m.failedAttempts++
	attempts := m.failedAttempts
	m.mu.Unlock()

	actions, ok := m.responses[attempts]
	if !ok {
		return
	}

	for _, action := range actions {
		switch action.Type {
		case domain.ActionDisableKeyPad:
			lockTime := m.now().Unix() + int64(action.LockTime)
			telemetry.KeypadLockouts.Inc()
			m.queue.Queue(domain.NewEvent(domain.EventKeypadAPISendKeypadLock,
				domain.KeypadLockBody{LockTime: lockTime}))

		case domain.ActionTriggerAlarm:
			m.mu.Lock()
			triggered := m.state == domain.AlarmTriggered
			m.mu.Unlock()
			if !triggered {
				m.log.Info("alarm has been triggered by failed key code attempts")
				m.activateAlarm(true)
			}

		case domain.ActionResetAttemptAccount:
			m.mu.Lock()
			m.failedAttempts = 0
			m.mu.Unlock()
		}
	}
}

func (m *Manager) handleValidKeyCode(record *domain.KeyCodeRecord) {
	m.mu.Lock()
	current := m.state
	m.failedAttempts = 0
	m.mu.Unlock()

	if record.IsMasterKey {
		m.log.Info("a master key code was used")
	}

	switch current {
	case domain.AlarmTriggered:
		m.log.Info("a triggered alarm has been deactivated")
		m.queue.Queue(domain.NewEvent(domain.EventDeactivateSiren, nil))
		m.deactivateAlarm()

	case domain.AlarmDeactivated:
		m.log.Info("the alarm has been activated")
		m.activateAlarm(false)

	case domain.AlarmActivated:
		m.log.Info("the alarm has been deactivated")
		m.deactivateAlarm()
	}
}

func (m *Manager) handleSensorStateChange(body domain.SensorStateChangeBody) {
	stateStr := "closed"
	if body.Triggered {
		stateStr = "opened"
	}

	m.mu.Lock()
	current := m.state
	m.mu.Unlock()

	switch current {
	case domain.AlarmDeactivated:
		m.log.Info("sensor changed state while the alarm is off",
			"device", body.DeviceName, "state", stateStr)

	case domain.AlarmTriggered:
		m.log.Info("sensor changed state with the alarm already triggered",
			"device", body.DeviceName, "state", stateStr)

	case domain.AlarmActivated:
		m.log.Info("sensor activity has triggered the alarm",
			"device", body.DeviceName, "state", stateStr)
		m.setState(domain.AlarmTriggered)
		m.queue.Queue(domain.NewEvent(domain.EventActivateSiren, nil))
	}
}

// SendAlivePingMsg delivers the alive ping to the keypad. A transport failure
// re-queues the same event so a later tick retries it, logging the failure at
// most once until the next success. 401/403 mean a configuration error and
// are never retried.
func (m *Manager) SendAlivePingMsg(ctx context.Context, evt domain.Event) {
	status, err := m.keypad.SendAlivePing(ctx)
	if err != nil {
		telemetry.OutboundFailures.WithLabelValues("receiveCentralControllerPing", "transport").Inc()
		m.mu.Lock()
		logged := m.unableToConnLogged
		m.unableToConnLogged = true
		m.mu.Unlock()
		if !logged {
			m.log.Info("unable to connect to keypad controller", "error", err)
		}
		m.queue.Queue(evt)
		return
	}

	switch status {
	case http.StatusUnauthorized:
		telemetry.OutboundFailures.WithLabelValues("receiveCentralControllerPing", "unauthorised").Inc()
		m.log.Log(ctx, logstore.LevelCritical,
			"keypad rejected alive ping, authorisation key is missing")
		return
	case http.StatusForbidden:
		telemetry.OutboundFailures.WithLabelValues("receiveCentralControllerPing", "forbidden").Inc()
		m.log.Log(ctx, logstore.LevelCritical,
			"keypad rejected alive ping, authorisation key is invalid")
		return
	case http.StatusOK:
		m.log.Info("successfully sent alive ping to keypad controller")
	}

	m.mu.Lock()
	m.unableToConnLogged = false
	m.mu.Unlock()
}

// SendKeypadLockedMsg delivers a keypad lock command. Transport failures
// re-queue; 401/403 drop with a critical log.
func (m *Manager) SendKeypadLockedMsg(ctx context.Context, evt domain.Event) {
	body, ok := evt.Body.(domain.KeypadLockBody)
	if !ok {
		m.log.Error("keypad lock event carried an unexpected body", "event", evt.ID)
		return
	}

	status, err := m.keypad.SendKeypadLock(ctx, body.LockTime)
	if err != nil {
		telemetry.OutboundFailures.WithLabelValues("receiveKeypadLock", "transport").Inc()
		m.log.Debug("unable to deliver keypad lock, will retry", "error", err)
		m.queue.Queue(evt)
		return
	}

	switch status {
	case http.StatusUnauthorized:
		telemetry.OutboundFailures.WithLabelValues("receiveKeypadLock", "unauthorised").Inc()
		m.log.Log(ctx, logstore.LevelCritical,
			"keypad rejected lock command, authorisation key is missing")
	case http.StatusForbidden:
		telemetry.OutboundFailures.WithLabelValues("receiveKeypadLock", "forbidden").Inc()
		m.log.Log(ctx, logstore.LevelCritical,
			"keypad rejected lock command, authorisation key is invalid")
	case http.StatusOK:
		m.log.Debug("successfully delivered keypad lock command")
	}
}

func (m *Manager) activateAlarm(noGraceTime bool) {
	m.setState(domain.AlarmActivated)
	m.queue.Queue(domain.NewEvent(domain.EventAlarmActivated, domain.AlarmActivatedBody{
		ActivationTime: m.now(),
		NoGraceTime:    noGraceTime,
	}))
}

func (m *Manager) deactivateAlarm() {
	m.setState(domain.AlarmDeactivated)
	m.mu.Lock()
	m.failedAttempts = 0
	m.mu.Unlock()
	m.queue.Queue(domain.NewEvent(domain.EventAlarmDeactivated, nil))
}

func (m *Manager) setState(next domain.AlarmState) {
	m.mu.Lock()
	m.state = next
	m.mu.Unlock()
	telemetry.AlarmState.Set(float64(next))
}
