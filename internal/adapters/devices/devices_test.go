package devices

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

type fakeDriver struct {
	states map[string]domain.PinState
	writes []domain.PinState
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{states: map[string]domain.PinState{}}
}

func (f *fakeDriver) SetupInput(label string, pullUp bool) error { return nil }
func (f *fakeDriver) SetupOutput(label string) error             { return nil }

func (f *fakeDriver) Read(label string) (domain.PinState, error) {
	return f.states[label], nil
}

func (f *fakeDriver) Write(label string, state domain.PinState) error {
	f.states[label] = state
	f.writes = append(f.writes, state)
	return nil
}

func (f *fakeDriver) Refresh() {}
func (f *fakeDriver) Cleanup() {}

type fakeQueue struct {
	events []domain.Event
}

func (f *fakeQueue) Queue(evt domain.Event) error {
	f.events = append(f.events, evt)
	return nil
}

func sensorPin() []domain.DevicePin {
	return []domain.DevicePin{{Identifier: SensorPinID, IOPin: "GPIO05"}}
}

func newSensor(t *testing.T, driver *fakeDriver, queue *fakeQueue, graceSecs int) *MagneticContactSensor {
	t.Helper()
	s := NewMagneticContactSensor(driver, queue, slog.Default()).(*MagneticContactSensor)
	require.True(t, s.Initialise("shedDoor", sensorPin(), graceSecs))
	return s
}

func TestSirenDrivesPinHighOnInit(t *testing.T) {
	driver := newFakeDriver()
	siren := NewGenericAlarmSiren(driver, nil, slog.Default())

	require.True(t, siren.Initialise("shedSiren",
		[]domain.DevicePin{{Identifier: SirenPinID, IOPin: "GPIO18"}}, 0))
	assert.Equal(t, domain.PinHigh, driver.states["GPIO18"])

	siren.ReceiveEvent(domain.NewEvent(domain.EventActivateSiren, nil))
	assert.Equal(t, domain.PinLow, driver.states["GPIO18"])

	siren.ReceiveEvent(domain.NewEvent(domain.EventDeactivateSiren, nil))
	assert.Equal(t, domain.PinHigh, driver.states["GPIO18"])
}

func TestSirenInitialiseRejectsBadPins(t *testing.T) {
	siren := NewGenericAlarmSiren(newFakeDriver(), nil, slog.Default())

	assert.False(t, siren.Initialise("s", nil, 0))
	assert.False(t, siren.Initialise("s",
		[]domain.DevicePin{{Identifier: "wrongPin", IOPin: "GPIO18"}}, 0))
}

func TestSensorSetGracePeriodHonoured(t *testing.T) {
	driver := newFakeDriver()
	queue := &fakeQueue{}
	sensor := newSensor(t, driver, queue, 10)

	activated := time.Now()
	clock := activated
	sensor.now = func() time.Time { return clock }

	sensor.ReceiveEvent(domain.NewEvent(domain.EventAlarmActivated,
		domain.AlarmActivatedBody{ActivationTime: activated, NoGraceTime: false}))
	assert.Equal(t, domain.SensorAlarmSetPeriod, sensor.state)

	// T+5: contact open inside the grace window, nothing published.
	clock = activated.Add(5 * time.Second)
	driver.states["GPIO05"] = domain.PinHigh
	sensor.CheckDevice()
	assert.Equal(t, domain.SensorAlarmSetPeriod, sensor.state)
	assert.Empty(t, queue.events)

	// T+11: grace expired and contact still open, one trigger published.
	clock = activated.Add(11 * time.Second)
	sensor.CheckDevice()
	assert.Equal(t, domain.SensorAlarmActivate, sensor.state)
	require.Len(t, queue.events, 1)
	body := queue.events[0].Body.(domain.SensorStateChangeBody)
	assert.Equal(t, "shedDoor", body.DeviceName)
	assert.True(t, body.Triggered)
}

func TestSensorSetGraceExpiryWithClosedContact(t *testing.T) {
	driver := newFakeDriver()
	queue := &fakeQueue{}
	sensor := newSensor(t, driver, queue, 10)

	activated := time.Now()
	clock := activated
	sensor.now = func() time.Time { return clock }

	sensor.ReceiveEvent(domain.NewEvent(domain.EventAlarmActivated,
		domain.AlarmActivatedBody{ActivationTime: activated}))

	clock = activated.Add(11 * time.Second)
	driver.states["GPIO05"] = domain.PinLow
	sensor.CheckDevice()

	assert.Equal(t, domain.SensorAlarmActivate, sensor.state)
	assert.Empty(t, queue.events)
}

func TestSensorNoGraceTimeArmsImmediately(t *testing.T) {
	driver := newFakeDriver()
	queue := &fakeQueue{}
	sensor := newSensor(t, driver, queue, 10)

	sensor.ReceiveEvent(domain.NewEvent(domain.EventAlarmActivated,
		domain.AlarmActivatedBody{ActivationTime: time.Now(), NoGraceTime: true}))
	assert.Equal(t, domain.SensorAlarmActivate, sensor.state)

	// Contact opens with a grace period configured: unset grace starts.
	driver.states["GPIO05"] = domain.PinHigh
	sensor.CheckDevice()
	assert.Equal(t, domain.SensorAlarmUnsetPeriod, sensor.state)
	assert.Empty(t, queue.events)
}

func TestSensorWithoutGraceTriggersOnOpen(t *testing.T) {
	driver := newFakeDriver()
	queue := &fakeQueue{}
	sensor := newSensor(t, driver, queue, 0)

	sensor.ReceiveEvent(domain.NewEvent(domain.EventAlarmActivated,
		domain.AlarmActivatedBody{ActivationTime: time.Now()}))
	assert.Equal(t, domain.SensorAlarmActivate, sensor.state)

	driver.states["GPIO05"] = domain.PinHigh
	sensor.CheckDevice()
	require.Len(t, queue.events, 1)
	assert.True(t, queue.events[0].Body.(domain.SensorStateChangeBody).Triggered)
}

func TestSensorUnsetGraceExpiryTriggers(t *testing.T) {
	driver := newFakeDriver()
	queue := &fakeQueue{}
	sensor := newSensor(t, driver, queue, 4)

	start := time.Now()
	clock := start
	sensor.now = func() time.Time { return clock }

	sensor.ReceiveEvent(domain.NewEvent(domain.EventAlarmActivated,
		domain.AlarmActivatedBody{ActivationTime: start.Add(-time.Hour)}))

	// Set grace long expired; move to the armed state first.
	sensor.CheckDevice()
	require.Equal(t, domain.SensorAlarmActivate, sensor.state)

	driver.states["GPIO05"] = domain.PinHigh
	sensor.CheckDevice()
	require.Equal(t, domain.SensorAlarmUnsetPeriod, sensor.state)

	// Still inside the unset grace: no event yet.
	clock = clock.Add(2 * time.Second)
	sensor.CheckDevice()
	assert.Empty(t, queue.events)

	// No deactivation arrived in time: the alarm fires.
	clock = clock.Add(3 * time.Second)
	sensor.CheckDevice()
	require.Len(t, queue.events, 1)
	assert.True(t, sensor.triggered)
}

func TestSensorTriggeredPersistsUntilDeactivated(t *testing.T) {
	driver := newFakeDriver()
	queue := &fakeQueue{}
	sensor := newSensor(t, driver, queue, 0)

	sensor.ReceiveEvent(domain.NewEvent(domain.EventAlarmActivated,
		domain.AlarmActivatedBody{ActivationTime: time.Now()}))

	driver.states["GPIO05"] = domain.PinHigh
	sensor.CheckDevice()
	require.Len(t, queue.events, 1)

	// Open/close churn after triggering publishes nothing further.
	driver.states["GPIO05"] = domain.PinLow
	sensor.CheckDevice()
	driver.states["GPIO05"] = domain.PinHigh
	sensor.CheckDevice()
	assert.Len(t, queue.events, 1)
	assert.True(t, sensor.triggered)

	sensor.ReceiveEvent(domain.NewEvent(domain.EventAlarmDeactivated, nil))
	assert.False(t, sensor.triggered)
	assert.Equal(t, domain.SensorAlarmInactive, sensor.state)
}

func TestSensorLogsOnlyWhileInactive(t *testing.T) {
	driver := newFakeDriver()
	queue := &fakeQueue{}
	sensor := newSensor(t, driver, queue, 5)

	driver.states["GPIO05"] = domain.PinHigh
	sensor.CheckDevice()

	assert.Equal(t, domain.SensorAlarmInactive, sensor.state)
	assert.Empty(t, queue.events)
}
