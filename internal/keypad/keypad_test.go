package keypad

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

type fakeCentral struct {
	mu        sync.Mutex
	probes    int
	keyCodes  []string
	status    int
	returnErr error
}

func (f *fakeCentral) PleaseRespond(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.status, f.returnErr
}

func (f *fakeCentral) SendKeyCode(_ context.Context, keySequence string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keyCodes = append(f.keyCodes, keySequence)
	return f.status, f.returnErr
}

func (f *fakeCentral) probeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes
}

type recordingDisplay struct {
	mu     sync.Mutex
	shown  []string
	locked []int64
}

func (d *recordingDisplay) ShowKeypad() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, "keypad")
}

func (d *recordingDisplay) ShowLocked(until int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, "locked")
	d.locked = append(d.locked, until)
}

func (d *recordingDisplay) ShowCommsLost() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown = append(d.shown, "commsLost")
}

func newPanel(t *testing.T) (*PanelState, *fakeCentral, *recordingDisplay) {
	t.Helper()
	central := &fakeCentral{status: http.StatusOK}
	display := &recordingDisplay{}
	return NewPanelState(central, display, slog.Default()), central, display
}

func waitForProbe(t *testing.T, central *fakeCentral, count int) {
	t.Helper()
	require.Eventually(t, func() bool { return central.probeCount() >= count },
		time.Second, time.Millisecond)
}

func TestBootShowsCommsLostAndProbes(t *testing.T) {
	panel, central, display := newPanel(t)

	panel.CheckPanel(context.Background())
	assert.Equal(t, domain.PanelCommunicationsLost, panel.CurrentPanel())
	assert.Equal(t, []string{"commsLost"}, display.shown)

	// The next tick sends the first probe straight away.
	panel.CheckPanel(context.Background())
	waitForProbe(t, central, 1)
}

func TestCommsLostProbesAtRetryInterval(t *testing.T) {
	panel, central, _ := newPanel(t)
	base := time.Now()
	clock := base
	panel.now = func() time.Time { return clock }

	panel.CheckPanel(context.Background())
	panel.CheckPanel(context.Background())
	waitForProbe(t, central, 1)

	// Within the retry interval: no second probe.
	clock = base.Add(3 * time.Second)
	panel.CheckPanel(context.Background())
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 1, central.probeCount())

	// Past the interval: exactly one more.
	clock = base.Add(9 * time.Second)
	panel.CheckPanel(context.Background())
	waitForProbe(t, central, 2)
}

func TestPingClearsCommsLost(t *testing.T) {
	panel, _, display := newPanel(t)
	panel.CheckPanel(context.Background())
	require.Equal(t, domain.PanelCommunicationsLost, panel.CurrentPanel())

	panel.CentralPingReceived()
	panel.CheckPanel(context.Background())

	assert.Equal(t, domain.PanelKeypad, panel.CurrentPanel())
	assert.Equal(t, []string{"commsLost", "keypad"}, display.shown)
}

func TestPingIgnoredOutsideCommsLost(t *testing.T) {
	panel, _, _ := newPanel(t)
	panel.CheckPanel(context.Background())
	panel.CentralPingReceived()
	panel.CheckPanel(context.Background())
	require.Equal(t, domain.PanelKeypad, panel.CurrentPanel())

	panel.CentralPingReceived()
	panel.CheckPanel(context.Background())
	assert.Equal(t, domain.PanelKeypad, panel.CurrentPanel())
}

func TestLockPanelExpiresAtDeadline(t *testing.T) {
	panel, _, display := newPanel(t)
	base := time.Now()
	clock := base
	panel.now = func() time.Time { return clock }

	panel.CheckPanel(context.Background())
	panel.CentralPingReceived()
	panel.CheckPanel(context.Background())

	deadline := base.Add(30 * time.Second).Unix()
	panel.Lock(deadline)
	panel.CheckPanel(context.Background())
	require.Equal(t, domain.PanelKeypadIsLocked, panel.CurrentPanel())
	assert.Equal(t, []int64{deadline}, display.locked)

	// Still locked just before the deadline.
	clock = base.Add(29 * time.Second)
	panel.CheckPanel(context.Background())
	assert.Equal(t, domain.PanelKeypadIsLocked, panel.CurrentPanel())

	clock = base.Add(31 * time.Second)
	panel.CheckPanel(context.Background())
	assert.Equal(t, domain.PanelKeypad, panel.CurrentPanel())
	assert.Equal(t, "keypad", display.shown[len(display.shown)-1])
}

func TestEntryTransmitsOnGo(t *testing.T) {
	central := &fakeCentral{status: http.StatusOK}
	entry := NewEntry(central, slog.Default())

	for _, key := range []string{"1", "2", "3", "4"} {
		entry.PressKey(key)
	}
	entry.Go(context.Background())

	assert.Equal(t, []string{"1234"}, central.keyCodes)
	assert.Empty(t, entry.Sequence())
}

func TestEntryGoWithEmptyBufferSendsNothing(t *testing.T) {
	central := &fakeCentral{status: http.StatusOK}
	entry := NewEntry(central, slog.Default())

	entry.Go(context.Background())

	assert.Empty(t, central.keyCodes)
}

func TestEntryResetDiscardsSequence(t *testing.T) {
	central := &fakeCentral{status: http.StatusOK}
	entry := NewEntry(central, slog.Default())

	entry.PressKey("9")
	entry.PressKey("9")
	entry.Reset()
	entry.Go(context.Background())

	assert.Empty(t, central.keyCodes)
}

func TestEntrySequenceTimerDiscards(t *testing.T) {
	central := &fakeCentral{status: http.StatusOK}
	entry := NewEntry(central, slog.Default())
	entry.timeout = 20 * time.Millisecond

	entry.PressKey("1")
	require.Eventually(t, func() bool { return entry.Sequence() == "" },
		time.Second, time.Millisecond)

	entry.Go(context.Background())
	assert.Empty(t, central.keyCodes)
}

func TestTextDisplayRendersPanels(t *testing.T) {
	var buf bytes.Buffer
	display := NewTextDisplay(&buf)

	display.ShowCommsLost()
	display.ShowKeypad()
	display.ShowLocked(time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC).Unix())

	out := buf.String()
	assert.Contains(t, out, "communications lost")
	assert.Contains(t, out, "keypad ready")
	assert.True(t, strings.Contains(out, "locked until"))
}
