// Package keypad implements the keypad controller: the panel state machine,
// the digit entry buffer and the text display surfaces.
package keypad

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// CommLostRetryInterval is the minimum gap between "please respond" probes
// while the comms-lost panel is showing.
const CommLostRetryInterval = 5 * time.Second

// CentralClient is the outbound surface towards the central controller.
type CentralClient interface {
	PleaseRespond(ctx context.Context) (int, error)
}

// Display renders the currently selected panel.
type Display interface {
	ShowKeypad()
	ShowLocked(until int64)
	ShowCommsLost()
}

type panel struct {
	kind domain.PanelType
	// until is the absolute unlock time, only meaningful for the locked
	// panel.
	until int64
}

// PanelState owns which panel is visible. Inbound HTTP routes request a panel
// by setting newPanel; the tick loop adopts it. The panel machine never
// drives alarm logic.
type PanelState struct {
	mu           sync.Mutex
	current      panel
	next         panel
	hasCurrent   bool
	lastProbe    time.Time
	probeRunning atomic.Bool

	client  CentralClient
	display Display
	log     *slog.Logger
	now     func() time.Time
}

// NewPanelState starts in the comms-lost panel: the keypad stays there until
// the central controller's first alive ping arrives.
func NewPanelState(client CentralClient, display Display, log *slog.Logger) *PanelState {
	return &PanelState{
		next:    panel{kind: domain.PanelCommunicationsLost},
		client:  client,
		display: display,
		log:     log,
		now:     time.Now,
	}
}

// CurrentPanel returns the visible panel type.
func (p *PanelState) CurrentPanel() domain.PanelType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current.kind
}

// CentralPingReceived clears the comms-lost panel. Pings arriving in any
// other panel are ignored.
func (p *PanelState) CentralPingReceived() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasCurrent && p.current.kind == domain.PanelCommunicationsLost {
		p.next = panel{kind: domain.PanelKeypad}
	}
}

// Lock switches to the locked panel until the absolute unlock time.
func (p *PanelState) Lock(lockTime int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next = panel{kind: domain.PanelKeypadIsLocked, until: lockTime}
}

// CheckPanel runs one tick: adopt a requested panel change, expire a lock, or
// probe the central controller while communications are lost.
func (p *PanelState) CheckPanel(ctx context.Context) {
	p.mu.Lock()

	if !p.hasCurrent || p.current.kind != p.next.kind {
		p.current = p.next
		p.hasCurrent = true
		current := p.current
		p.mu.Unlock()
		p.render(current)
		return
	}

	switch p.current.kind {
	case domain.PanelKeypadIsLocked:
		if p.now().Unix() >= p.current.until {
			p.current = panel{kind: domain.PanelKeypad}
			p.next = p.current
			current := p.current
			p.mu.Unlock()
			p.log.Info("keypad lock has expired")
			p.render(current)
			return
		}
		p.mu.Unlock()

	case domain.PanelCommunicationsLost:
		now := p.now()
		if now.After(p.lastProbe.Add(CommLostRetryInterval)) {
			p.lastProbe = now
			p.mu.Unlock()
			p.probe(ctx)
			return
		}
		p.mu.Unlock()

	default:
		p.mu.Unlock()
	}
}

// probe sends "please respond" off the tick goroutine so a slow network never
// stalls panel redraws. At most one probe is in flight at a time.
func (p *PanelState) probe(ctx context.Context) {
	if !p.probeRunning.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer p.probeRunning.Store(false)
		status, err := p.client.PleaseRespond(ctx)
		if err != nil {
			p.log.Warn("failed to reach central controller", "error", err)
			return
		}
		if status != http.StatusOK {
			p.log.Warn("central controller refused please-respond", "status", status)
		}
	}()
}

func (p *PanelState) render(current panel) {
	switch current.kind {
	case domain.PanelKeypad:
		p.display.ShowKeypad()
	case domain.PanelKeypadIsLocked:
		p.display.ShowLocked(current.until)
	case domain.PanelCommunicationsLost:
		p.display.ShowCommsLost()
	}
}
