package keypad

import (
	"context"
	"time"
)

// TickInterval is the panel state machine's polling cadence.
const TickInterval = 10 * time.Millisecond

// RunPanelLoop ticks the panel state machine until ctx is cancelled.
// A nonpositive interval falls back to TickInterval.
func RunPanelLoop(ctx context.Context, panel *PanelState, interval time.Duration) {
	if interval <= 0 {
		interval = TickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			panel.CheckPanel(ctx)
		}
	}
}
