package keypad

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// RunInputLoop reads key presses from a line-oriented source and feeds the
// digit buffer. A line of digits presses each digit in order; "go" transmits
// and "reset" clears. Input is ignored unless the keypad panel is showing,
// matching a locked or disconnected physical panel.
func RunInputLoop(ctx context.Context, in io.Reader, entry *Entry, panel *PanelState, log *slog.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if panel.CurrentPanel() != domain.PanelKeypad {
			log.Debug("ignoring input, keypad panel not active")
			continue
		}

		switch strings.ToLower(line) {
		case "go":
			entry.Go(ctx)
		case "reset":
			entry.Reset()
		default:
			for _, r := range line {
				if !unicode.IsDigit(r) {
					log.Warn("ignoring non-digit key", "key", string(r))
					continue
				}
				entry.PressKey(string(r))
			}
		}
	}
}
