package keypad

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TextDisplay renders panels as text. The physical keypad drives a small
// touch screen; headless deployments and tests render to a writer instead.
type TextDisplay struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTextDisplay(out io.Writer) *TextDisplay {
	return &TextDisplay{out: out}
}

func (d *TextDisplay) ShowKeypad() {
	d.show("[ keypad ready : enter code, GO to send, Reset to clear ]")
}

func (d *TextDisplay) ShowLocked(until int64) {
	d.show(fmt.Sprintf("[ keypad locked until %s ]",
		time.Unix(until, 0).Format(time.RFC3339)))
}

func (d *TextDisplay) ShowCommsLost() {
	d.show("[ communications lost : waiting for central controller ]")
}

func (d *TextDisplay) show(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, line)
}
