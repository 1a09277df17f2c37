// Package gpio provides the pin driver used by device plug-ins. With no real
// hardware attached, pin states are driven from a pinout JSON file that is
// rescanned whenever its content hash changes.
package gpio

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// DefaultPinoutPath is where the emulation looks for pin states unless
// overridden.
const DefaultPinoutPath = "pinOutFile.json"

type pinMode int

const (
	modeUnclaimed pinMode = iota
	modeInput
	modeOutput
)

type pinStateDoc struct {
	State *string `json:"State"`
}

// Emulated implements ports.PinDriver against a pinout file covering the
// eight fixed GPIO labels, e.g. {"GPIO05":{"State":"high"}, ...}. All eight
// labels must be present; unknown labels or states reject the whole file.
type Emulated struct {
	mu         sync.Mutex
	pinoutPath string
	states     map[string]domain.PinState
	modes      map[string]pinMode
	lastHash   [md5.Size]byte
	hasHash    bool
	log        *slog.Logger
}

// NewEmulated creates a driver with every pin high (idle) until the pinout
// file says otherwise.
func NewEmulated(pinoutPath string, log *slog.Logger) *Emulated {
	states := make(map[string]domain.PinState, len(domain.AllowedPinLabels))
	modes := make(map[string]pinMode, len(domain.AllowedPinLabels))
	for _, label := range domain.AllowedPinLabels {
		states[label] = domain.PinHigh
		modes[label] = modeUnclaimed
	}
	return &Emulated{
		pinoutPath: pinoutPath,
		states:     states,
		modes:      modes,
		log:        log,
	}
}

// SetupInput claims a pin as an input. Pull-up is accepted for contract
// parity with real hardware; the emulation's idle state is already high.
func (e *Emulated) SetupInput(label string, pullUp bool) error {
	return e.claim(label, modeInput)
}

// SetupOutput claims a pin as an output.
func (e *Emulated) SetupOutput(label string) error {
	return e.claim(label, modeOutput)
}

func (e *Emulated) claim(label string, mode pinMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.modes[label]
	if !ok {
		return fmt.Errorf("unknown pin label %q", label)
	}
	if current != modeUnclaimed {
		return fmt.Errorf("pin %s is already claimed", label)
	}
	e.modes[label] = mode
	return nil
}

// Read returns the current logic level of a pin.
func (e *Emulated) Read(label string) (domain.PinState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, ok := e.states[label]
	if !ok {
		return domain.PinLow, fmt.Errorf("unknown pin label %q", label)
	}
	return state, nil
}

// Write drives a pin that was claimed as an output.
func (e *Emulated) Write(label string, state domain.PinState) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	mode, ok := e.modes[label]
	if !ok {
		return fmt.Errorf("unknown pin label %q", label)
	}
	if mode != modeOutput {
		return fmt.Errorf("pin %s is not configured as an output", label)
	}
	e.states[label] = state
	return nil
}

// Refresh rescans the pinout file when its content hash has changed. Output
// pins keep the state last written by their owning device; the file only
// drives inputs and unclaimed pins. A malformed file is logged and ignored.
func (e *Emulated) Refresh() {
	contents, err := os.ReadFile(e.pinoutPath)
	if err != nil {
		return
	}

	hash := md5.Sum(contents)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.hasHash && hash == e.lastHash {
		return
	}

	parsed, err := parsePinout(contents)
	if err != nil {
		e.log.Warn("ignoring malformed pinout file",
			"file", e.pinoutPath, "error", err)
		return
	}

	e.lastHash = hash
	e.hasHash = true
	for label, state := range parsed {
		if e.modes[label] == modeOutput {
			continue
		}
		e.states[label] = state
	}
}

// Cleanup releases every claimed pin.
func (e *Emulated) Cleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for label := range e.modes {
		e.modes[label] = modeUnclaimed
	}
}

func parsePinout(contents []byte) (map[string]domain.PinState, error) {
	var doc map[string]pinStateDoc
	if err := json.Unmarshal(contents, &doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	parsed := make(map[string]domain.PinState, len(domain.AllowedPinLabels))
	for label, pin := range doc {
		if !domain.IsAllowedPinLabel(label) {
			return nil, fmt.Errorf("unknown pin label %q", label)
		}
		if pin.State == nil {
			return nil, fmt.Errorf("pin %s is missing State", label)
		}
		switch *pin.State {
		case "high":
			parsed[label] = domain.PinHigh
		case "low":
			parsed[label] = domain.PinLow
		default:
			return nil, fmt.Errorf("pin %s has invalid state %q", label, *pin.State)
		}
	}

	for _, label := range domain.AllowedPinLabels {
		if _, ok := parsed[label]; !ok {
			return nil, fmt.Errorf("pinout file is missing %s", label)
		}
	}
	return parsed, nil
}
