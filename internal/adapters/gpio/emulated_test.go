package gpio

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

func writePinout(t *testing.T, path string, gpio05 string) {
	t.Helper()
	doc := `{
		"GPIO05": {"State": "` + gpio05 + `"},
		"GPIO06": {"State": "high"},
		"GPIO14": {"State": "high"},
		"GPIO15": {"State": "high"},
		"GPIO18": {"State": "high"},
		"GPIO23": {"State": "high"},
		"GPIO24": {"State": "high"},
		"GPIO25": {"State": "high"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}

func TestRefreshDrivesInputsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinout.json")
	writePinout(t, path, "low")

	drv := NewEmulated(path, slog.Default())
	require.NoError(t, drv.SetupInput("GPIO05", true))

	drv.Refresh()
	state, err := drv.Read("GPIO05")
	require.NoError(t, err)
	assert.Equal(t, domain.PinLow, state)

	// Same content hash: no rescan needed, state stays.
	drv.Refresh()
	state, _ = drv.Read("GPIO05")
	assert.Equal(t, domain.PinLow, state)

	writePinout(t, path, "high")
	drv.Refresh()
	state, _ = drv.Read("GPIO05")
	assert.Equal(t, domain.PinHigh, state)
}

func TestRefreshDoesNotClobberOutputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinout.json")
	writePinout(t, path, "high")

	drv := NewEmulated(path, slog.Default())
	require.NoError(t, drv.SetupOutput("GPIO06"))
	require.NoError(t, drv.Write("GPIO06", domain.PinLow))

	drv.Refresh()
	state, err := drv.Read("GPIO06")
	require.NoError(t, err)
	assert.Equal(t, domain.PinLow, state)
}

func TestMalformedPinoutIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinout.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"GPIO05": {"State": "sideways"}}`), 0o644))

	drv := NewEmulated(path, slog.Default())
	drv.Refresh()

	state, err := drv.Read("GPIO05")
	require.NoError(t, err)
	assert.Equal(t, domain.PinHigh, state)
}

func TestPinsAreExclusive(t *testing.T) {
	drv := NewEmulated(filepath.Join(t.TempDir(), "missing.json"), slog.Default())

	require.NoError(t, drv.SetupInput("GPIO14", true))
	assert.Error(t, drv.SetupOutput("GPIO14"))
	assert.Error(t, drv.SetupInput("GPIO14", false))

	drv.Cleanup()
	assert.NoError(t, drv.SetupOutput("GPIO14"))
}

func TestWriteRequiresOutputMode(t *testing.T) {
	drv := NewEmulated(filepath.Join(t.TempDir(), "missing.json"), slog.Default())

	require.NoError(t, drv.SetupInput("GPIO18", true))
	assert.Error(t, drv.Write("GPIO18", domain.PinLow))
	assert.Error(t, drv.Write("GPIO99", domain.PinLow))
}
