package bus

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-shed/shedctl/internal/core/domain"
	"github.com/secure-shed/shedctl/internal/telemetry"
)

func newTestBus() *Bus {
	telemetry.InitMetrics()
	return New(slog.Default())
}

func TestQueueRejectsUnknownKind(t *testing.T) {
	b := newTestBus()

	err := b.Queue(domain.NewEvent(domain.EventActivateSiren, nil))
	assert.ErrorIs(t, err, ErrInvalidEventKind)
}

func TestQueueRejectsWhenDisabled(t *testing.T) {
	b := newTestBus()
	b.Register(domain.EventActivateSiren, func(domain.Event) {})
	b.Disable()

	err := b.Queue(domain.NewEvent(domain.EventActivateSiren, nil))
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestFirstRegistrationWins(t *testing.T) {
	b := newTestBus()

	var got string
	b.Register(domain.EventActivateSiren, func(domain.Event) { got = "first" })
	b.Register(domain.EventActivateSiren, func(domain.Event) { got = "second" })

	require.NoError(t, b.Queue(domain.NewEvent(domain.EventActivateSiren, nil)))
	require.NoError(t, b.ProcessNext())
	assert.Equal(t, "first", got)
}

func TestProcessNextDrainsInFIFOOrder(t *testing.T) {
	b := newTestBus()

	var order []domain.EventKind
	record := func(evt domain.Event) { order = append(order, evt.Kind) }
	b.Register(domain.EventActivateSiren, record)
	b.Register(domain.EventDeactivateSiren, record)

	require.NoError(t, b.Queue(domain.NewEvent(domain.EventActivateSiren, nil)))
	require.NoError(t, b.Queue(domain.NewEvent(domain.EventDeactivateSiren, nil)))

	require.NoError(t, b.ProcessNext())
	require.NoError(t, b.ProcessNext())

	assert.Equal(t,
		[]domain.EventKind{domain.EventActivateSiren, domain.EventDeactivateSiren},
		order)
}

func TestHandlerRequeueLandsAtTail(t *testing.T) {
	b := newTestBus()

	var order []string
	first := true
	b.Register(domain.EventKeypadAPISendAlivePing, func(evt domain.Event) {
		order = append(order, "ping")
		if first {
			first = false
			// Retry path: the same event goes back behind newer work.
			require.NoError(t, b.Queue(evt))
		}
	})
	b.Register(domain.EventActivateSiren, func(domain.Event) {
		order = append(order, "siren")
	})

	require.NoError(t, b.Queue(domain.NewEvent(domain.EventKeypadAPISendAlivePing, nil)))
	require.NoError(t, b.Queue(domain.NewEvent(domain.EventActivateSiren, nil)))

	for i := 0; i < 3; i++ {
		require.NoError(t, b.ProcessNext())
	}

	assert.Equal(t, []string{"ping", "siren", "ping"}, order)
	assert.Zero(t, b.Len())
}

func TestProcessNextOnEmptyQueueSucceeds(t *testing.T) {
	b := newTestBus()
	assert.NoError(t, b.ProcessNext())
}

func TestDeleteAllSkipsHandlers(t *testing.T) {
	b := newTestBus()

	calls := 0
	b.Register(domain.EventActivateSiren, func(domain.Event) { calls++ })
	require.NoError(t, b.Queue(domain.NewEvent(domain.EventActivateSiren, nil)))
	require.NoError(t, b.Queue(domain.NewEvent(domain.EventActivateSiren, nil)))

	b.DeleteAll()
	require.NoError(t, b.ProcessNext())

	assert.Zero(t, calls)
	assert.Zero(t, b.Len())
}
