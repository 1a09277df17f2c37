package console

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-shed/shedctl/internal/adapters/apiclient"
	"github.com/secure-shed/shedctl/internal/core/domain"
)

type scriptedSource struct {
	responses []*apiclient.LogsResponse
	errs      []error
	cursors   []float64
	calls     int
}

func (s *scriptedSource) RetrieveConsoleLogs(_ context.Context, since float64) (*apiclient.LogsResponse, error) {
	s.cursors = append(s.cursors, since)
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return &apiclient.LogsResponse{}, nil
}

func entry(ts float64, msg string) domain.LogEntry {
	return domain.LogEntry{Timestamp: ts, Level: domain.LogInfo, Message: msg}
}

func TestPollAdvancesCursorPerSource(t *testing.T) {
	source := &scriptedSource{responses: []*apiclient.LogsResponse{
		{LastTimestamp: 10, Entries: []domain.LogEntry{entry(9, "first"), entry(10, "second")}},
		{LastTimestamp: 12, Entries: []domain.LogEntry{entry(12, "third")}},
	}}
	var buf bytes.Buffer
	c := New([]*Source{{Name: "central", Client: source}}, &buf, slog.Default())

	c.PollOnce(context.Background())
	c.PollOnce(context.Background())
	c.PollOnce(context.Background())

	assert.Equal(t, []float64{0, 10, 12}, source.cursors)
	out := buf.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "[central] third")
	require.Len(t, c.Archive(), 3)
}

func TestUnreachableSourceKeepsCursor(t *testing.T) {
	source := &scriptedSource{
		errs: []error{nil, errors.New("refused"), nil},
		responses: []*apiclient.LogsResponse{
			{LastTimestamp: 5, Entries: []domain.LogEntry{entry(5, "before outage")}},
			nil,
			{LastTimestamp: 8, Entries: []domain.LogEntry{entry(8, "after outage")}},
		},
	}
	var buf bytes.Buffer
	c := New([]*Source{{Name: "keypad", Client: source}}, &buf, slog.Default())

	c.PollOnce(context.Background())
	c.PollOnce(context.Background())
	c.PollOnce(context.Background())

	// The failed poll retried with the same cursor.
	assert.Equal(t, []float64{0, 5, 5}, source.cursors)
	assert.Contains(t, buf.String(), "after outage")
}

func TestEmptyResponseDoesNotMoveCursor(t *testing.T) {
	source := &scriptedSource{responses: []*apiclient.LogsResponse{
		{LastTimestamp: 0, Entries: nil},
		{LastTimestamp: 3, Entries: []domain.LogEntry{entry(3, "late arrival")}},
	}}
	c := New([]*Source{{Name: "central", Client: source}}, &bytes.Buffer{}, slog.Default())

	c.PollOnce(context.Background())
	c.PollOnce(context.Background())

	assert.Equal(t, []float64{0, 0}, source.cursors)
}
