package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

type capturedRequest struct {
	path    string
	authKey string
	body    []byte
}

func captureServer(t *testing.T, status int, response any) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.authKey = r.Header.Get(AuthHeader)
		captured.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		if response != nil {
			json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestSendKeypadLockCarriesAuthAndBody(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, nil)
	client := New(srv.URL, "secret", 0)

	status, err := client.SendKeypadLock(context.Background(), 1700000030)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/receiveKeypadLock", captured.path)
	assert.Equal(t, "secret", captured.authKey)
	assert.JSONEq(t, `{"lockTime":1700000030}`, string(captured.body))
}

func TestSendKeyCode(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, nil)
	client := New(srv.URL, "secret", 0)

	status, err := client.SendKeyCode(context.Background(), "1234")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"keySequence":"1234"}`, string(captured.body))
}

func TestStatusReturnedWithoutError(t *testing.T) {
	srv, _ := captureServer(t, http.StatusForbidden, nil)
	client := New(srv.URL, "wrong", 0)

	status, err := client.SendAlivePing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestTransportFailureReturnsError(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, nil)
	srv.Close()
	client := New(srv.URL, "secret", 500*time.Millisecond)

	_, err := client.PleaseRespond(context.Background())
	assert.Error(t, err)
}

func TestRetrieveConsoleLogs(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, LogsResponse{
		LastTimestamp: 42.5,
		Entries: []domain.LogEntry{
			{Timestamp: 42.5, Level: domain.LogInfo, Message: "alarm activated"},
		},
	})
	client := New(srv.URL, "secret", 0)

	logs, err := client.RetrieveConsoleLogs(context.Background(), 10)
	require.NoError(t, err)
	assert.JSONEq(t, `{"startTimestamp":10}`, string(captured.body))
	assert.Equal(t, 42.5, logs.LastTimestamp)
	require.Len(t, logs.Entries, 1)
	assert.Equal(t, "alarm activated", logs.Entries[0].Message)
}

func TestRetrieveConsoleLogsRejectsNonOK(t *testing.T) {
	srv, _ := captureServer(t, http.StatusUnauthorized, nil)
	client := New(srv.URL, "", 0)

	_, err := client.RetrieveConsoleLogs(context.Background(), 0)
	assert.Error(t, err)
}
