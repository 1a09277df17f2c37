// Package apiclient is the outbound HTTP client shared by the three
// services. All calls carry the authorisationKey header and are bounded by a
// small timeout so the calling loop can never wedge on network I/O.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

// AuthHeader is the shared-secret header checked by every inbound surface.
const AuthHeader = "authorisationKey"

// DefaultTimeout bounds a single outbound call.
const DefaultTimeout = 3 * time.Second

// Client talks to one remote service endpoint.
type Client struct {
	baseURL string
	authKey string
	http    *http.Client
}

// New creates a client for the service at baseURL. A zero timeout selects
// DefaultTimeout.
func New(baseURL, authKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		authKey: authKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// SendAlivePing posts receiveCentralControllerPing to the keypad. The status
// code is only meaningful when err is nil.
func (c *Client) SendAlivePing(ctx context.Context) (int, error) {
	return c.post(ctx, "receiveCentralControllerPing", map[string]any{})
}

// SendKeypadLock posts receiveKeypadLock with the absolute unlock time.
func (c *Client) SendKeypadLock(ctx context.Context, lockTime int64) (int, error) {
	return c.post(ctx, "receiveKeypadLock", map[string]any{"lockTime": lockTime})
}

// PleaseRespond posts pleaseRespondToKeypad to the central controller; the
// keypad sends this while its comms-lost panel is showing.
func (c *Client) PleaseRespond(ctx context.Context) (int, error) {
	return c.post(ctx, "pleaseRespondToKeypad", nil)
}

// SendKeyCode posts an entered digit sequence to the central controller.
func (c *Client) SendKeyCode(ctx context.Context, keySequence string) (int, error) {
	return c.post(ctx, "receiveKeyCode", map[string]any{"keySequence": keySequence})
}

// LogsResponse is the body returned by retrieveConsoleLogs.
type LogsResponse struct {
	LastTimestamp float64           `json:"lastTimestamp"`
	Entries       []domain.LogEntry `json:"entries"`
}

// RetrieveConsoleLogs fetches log entries newer than since.
func (c *Client) RetrieveConsoleLogs(ctx context.Context, since float64) (*LogsResponse, error) {
	body, err := json.Marshal(map[string]any{"startTimestamp": since})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/retrieveConsoleLogs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(AuthHeader, c.authKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieveConsoleLogs returned status %d", resp.StatusCode)
	}

	var logs LogsResponse
	if err := json.NewDecoder(resp.Body).Decode(&logs); err != nil {
		return nil, fmt.Errorf("invalid retrieveConsoleLogs response: %w", err)
	}
	return &logs, nil
}

func (c *Client) post(ctx context.Context, route string, body any) (int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+route, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(AuthHeader, c.authKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}
