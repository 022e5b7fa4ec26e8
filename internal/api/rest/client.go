package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oshokin/grinder-console/internal/domain/grinder"
	"github.com/oshokin/grinder-console/internal/metrics"
	"github.com/oshokin/grinder-console/internal/version"
)

// TokenSource supplies the bearer token for each call. The client never
// stores or refreshes the token itself.
type TokenSource interface {
	Token() string
}

// Client wraps the grinder backend endpoints.
type Client struct {
	// baseURL is the root of the data endpoints.
	baseURL string
	// loginURL is the root of the login endpoint.
	loginURL string
	// tokens provides the credential for every call.
	tokens TokenSource
	// httpClient performs the requests.
	httpClient *http.Client

	// callTimeout is the default timeout for individual calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for every call.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithLoginURL points login at a different host than the data endpoints.
func WithLoginURL(loginURL string) Option {
	return func(c *Client) {
		if loginURL != "" {
			c.loginURL = strings.TrimRight(loginURL, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// maxErrorBody bounds how much of a rejection body ends up in an error.
const maxErrorBody = 512

// Operation names, used for metrics and logs.
const (
	OpLogin          = "login"
	OpFetchState     = "fetch_state"
	OpFetchAlarms    = "fetch_alarms"
	OpFetchCount     = "fetch_alarm_count"
	OpAcknowledge    = "acknowledge"
	OpAcknowledgeAll = "acknowledge_all"
	OpDeleteAlarm    = "delete_alarm"
	OpReset          = "reset"
)

// New builds a client for the given base URL. A nil token source behaves as
// an empty token; calls are still attempted and the server decides.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: new(http.Client),
	}
	c.loginURL = c.baseURL

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchState retrieves the current indicator snapshot.
func (c *Client) FetchState(ctx context.Context) (*grinder.State, error) {
	var state grinder.State
	if err := c.do(ctx, OpFetchState, http.MethodGet, c.baseURL+"/api/grinder-data", nil, true, &state); err != nil {
		return nil, fmt.Errorf("fetch state: %w", err)
	}

	return &state, nil
}

// FetchAlarms retrieves the alarm list. A payload that is not an array is a
// decode error.
func (c *Client) FetchAlarms(ctx context.Context) ([]*grinder.Alarm, error) {
	var raw json.RawMessage
	if err := c.do(ctx, OpFetchAlarms, http.MethodGet, c.baseURL+"/api/alarms", nil, true, &raw); err != nil {
		return nil, fmt.Errorf("fetch alarms: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("fetch alarms: %w: payload is not a list", ErrDecode)
	}

	var alarms []*grinder.Alarm
	if err := json.Unmarshal(trimmed, &alarms); err != nil {
		return nil, fmt.Errorf("fetch alarms: %w: %w", ErrDecode, err)
	}

	return alarms, nil
}

// FetchAlarmCount retrieves the number of unacknowledged alarms.
func (c *Client) FetchAlarmCount(ctx context.Context) (int, error) {
	var payload struct {
		Count *int `json:"count"`
	}

	if err := c.do(ctx, OpFetchCount, http.MethodGet, c.baseURL+"/api/alarms/count", nil, true, &payload); err != nil {
		return 0, fmt.Errorf("fetch alarm count: %w", err)
	}

	if payload.Count == nil {
		return 0, fmt.Errorf("fetch alarm count: %w: count is missing", ErrDecode)
	}

	return *payload.Count, nil
}

// Acknowledge marks one alarm as acknowledged. Repeating it or naming an
// unknown alarm is up to the server; the client only reports the outcome.
func (c *Client) Acknowledge(ctx context.Context, id string) error {
	if id == "" {
		return errIDRequired
	}

	if err := c.do(ctx, OpAcknowledge, http.MethodPatch, c.alarmURL(id), nil, true, nil); err != nil {
		return fmt.Errorf("acknowledge alarm %s: %w", id, err)
	}

	return nil
}

// AcknowledgeAll acknowledges every alarm with one bulk command.
func (c *Client) AcknowledgeAll(ctx context.Context) error {
	if err := c.do(ctx, OpAcknowledgeAll, http.MethodPost, c.baseURL+"/api/alarms/acknowledge-all", nil, true, nil); err != nil {
		return fmt.Errorf("acknowledge all alarms: %w", err)
	}

	return nil
}

// DeleteAlarm removes one alarm.
func (c *Client) DeleteAlarm(ctx context.Context, id string) error {
	if id == "" {
		return errIDRequired
	}

	if err := c.do(ctx, OpDeleteAlarm, http.MethodDelete, c.alarmURL(id), nil, true, nil); err != nil {
		return fmt.Errorf("delete alarm %s: %w", id, err)
	}

	return nil
}

// Reset sends the reset command. The boolean tells an accepted request from
// one that was delivered but refused by the controller.
func (c *Client) Reset(ctx context.Context) (bool, error) {
	var payload struct {
		Success bool `json:"success"`
	}

	if err := c.do(ctx, OpReset, http.MethodPost, c.baseURL+"/api/reset", nil, true, &payload); err != nil {
		return false, fmt.Errorf("reset: %w", err)
	}

	return payload.Success, nil
}

func (c *Client) alarmURL(id string) string {
	return c.baseURL + "/api/alarms/" + url.PathEscape(id)
}

// do performs one call, records it and decodes the response into out.
// A nil out accepts any body, including an empty one.
func (c *Client) do(
	ctx context.Context,
	operation, method, target string,
	body any,
	authorize bool,
	out any,
) (err error) {
	started := time.Now()

	defer func() {
		metrics.ObserveAPI(operation, metrics.Result(err), time.Since(started))
	}()

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := c.newRequest(callCtx, method, target, body, authorize)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil || callCtx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrNetwork, err)
		}

		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method, target string,
	body any,
	authorize bool,
) (*http.Request, error) {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	if body != nil || method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	if authorize {
		req.Header.Set("Authorization", "Bearer "+c.token())
	}

	return req, nil
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}

	return c.tokens.Token()
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
