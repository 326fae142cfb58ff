package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds a request when the caller did not configure one.
const DefaultTimeout = 30 * time.Second

// RequestOptions configures a single call. Constructed per call, never
// persisted.
type RequestOptions struct {
	// Timeout is the per-attempt bound. Zero means DefaultTimeout.
	Timeout time.Duration

	// ExpectJSON controls whether a success body is parsed as JSON.
	// When false, success is signaled by the HTTP status alone.
	ExpectJSON bool

	// Retries is the number of additional attempts made after a failure.
	// Used only for idempotent reads; writes are issued with zero retries.
	Retries int
}

// Client executes HTTP requests against the post backend.
// Each call constructs its own deadline context, so a single Client is
// safe for concurrent use.
type Client struct {
	http *http.Client
}

// NewClient creates a Client. Passing nil uses a default http.Client with
// no client-level timeout; every call is bounded per attempt instead.
func NewClient(h *http.Client) *Client {
	if h == nil {
		h = &http.Client{}
	}
	return &Client{http: h}
}

// JSON issues a request whose success body is JSON. body, when non-nil, is
// marshalled as the JSON request body. An empty success body decodes as an
// empty object. Failures of any kind surface as *RequestError.
func (c *Client) JSON(ctx context.Context, method, endpoint string, body any, opts RequestOptions) (json.RawMessage, error) {
	opts.ExpectJSON = true
	return c.do(ctx, method, endpoint, body, opts)
}

// Send issues a request whose response body is not parsed; success is the
// HTTP status alone.
func (c *Client) Send(ctx context.Context, method, endpoint string, body any, opts RequestOptions) error {
	opts.ExpectJSON = false
	_, err := c.do(ctx, method, endpoint, body, opts)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, opts RequestOptions) (json.RawMessage, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	return c.execute(ctx, method, endpoint, payload, opts)
}

// execute performs one attempt and recurses through maybeRetry while the
// retry budget lasts. The deadline context is released on every exit path.
func (c *Client) execute(ctx context.Context, method, endpoint string, payload []byte, opts RequestOptions) (json.RawMessage, error) {
	op := method + " " + endpoint

	attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, endpoint, bodyReader)
	if err != nil {
		return c.maybeRetry(ctx, method, endpoint, payload, opts,
			&RequestError{Kind: KindNetwork, Op: op, Err: err})
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.maybeRetry(ctx, method, endpoint, payload, opts,
			c.classifyTransport(ctx, op, err, opts.Timeout))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := readErrorBody(resp)
		return c.maybeRetry(ctx, method, endpoint, payload, opts,
			&RequestError{Kind: KindHTTP, Op: op, Detail: detail})
	}

	if !opts.ExpectJSON {
		// Callers only look at the status; drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.maybeRetry(ctx, method, endpoint, payload, opts,
			c.classifyTransport(ctx, op, err, opts.Timeout))
	}

	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(trimmed) {
		return c.maybeRetry(ctx, method, endpoint, payload, opts,
			&RequestError{Kind: KindParse, Op: op, Detail: "response body is not valid JSON"})
	}

	return json.RawMessage(trimmed), nil
}

// maybeRetry retries any failure while the budget lasts, except external
// cancellation: a superseded request must not be reissued.
func (c *Client) maybeRetry(ctx context.Context, method, endpoint string, payload []byte, opts RequestOptions, reqErr *RequestError) (json.RawMessage, error) {
	if reqErr.Kind == KindCancelled || opts.Retries <= 0 {
		return nil, reqErr
	}

	slog.Warn("[BACKEND] request failed, retrying",
		"op", reqErr.Op,
		"kind", string(reqErr.Kind),
		"attempts_left", opts.Retries,
	)

	opts.Retries--
	return c.execute(ctx, method, endpoint, payload, opts)
}

// classifyTransport distinguishes external cancellation from the per-call
// timeout and from genuine network failure. The caller's context is
// consulted first: when it was cancelled, the attempt deadline is
// irrelevant.
func (c *Client) classifyTransport(ctx context.Context, op string, err error, timeout time.Duration) *RequestError {
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
		return &RequestError{Kind: KindCancelled, Op: op, Detail: "superseded or cancelled by caller", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return &RequestError{
			Kind:   KindTimeout,
			Op:     op,
			Detail: fmt.Sprintf("request timed out after %s, check the network or file size", timeout),
			Err:    err,
		}
	}
	return &RequestError{Kind: KindNetwork, Op: op, Err: err}
}

// readErrorBody reads a failure response as text, falling back to a
// synthesized "<status> <statusText>" when the body is empty or unreadable.
func readErrorBody(resp *http.Response) string {
	fallback := fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return fallback
	}
	return string(bytes.TrimSpace(body))
}

// isTimeout checks for the net error timeout interface.
func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
