// Package api wraps the bookstore REST surface: bearer auth, the
// {success,message,data} envelope, and a small error taxonomy. Every
// call holds the shared loading indicator for its duration.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"bookshop/internal/ui"
)

// TokenSource supplies the current session token. An empty string means
// no Authorization header is attached.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mainly for tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	limiter    *rate.Limiter
	loading    ui.Loading
}

// New builds a client for baseURL. rps caps outbound request pacing;
// zero disables the limiter.
func New(baseURL string, tokens TokenSource, loading ui.Loading, timeout time.Duration, rps int) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if loading == nil {
		loading = ui.NopLoading{}
	}
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		limiter:    limiter,
		loading:    loading,
	}
}

// envelope probes for the standard {success,message,data} wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Call performs one request and decodes the response into out (which
// may be nil). The success envelope is unwrapped automatically: out
// receives the data field when success is true; success:false becomes a
// RequestFailedError. Non-2xx statuses become HTTPError, transport
// failures NetworkError.
func (c *Client) Call(ctx context.Context, method, endpoint string, body, out any) error {
	stop := c.loading.Start()
	defer stop()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Err: err}
		}
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	var env envelope
	if isJSON {
		// tolerate responses that are not the standard envelope
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" && !isJSON {
			msg = strings.TrimSpace(string(raw))
		}
		return &HTTPError{Status: resp.StatusCode, Message: msg}
	}

	if env.Success != nil {
		if !*env.Success {
			return &RequestFailedError{Message: env.Message}
		}
		if out == nil || env.Data == nil {
			return nil
		}
		return json.Unmarshal(env.Data, out)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok && !isJSON {
		*s = string(raw)
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Call(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Call(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Call(ctx, http.MethodPut, endpoint, body, out)
}

// Delete carries an optional body; /cart/remove sends the bookId there.
func (c *Client) Delete(ctx context.Context, endpoint string, body any) error {
	return c.Call(ctx, http.MethodDelete, endpoint, body, nil)
}

// Download fetches a binary/blob response (the CSV export) without
// envelope handling.
func (c *Client) Download(ctx context.Context, endpoint string) ([]byte, error) {
	stop := c.loading.Start()
	defer stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
