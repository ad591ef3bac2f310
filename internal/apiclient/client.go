package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

const maxResponseBodySize = 1 << 20 // 1MB

// connection pooling limits; the admin API is a single host
const (
	defaultMaxIdleConns        = 20
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// RequestIDHeader is set on every request with a fresh UUID.
const RequestIDHeader = "X-Request-ID"

// ErrTransport marks failures to obtain a well-formed JSON response:
// network errors, non-2xx status codes and undecodable bodies.
var ErrTransport = errors.New("transport failure")

// jsonAPI preserves numeric literals as json.Number when decoding into
// interface values, so stat values render exactly as the backend sent them.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Client issues JSON requests against a single admin API base URL.
//
// Client applies no timeout unless one is configured; a hung request simply
// never returns until its context is done.
type Client struct {
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
	httpClient *http.Client

	// ownsHTTPClient is set when NewClient created httpClient.
	ownsHTTPClient bool
}

// NewClient creates a [Client] for baseURL.
//
// headers are sent with every request. A zero timeout disables the
// per-request deadline. If httpClient is nil a pooled client is created and
// owned by the Client; a caller-supplied client is never closed.
func NewClient(baseURL string, headers map[string]string, timeout time.Duration, httpClient *http.Client) *Client {
	owned := httpClient == nil
	if owned {
		httpClient = &http.Client{
			// no client-wide timeout; deadlines come from the request context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		}
	}

	hdrs := make(map[string]string, len(headers))
	for k, v := range headers {
		hdrs[k] = v
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    hdrs,
		timeout:    timeout,
		httpClient: httpClient,

		ownsHTTPClient: owned,
	}
}

// BaseURL returns the normalised base URL (no trailing slash).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request for path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request for path with in encoded as the JSON body and
// decodes the JSON response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := jsonAPI.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: failed to encode request body: %w", ErrTransport, err)
	}
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d from %s %s", ErrTransport, resp.StatusCode, method, path)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: empty response body from %s %s", ErrTransport, method, path)
	}
	if err := jsonAPI.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrTransport, err)
	}
	return nil
}

// Close closes idle connections in the client's pool. A caller-supplied
// HTTP client is left untouched. Safe to call on a nil client and more than
// once; the client stays usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil || !c.ownsHTTPClient {
		return
	}
	c.httpClient.CloseIdleConnections()
}
