package bravia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"braviactl/internal"
	"braviactl/internal/logger"

	"github.com/rs/zerolog"
)

// Client talks to one Sony Bravia TV over its local control API
type Client struct {
	httpClient *http.Client
	baseURL    string
	psk        string
	id         int
	mode       *internal.FnModeOptions
	logger     zerolog.Logger
}

// Option configures a Client during construction
type Option func(*Client)

// WithPSK sets the pre-shared key sent as X-Auth-PSK on every request
func WithPSK(psk string) Option {
	return func(c *Client) {
		c.psk = psk
	}
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger replaces the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMode applies the debug and test run modes
func WithMode(mode *internal.FnModeOptions) Option {
	return func(c *Client) {
		if mode != nil {
			c.mode = mode
		}
	}
}

// NewClient creates a new Bravia client for host. host may be a bare address
// ("192.168.1.20", "tv.lan:8080") or a full base URL. Requests carry no
// timeout of their own; bound them with the context or WithHTTPClient.
func NewClient(host string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		baseURL:    normalizeHost(host),
		id:         defaultRequestID,
		mode:       internal.NewModeOptions(),
		logger:     logger.Component("bravia"),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.mode.Test {
		client.httpClient = &http.Client{
			Timeout:   client.httpClient.Timeout,
			Transport: NewSimulatedTransport(),
		}
	}

	return client
}

// BaseURL returns the normalized device URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasPSK reports whether requests carry a pre-shared key
func (c *Client) HasPSK() bool {
	return c.psk != ""
}

// Mode returns the run modes the client was built with
func (c *Client) Mode() internal.FnModeOptions {
	return *c.mode
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimRight(host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host
}

// CreatePayload builds the JSON envelope for a control API call
func CreatePayload(id int, method Method, version string, params ...any) Payload {
	if params == nil {
		params = []any{}
	}
	if version == "" {
		version = Version10
	}

	return Payload{
		ID:      id,
		Method:  string(method),
		Version: version,
		Params:  params,
	}
}

// ControlRequest sends a JSON API control request and returns the raw body
func (c *Client) ControlRequest(ctx context.Context, endpoint Endpoint, payload Payload) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	if c.mode.Debug {
		c.logger.Debug().
			Str("endpoint", string(endpoint)).
			Str("method", payload.Method).
			Str("payload", string(jsonData)).
			Msg("Sending control API request")
	}

	return c.post(ctx, endpoint, bytes.NewReader(jsonData), func(h http.Header) {
		h.Set("Content-Type", jsonContentType)
	})
}

// Call sends one control API request and decodes the response envelope into
// out. A JSON-RPC error in the envelope is returned as *APIError.
func (c *Client) Call(ctx context.Context, endpoint Endpoint, method Method, version string, params []any, out any) error {
	body, err := c.ControlRequest(ctx, endpoint, CreatePayload(c.id, method, version, params...))
	if err != nil {
		return err
	}

	var envelope struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// call is the typed form of Call returning the result tuple
func call[T any](ctx context.Context, c *Client, endpoint Endpoint, method Method, version string, params ...any) (T, error) {
	var resp Response[T]
	if err := c.Call(ctx, endpoint, method, version, params, &resp); err != nil {
		var zero T
		return zero, err
	}
	return resp.Result, nil
}

// first returns the leading element of a result tuple
func first[T any](method Method, items []T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, fmt.Errorf("%s: %w", method, ErrEmptyResult)
	}
	return items[0], nil
}

// post sends one request to endpoint and returns the body of a 2xx reply
func (c *Client) post(ctx context.Context, endpoint Endpoint, body io.Reader, headers func(http.Header)) ([]byte, error) {
	url := c.baseURL + string(endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	headers(req.Header)
	if c.psk != "" {
		req.Header.Set(pskHeader, c.psk)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	if c.mode.Debug {
		c.logger.Debug().
			Str("url", url).
			Int("status", resp.StatusCode).
			Int("bytes", len(respBody)).
			Msg("Request completed")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	return respBody, nil
}
