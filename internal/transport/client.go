// Package transport provides the shared HTTP client used against both
// remote systems, with per-request authentication and a fixed short
// timeout so a hung endpoint cannot stall a run indefinitely.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jfenner/leasesync/pkg/errors"
)

// DefaultHTTPTimeout bounds every remote call.
var DefaultHTTPTimeout = 10 * time.Second

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
}

// Option configures a transport client.
type Option func(*Client)

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithTLSConfig sets the TLS configuration for the client, used to skip
// verification or trust a private CA bundle.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		if cfg == nil {
			return
		}
		c.http.Transport = &http.Transport{TLSClientConfig: cfg}
	}
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
		auth: auth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication and common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI("transport", url, err)
	}
	return c.Do(req)
}

// PostJSON performs a POST request with an optional JSON body.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	return c.writeJSON(ctx, http.MethodPost, url, body)
}

// PutJSON performs a PUT request with a JSON body.
func (c *Client) PutJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	return c.writeJSON(ctx, http.MethodPut, url, body)
}

func (c *Client) writeJSON(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.WrapParse("json", "request body", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, errors.WrapAPI("transport", url, err)
	}
	return c.Do(req)
}
