package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production endpoint of the reporting API.
const DefaultBaseURL = "https://api.appstoreconnect.apple.com/v1"

// API is an immutable handle on the reporting API. It is safe for concurrent
// use by multiple goroutines.
type API struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a handle for baseURL. An empty token sends no Authorization
// header.
func New(baseURL, token string, opts ...Option) (*API, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, baseURL)
	}

	var o handleOptions
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("applying api option: %w", err)
		}
	}

	a := &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		userAgent:  o.userAgent,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	if o.httpClient != nil {
		a.httpClient = o.httpClient
	}
	if o.timeout != nil {
		// copy so a shared client passed through WithHTTPClient is left alone
		hc := *a.httpClient
		hc.Timeout = *o.timeout
		a.httpClient = &hc
	}
	if o.logger != nil {
		a.logger = *o.logger
	}

	return a, nil
}

// BaseURL returns the base URL every path is resolved against.
func (a *API) BaseURL() string { return a.baseURL }

// HasToken reports whether calls are authenticated.
func (a *API) HasToken() bool { return a.token != "" }

// Head issues a HEAD request.
func (a *API) Head(ctx context.Context, path string, opts Options) (*Result, error) {
	return a.Call(ctx, http.MethodHead, path, opts)
}

// Get issues a GET request.
func (a *API) Get(ctx context.Context, path string, opts Options) (*Result, error) {
	return a.Call(ctx, http.MethodGet, path, opts)
}

// Post issues a POST request.
func (a *API) Post(ctx context.Context, path string, opts Options) (*Result, error) {
	return a.Call(ctx, http.MethodPost, path, opts)
}

// Put issues a PUT request.
func (a *API) Put(ctx context.Context, path string, opts Options) (*Result, error) {
	return a.Call(ctx, http.MethodPut, path, opts)
}

// Patch issues a PATCH request.
func (a *API) Patch(ctx context.Context, path string, opts Options) (*Result, error) {
	return a.Call(ctx, http.MethodPatch, path, opts)
}

// Delete issues a DELETE request.
func (a *API) Delete(ctx context.Context, path string, opts Options) (*Result, error) {
	return a.Call(ctx, http.MethodDelete, path, opts)
}
