package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures an API handle.
type Option func(*handleOptions) error

// handleOptions holds configuration options for the API handle.
type handleOptions struct {
	httpClient *http.Client
	timeout    *time.Duration
	userAgent  string
	logger     *zerolog.Logger
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *handleOptions) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		o.httpClient = hc
		return nil
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *handleOptions) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *handleOptions) error {
		o.userAgent = userAgent
		return nil
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *handleOptions) error {
		o.logger = &logger
		return nil
	}
}

// ContentType is the media type requested through the Accept header.
type ContentType string

const (
	ContentTypeJSON ContentType = "application/json"
	ContentTypeGZIP ContentType = "application/a-gzip"
)

// Options are the per-call request options.
type Options struct {
	// Query is sanitized and encoded into the query string. nil sends none.
	Query any
	// Body is JSON-encoded into the request body when non-nil.
	Body any
	// Accept defaults to ContentTypeJSON.
	Accept ContentType
}

func (o Options) accept() ContentType {
	if o.Accept == "" {
		return ContentTypeJSON
	}
	return o.Accept
}
