package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid handle configuration
	ErrInvalidConfig = errors.New("invalid api configuration")
	// ErrTransport is wrapped by every TransportError
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse is wrapped by every MalformedResponseError
	ErrMalformedResponse = errors.New("malformed response")
	// ErrDecompression is wrapped by every DecompressionError
	ErrDecompression = errors.New("decompression failed")
	// ErrAPI is matched by every APIError
	ErrAPI = errors.New("api error envelope")

	errTrailingData = errors.New("unexpected data after top-level value")
)

// TransportError is returned when the request could not be completed or the
// server answered with a non-2xx status. The message is the raw response body.
type TransportError struct {
	StatusCode int
	Status     string
	Body       string
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Err != nil && !errors.Is(e.Err, ErrTransport) {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%d %s", e.StatusCode, e.Status)
	}
	return ErrTransport.Error()
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// IsNotFound checks if the server answered 404
func (e *TransportError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the server rejected the credentials
func (e *TransportError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// MalformedResponseError is returned when a JSON body could not be parsed.
type MalformedResponseError struct {
	Body []byte
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedResponse, e.Err)
}

func (e *MalformedResponseError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}

// DecompressionError is returned when a gzip body could not be inflated.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrDecompression, e.Err)
}

func (e *DecompressionError) Unwrap() []error {
	return []error{ErrDecompression, e.Err}
}

// ErrorSource points at the part of the request an ErrorDetail refers to.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// ErrorDetail is one entry of an error envelope.
type ErrorDetail struct {
	ID     string       `json:"id,omitempty"`
	Status string       `json:"status,omitempty"`
	Code   string       `json:"code,omitempty"`
	Title  string       `json:"title,omitempty"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorEnvelope is a JSON body carrying an errors array.
type ErrorEnvelope struct {
	Errors []ErrorDetail `json:"errors"`

	// Document is the revived form of the whole body.
	Document any `json:"-"`
}

// APIError is returned when the transport succeeded and the body parsed, but
// the payload is an error envelope.
type APIError struct {
	Envelope   ErrorEnvelope
	StatusCode int
	Status     string
	// EnvelopeErr is set when some entries did not fit ErrorDetail. The raw
	// entries are still available through Envelope.Document.
	EnvelopeErr error
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Status)
}

// Is lets errors.Is(err, ErrAPI) match any APIError.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Titles returns the title of every envelope entry, falling back to the code.
func (e *APIError) Titles() []string {
	titles := make([]string, 0, len(e.Envelope.Errors))
	for _, d := range e.Envelope.Errors {
		if d.Title != "" {
			titles = append(titles, d.Title)
			continue
		}
		titles = append(titles, d.Code)
	}
	return titles
}
