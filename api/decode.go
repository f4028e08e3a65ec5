package api

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Result is a decoded response body. A nil *Result is the absent value
// returned for empty bodies; its methods are nil-safe.
type Result struct {
	ContentType ContentType
	StatusCode  int
	Status      string

	raw []byte
	doc any
}

// Absent reports whether the response carried no body.
func (r *Result) Absent() bool { return r == nil }

// Bytes returns the inflated text for gzip results or the raw JSON otherwise.
func (r *Result) Bytes() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// Text returns Bytes as a string.
func (r *Result) Text() string {
	return string(r.Bytes())
}

// Document returns the revived JSON tree. It is nil for gzip results.
func (r *Result) Document() any {
	if r == nil {
		return nil
	}
	return r.doc
}

// Unmarshal decodes the raw JSON body into dst with encoding/json.
func (r *Result) Unmarshal(dst any) error {
	if r == nil {
		return nil
	}
	if err := json.Unmarshal(r.raw, dst); err != nil {
		return &MalformedResponseError{Body: r.raw, Err: err}
	}
	return nil
}

// Decode turns a buffered body into a Result. statusCode and status are the
// values captured when the response was received and end up in any APIError.
func Decode(body []byte, accept ContentType, statusCode int, status string) (*Result, error) {
	if len(body) == 0 {
		return nil, nil
	}

	res := &Result{
		ContentType: accept,
		StatusCode:  statusCode,
		Status:      status,
	}

	if accept == ContentTypeGZIP {
		text, err := Gunzip(body)
		if err != nil {
			return nil, err
		}
		res.raw = text
		return res, nil
	}

	doc, err := parseJSON(body)
	if err != nil {
		return nil, err
	}
	res.raw = body
	res.doc = doc

	if obj, ok := doc.(map[string]any); ok {
		if _, isArray := obj["errors"].([]any); isArray {
			return nil, newAPIError(body, doc, statusCode, status)
		}
	}

	return res, nil
}

// Gunzip inflates a gzip payload, including multi-member streams.
func Gunzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	return out, nil
}

func parseJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &MalformedResponseError{Body: body, Err: err}
	}
	if dec.More() {
		return nil, &MalformedResponseError{Body: body, Err: errTrailingData}
	}
	return ReviveTree(doc), nil
}

func newAPIError(body []byte, doc any, statusCode int, status string) *APIError {
	var envelope ErrorEnvelope
	err := json.Unmarshal(body, &envelope)
	envelope.Document = doc

	return &APIError{
		Envelope:    envelope,
		StatusCode:  statusCode,
		Status:      status,
		EnvelopeErr: err,
	}
}
