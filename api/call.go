package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Call performs one request against path and decodes the response according
// to opts.Accept. A nil Result with a nil error means the body was empty.
func (a *API) Call(ctx context.Context, method, path string, opts Options) (*Result, error) {
	req, err := a.newRequest(ctx, method, path, opts)
	if err != nil {
		return nil, err
	}

	resp, body, err := a.doRequest(req)
	if err != nil {
		return nil, err
	}

	res, err := Decode(body, opts.accept(), resp.StatusCode, statusText(resp))
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.EnvelopeErr != nil {
		a.logger.Debug().Err(apiErr.EnvelopeErr).Msg("Error envelope did not fully decode")
	}
	return res, err
}

// ResolveURL joins path onto the base URL and appends the encoded query. A
// query string already present in path is kept and extended.
func (a *API) ResolveURL(path string, query any) string {
	endpoint := a.baseURL + "/" + strings.TrimLeft(path, "/")
	if qs, ok := EncodeQuery(query); ok && qs != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + qs
	}
	return endpoint
}

func (a *API) newRequest(ctx context.Context, method, path string, opts Options) (*http.Request, error) {
	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), a.ResolveURL(path, opts.Query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	accept := opts.accept()
	req.Header.Set("Accept", string(accept))
	if accept == ContentTypeGZIP {
		// keep net/http from inflating the payload on our behalf
		req.Header.Set("Accept-Encoding", "identity")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", string(ContentTypeJSON))
	}
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	return req, nil
}

// doRequest sends req and buffers the whole body.
func (a *API) doRequest(req *http.Request) (*http.Response, []byte, error) {
	a.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("accept", req.Header.Get("Accept")).
		Msg("Making API request")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, &TransportError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &TransportError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	a.logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("API response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &TransportError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       string(body),
		}
	}

	return resp, body, nil
}

// statusText returns the reason phrase without the numeric code.
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
