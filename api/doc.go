// Package api provides the request/response pipeline for the App Store
// Connect reporting API.
//
// # Architecture
//
// A call flows through these steps:
//
//   - Sanitize: query objects are normalized to scalars, slices and maps
//   - EncodeQuery: bracketed keys for nested maps, repeated keys for slices
//   - Call: one HTTP request with Accept, Authorization and JSON body
//   - Decode: gzip bodies are inflated, JSON bodies are parsed and revived
//   - Revive: string leaves become URL or date-time values when they parse
//
// # Usage
//
// Create a handle once and share it:
//
//	handle, err := api.New(api.DefaultBaseURL, token,
//		api.WithTimeout(60*time.Second),
//		api.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := handle.Get(ctx, "salesReports", api.Options{
//		Query:  map[string]any{"filter": map[string]any{"vendorNumber": "123"}},
//		Accept: api.ContentTypeGZIP,
//	})
//
// A nil *Result with a nil error means the server sent an empty body.
//
// # Error Handling
//
// The package defines four failure types:
//
//   - TransportError: network failure or non-2xx status; the message is the body
//   - MalformedResponseError: a JSON body that does not parse
//   - DecompressionError: a gzip body that does not inflate
//   - APIError: a parsed JSON body carrying an errors array
//
// Each matches its sentinel with errors.Is:
//
//	var apiErr *api.APIError
//	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
//		// refresh the token
//	}
package api
