package api

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	t.Run("error envelope becomes APIError", func(t *testing.T) {
		res, err := Decode([]byte(`{"errors":[{"title":"bad"}]}`), ContentTypeJSON, 400, "Bad Request")
		require.Error(t, err)
		assert.Nil(t, res)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 400, apiErr.StatusCode)
		assert.Equal(t, "Bad Request", apiErr.Status)
		require.Len(t, apiErr.Envelope.Errors, 1)
		assert.Equal(t, "bad", apiErr.Envelope.Errors[0].Title)
		assert.Equal(t, []string{"bad"}, apiErr.Titles())
		assert.NotNil(t, apiErr.Envelope.Document)
		assert.Equal(t, "400 Bad Request", apiErr.Error())
		assert.ErrorIs(t, err, ErrAPI)
		assert.NoError(t, apiErr.EnvelopeErr)
	})

	t.Run("odd envelope entries keep the decode error", func(t *testing.T) {
		_, err := Decode([]byte(`{"errors":[{"title":"bad"},{"title":5}]}`), ContentTypeJSON, 422, "Unprocessable Entity")

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		require.Error(t, apiErr.EnvelopeErr)
		require.NotEmpty(t, apiErr.Envelope.Errors)
		assert.Equal(t, "bad", apiErr.Envelope.Errors[0].Title)
		assert.Len(t, apiErr.Envelope.Document.(map[string]any)["errors"], 2)
	})

	t.Run("errors that is not an array is data", func(t *testing.T) {
		res, err := Decode([]byte(`{"errors":"none"}`), ContentTypeJSON, 200, "OK")
		require.NoError(t, err)
		assert.Equal(t, KindString, res.Document().(map[string]any)["errors"].(Value).Kind())
	})

	t.Run("json document is revived", func(t *testing.T) {
		res, err := Decode([]byte(`{"data":{"date":"2020-09-01T00:00:00Z"}}`), ContentTypeJSON, 200, "OK")
		require.NoError(t, err)
		require.False(t, res.Absent())

		data := res.Document().(map[string]any)["data"].(map[string]any)
		assert.Equal(t, KindDateTime, data["date"].(Value).Kind())

		var typed struct {
			Data struct {
				Date string `json:"date"`
			} `json:"data"`
		}
		require.NoError(t, res.Unmarshal(&typed))
		assert.Equal(t, "2020-09-01T00:00:00Z", typed.Data.Date)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Decode([]byte(`{"data":`), ContentTypeJSON, 200, "OK")
		require.Error(t, err)

		var malformed *MalformedResponseError
		assert.True(t, errors.As(err, &malformed))
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("trailing data is malformed", func(t *testing.T) {
		_, err := Decode([]byte(`{} {}`), ContentTypeJSON, 200, "OK")
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})

	t.Run("gzip is inflated to text", func(t *testing.T) {
		res, err := Decode(gzipBytes(t, "Units\tProceeds\n10\t19.99\n"), ContentTypeGZIP, 200, "OK")
		require.NoError(t, err)
		assert.Equal(t, "Units\tProceeds\n10\t19.99\n", res.Text())
		assert.Nil(t, res.Document())
	})

	t.Run("broken gzip", func(t *testing.T) {
		_, err := Decode([]byte("definitely not gzip"), ContentTypeGZIP, 200, "OK")
		require.Error(t, err)

		var decompErr *DecompressionError
		assert.True(t, errors.As(err, &decompErr))
		assert.ErrorIs(t, err, ErrDecompression)
	})

	t.Run("empty body is absent for every accept type", func(t *testing.T) {
		for _, accept := range []ContentType{ContentTypeJSON, ContentTypeGZIP} {
			res, err := Decode(nil, accept, 200, "OK")
			require.NoError(t, err)
			assert.Nil(t, res)
			assert.True(t, res.Absent())
			assert.Empty(t, res.Text())
			assert.Nil(t, res.Document())
		}
	})
}
