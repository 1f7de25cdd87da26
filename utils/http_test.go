package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("successful write", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"Hello": "World"}

		err := WriteJSON(w, http.StatusOK, data)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response map[string]string
		err = json.NewDecoder(w.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, "World", response["Hello"])
	})

	t.Run("nil data", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteJSON(w, http.StatusNoContent, nil)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestWriteOK(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteOK(w, []map[string]string{{"index": "0"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"index":"0"}]`, w.Body.String())
}

func TestWriteBytes(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteBytes(w, http.StatusOK, "audio/mp3", []byte{0xff, 0xfb})
	require.NoError(t, err)

	assert.Equal(t, "audio/mp3", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0xff, 0xfb}, w.Body.Bytes())
}

func TestWriteUnprocessable(t *testing.T) {
	t.Run("with fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		fields := []FieldError{{Loc: []string{"body", "text"}, Msg: "text must not be empty", Type: ErrorTypeValue}}

		err := WriteUnprocessable(w, fields)
		require.NoError(t, err)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"detail":[{"loc":["body","text"],"msg":"text must not be empty","type":"value_error"}]}`, w.Body.String())
	})

	t.Run("nil fields encode as empty list", func(t *testing.T) {
		w := httptest.NewRecorder()

		err := WriteUnprocessable(w, nil)
		require.NoError(t, err)

		assert.JSONEq(t, `{"detail":[]}`, w.Body.String())
	})
}

func TestWriteUnauthorized(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteUnauthorized(w, "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, w.Body.String())
}

func TestWriteInternalServerError(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{name: "with message", message: "connection refused", expected: `{"detail":"connection refused"}`},
		{name: "empty message falls back", message: "", expected: `{"detail":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			err := WriteInternalServerError(w, tt.message)
			require.NoError(t, err)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		message  string
		expected string
	}{
		{name: "not found default", status: http.StatusNotFound, expected: `{"detail":"Not Found"}`},
		{name: "internal", status: http.StatusInternalServerError, message: "boom", expected: `{"detail":"boom"}`},
		{name: "other status uses status text", status: http.StatusServiceUnavailable, expected: `{"detail":"Service Unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			err := WriteError(w, tt.status, tt.message)
			require.NoError(t, err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.expected, w.Body.String())
		})
	}
}
