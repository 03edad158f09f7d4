package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guided-traffic/http-ingest/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		BindAddress: "127.0.0.1:0",
		LogLevel:    "error",
		LogFormat:   "text",
		Ingest: config.IngestConfig{
			MaxBodySize:    1024 * 1024,
			ReadBufferSize: 64 * 1024,
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(testConfig())
	require.NoError(t, err)
	return s
}

func doRequest(s *Server, method, path, contentType, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Length", "1") // presence is what matters to the stage
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(s, "GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_Version(t *testing.T) {
	SetBuildInfo("1.2.3", "abc123", "2026-01-01")
	s := newTestServer(t)

	rec := doRequest(s, "GET", "/version", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "http-ingest", payload["service"])
	assert.Equal(t, "1.2.3", payload["version"])
}

func TestServer_Inspect(t *testing.T) {
	s := newTestServer(t)

	t.Run("JSON body", func(t *testing.T) {
		rec := doRequest(s, "POST", "/inspect", "application/json; charset=utf-8", `{"k":"v"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, true, resp["parsed"])
		assert.Equal(t, "json", resp["kind"])
	})

	t.Run("Form body", func(t *testing.T) {
		rec := doRequest(s, "POST", "/inspect", "application/x-www-form-urlencoded", "a=1&b=2")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Parsed bool              `json:"parsed"`
			Kind   string            `json:"kind"`
			Form   map[string]string `json:"form"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Parsed)
		assert.Equal(t, "form", resp.Kind)
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, resp.Form)
	})

	t.Run("Unknown content type falls back to raw", func(t *testing.T) {
		rec := doRequest(s, "PUT", "/inspect", "application/octet-stream", "binary!")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "raw", resp["kind"])
		assert.Equal(t, float64(7), resp["raw_bytes"])
	})

	t.Run("Unparseable body reported as not parsed", func(t *testing.T) {
		rec := doRequest(s, "POST", "/inspect", "application/json", "not json")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, false, resp["parsed"])
	})
}

func TestServer_Echo(t *testing.T) {
	s := newTestServer(t)

	t.Run("Text round-trips", func(t *testing.T) {
		rec := doRequest(s, "POST", "/echo", "text/plain; charset=utf-8", "hello there")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello there", rec.Body.String())
	})

	t.Run("No parsed body yields 204", func(t *testing.T) {
		rec := doRequest(s, "POST", "/echo", "multipart/form-data", "unframed")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
