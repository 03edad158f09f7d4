package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTracker_Middleware(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	tracker := NewRequestTracker(logger.WithField("component", "test"))

	t.Run("Assigns a request ID", func(t *testing.T) {
		var seen string
		handler := tracker.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
	})

	t.Run("Keeps a caller-supplied request ID", func(t *testing.T) {
		handler := tracker.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Request-Id", "client-chosen")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-chosen", rec.Header().Get("X-Request-Id"))
	})

	t.Run("Fires start and end handlers", func(t *testing.T) {
		starts, ends := 0, 0
		tracker.SetHandlers(func() { starts++ }, func() { ends++ })

		handler := tracker.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, 1, starts)
		assert.Equal(t, 1, ends)
	})
}

func TestBodyLimit_Middleware(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()

	t.Run("Reads within the limit succeed", func(t *testing.T) {
		limit := NewBodyLimit(logger.WithField("component", "test"), 64)

		handler := limit.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Equal(t, "small body", string(data))
		}))

		req := httptest.NewRequest("POST", "/", strings.NewReader("small body"))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	})

	t.Run("Reads past the limit fail", func(t *testing.T) {
		limit := NewBodyLimit(logger.WithField("component", "test"), 4)

		var readErr error
		handler := limit.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))

		req := httptest.NewRequest("POST", "/", strings.NewReader("this is longer than four bytes"))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Error(t, readErr)
	})

	t.Run("Zero disables the limit", func(t *testing.T) {
		limit := NewBodyLimit(logger.WithField("component", "test"), 0)

		handler := limit.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Len(t, data, 1024)
		}))

		req := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 1024)))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	})
}

func TestCORS_Middleware(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()
	cors := NewCORS(logger.WithField("component", "test"))

	t.Run("Sets CORS headers", func(t *testing.T) {
		handler := cors.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Short-circuits preflight requests", func(t *testing.T) {
		nextCalled := false
		handler := cors.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("OPTIONS", "/", nil))

		assert.False(t, nextCalled)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
