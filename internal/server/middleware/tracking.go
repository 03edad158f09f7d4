package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type requestIDKey struct{}

// RequestTracker assigns request IDs and tracks active requests for graceful
// shutdown.
type RequestTracker struct {
	logger              *logrus.Entry
	requestStartHandler func()
	requestEndHandler   func()
}

// NewRequestTracker creates a new request tracker middleware
func NewRequestTracker(logger *logrus.Entry) *RequestTracker {
	return &RequestTracker{
		logger: logger,
	}
}

// SetHandlers sets the start and end handlers for request tracking
func (rt *RequestTracker) SetHandlers(onStart, onEnd func()) {
	rt.requestStartHandler = onStart
	rt.requestEndHandler = onEnd
}

// Middleware returns the HTTP middleware function
func (rt *RequestTracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID))

		if rt.requestStartHandler != nil {
			rt.requestStartHandler()
		}

		defer func() {
			if rt.requestEndHandler != nil {
				rt.requestEndHandler()
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// RequestIDFromContext returns the request ID assigned by the tracker, or ""
// when the tracker has not run.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
