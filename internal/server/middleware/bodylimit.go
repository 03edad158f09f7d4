package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// BodyLimit caps request body sizes ahead of the ingestion stage. The body
// reader itself enforces no maximum, so the cap lives here: MaxBytesReader
// fails the drain with a read error once the limit is exceeded, which the
// dispatcher absorbs as "not parsed".
type BodyLimit struct {
	logger   *logrus.Entry
	maxBytes int64
}

// NewBodyLimit creates a body size limiting middleware. maxBytes <= 0
// disables the limit.
func NewBodyLimit(logger *logrus.Entry, maxBytes int64) *BodyLimit {
	return &BodyLimit{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// Middleware returns the HTTP middleware function
func (b *BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.maxBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, b.maxBytes)
		}

		next.ServeHTTP(w, r)
	})
}
