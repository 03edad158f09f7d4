package ingest

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guided-traffic/http-ingest/internal/monitoring"
)

type contextKey struct{}

// requestKey stores the *Request carrier so repeated stage invocations for
// the same request reuse one parse state.
var requestKey contextKey

// PipelineStage runs body ingestion as one link of the middleware chain.
// Parsing is fail-open: whatever the outcome, the next handler always runs.
// Body parsing is a convenience for handlers that want it, not a gate.
type PipelineStage struct {
	logger     *logrus.Entry
	dispatcher *Dispatcher
}

// NewPipelineStage creates the ingestion middleware.
func NewPipelineStage(logger *logrus.Entry, decoders DecoderSet, readBufferSize int) *PipelineStage {
	return &PipelineStage{
		logger:     logger,
		dispatcher: NewDispatcher(logger, decoders, readBufferSize),
	}
}

// Middleware returns the HTTP middleware function.
func (s *PipelineStage) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := r.Context().Value(requestKey).(*Request)
		if !ok {
			req = FromHTTP(r)
			r = r.WithContext(context.WithValue(r.Context(), requestKey, req))
		}

		start := time.Now()
		body := s.dispatcher.Dispatch(req)
		if body != nil {
			req.Body = body
		}

		decoder := "none"
		outcome := "not_parsed"
		if body != nil {
			decoder = body.Kind.String()
			outcome = "parsed"
		}
		monitoring.RecordBodyParse(decoder, outcome, time.Since(start))

		next.ServeHTTP(w, r)
	})
}

// BodyFromContext returns the parsed body stored for this request, or nil
// when no body was parsed. Handlers must treat nil as "body was not parseable
// or not present", not as an error signal.
func BodyFromContext(ctx context.Context) *Body {
	if req, ok := ctx.Value(requestKey).(*Request); ok {
		return req.Body
	}
	return nil
}

// RequestFromContext returns the per-request parse state, or nil when the
// pipeline stage has not run for this request.
func RequestFromContext(ctx context.Context) *Request {
	req, _ := ctx.Value(requestKey).(*Request)
	return req
}
