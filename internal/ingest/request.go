package ingest

import "net/http"

// Request carries the per-request parse state the dispatcher and pipeline
// stage operate on. It is exclusively owned by the goroutine serving the
// request and never shared across requests, so no locking is needed.
type Request struct {
	Header http.Header
	Source ChunkSource

	// Body is the parsed-body slot: nil until a successful parse, written at
	// most once.
	Body *Body

	// BodyParserCalled is set as soon as the dispatcher starts draining,
	// whether or not the parse later succeeds. Collaborators use it to tell
	// that the underlying stream has been consumed.
	BodyParserCalled bool
}

// FromHTTP wraps an *http.Request for ingestion. Chunked requests carry no
// Content-Length header and are deliberately left unparsed: without both
// framing headers the dispatcher never touches the transport.
func FromHTTP(r *http.Request) *Request {
	var body ChunkSource
	if r.Body != nil && r.Body != http.NoBody {
		body = NewReaderSource(r.Body)
	} else {
		body = NewReaderSource(nil)
	}

	return &Request{
		Header: r.Header,
		Source: body,
	}
}
