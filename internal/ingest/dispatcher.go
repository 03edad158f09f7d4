package ingest

import (
	"github.com/sirupsen/logrus"

	"github.com/guided-traffic/http-ingest/internal/monitoring"
)

// Decoder converts a fully drained body buffer into one ParsedBody variant.
// Decoders never block and never perform I/O.
type Decoder interface {
	Decode(data []byte) (*Body, error)
}

// DecoderSet maps a resolver selection to a decoder implementation. The set
// is process-wide static configuration, read-only after construction.
type DecoderSet interface {
	// For returns the decoder for sel, or nil when sel carries no decoder.
	For(sel Selection) Decoder
}

// Dispatcher orchestrates body ingestion for a single request: resolve a
// decoder from the Content-Type header, drain the transport, invoke the
// decoder. All failures are absorbed here and converted to "not parsed";
// nothing escapes to the caller.
type Dispatcher struct {
	logger   *logrus.Entry
	reader   *BodyReader
	decoders DecoderSet
}

// NewDispatcher creates a dispatcher draining with readBufferSize-sized
// chunk buffers.
func NewDispatcher(logger *logrus.Entry, decoders DecoderSet, readBufferSize int) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		reader:   NewBodyReader(readBufferSize),
		decoders: decoders,
	}
}

// Dispatch attempts to parse req's body. A nil result means "not parsed" and
// covers missing framing headers, unresolvable content types, transport
// failures and decoder failures alike. A request whose body was already
// parsed returns the stored result without touching the transport. A prior
// failed attempt is not remembered: if the surrounding framework invokes the
// stage again, the (by then consumed) stream is re-read. That re-entrancy
// characteristic is inherited, not a guarantee.
func (d *Dispatcher) Dispatch(req *Request) *Body {
	if req.Body != nil {
		return req.Body
	}

	// Without both headers the body cannot be reliably framed.
	if req.Header.Get("Content-Length") == "" || req.Header.Get("Content-Type") == "" {
		return nil
	}

	contentType := req.Header.Get("Content-Type")
	sel := Resolve(contentType)
	if sel.Decoder == DecoderNone {
		d.logger.WithField("content_type", contentType).Debug("No decoder for content type")
		return nil
	}

	// Set before the first read so collaborators can tell the stream has
	// been touched even if the parse fails below.
	req.BodyParserCalled = true

	data, err := d.reader.ReadAll(req.Source)
	if err != nil {
		d.logger.WithError(err).WithField("content_type", contentType).Error("Failed to read request body")
		return nil
	}
	monitoring.RecordBytesDrained(len(data))

	dec := d.decoders.For(sel)
	if dec == nil {
		return nil
	}

	body, err := dec.Decode(data)
	if err != nil {
		d.logger.WithError(err).WithFields(logrus.Fields{
			"content_type": contentType,
			"decoder":      sel.Decoder.String(),
		}).Debug("Failed to decode request body")
		return nil
	}

	return body
}
