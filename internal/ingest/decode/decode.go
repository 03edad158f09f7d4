// Package decode supplies the concrete decoders the ingestion dispatcher
// selects between. Every decoder operates on a fully drained byte buffer and
// performs no I/O.
package decode

import "github.com/guided-traffic/http-ingest/internal/ingest"

// Set maps resolver selections to decoder implementations. It is immutable
// after construction.
type Set struct {
	multipartMaxParts int
}

// NewSet creates the standard decoder set. multipartMaxParts caps the number
// of parts a multipart body may carry; 0 means unlimited.
func NewSet(multipartMaxParts int) *Set {
	return &Set{multipartMaxParts: multipartMaxParts}
}

// For implements ingest.DecoderSet.
func (s *Set) For(sel ingest.Selection) ingest.Decoder {
	switch sel.Decoder {
	case ingest.DecoderJSON:
		return JSON{}
	case ingest.DecoderForm:
		return Form{}
	case ingest.DecoderText:
		return Text{}
	case ingest.DecoderRaw:
		return Raw{}
	case ingest.DecoderMultipart:
		return Multipart{Boundary: sel.Boundary, MaxParts: s.multipartMaxParts}
	default:
		return nil
	}
}
