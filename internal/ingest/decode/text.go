package decode

import "github.com/guided-traffic/http-ingest/internal/ingest"

// Text decodes text/* bodies. It is total over byte input.
type Text struct{}

// Decode implements ingest.Decoder.
func (Text) Decode(data []byte) (*ingest.Body, error) {
	return &ingest.Body{Kind: ingest.KindText, Text: string(data)}, nil
}
