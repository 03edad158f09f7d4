package decode

import "github.com/guided-traffic/http-ingest/internal/ingest"

// Raw is the universal fallback: any content type not otherwise recognized
// is kept as opaque bytes. It is total over byte input.
type Raw struct{}

// Decode implements ingest.Decoder.
func (Raw) Decode(data []byte) (*ingest.Body, error) {
	return &ingest.Body{Kind: ingest.KindRaw, Raw: data}, nil
}
