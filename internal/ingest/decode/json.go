package decode

import (
	"encoding/json"
	"fmt"

	"github.com/guided-traffic/http-ingest/internal/ingest"
)

// JSON decodes application/json bodies into a generic value.
type JSON struct{}

// Decode implements ingest.Decoder.
func (JSON) Decode(data []byte) (*ingest.Body, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	return &ingest.Body{Kind: ingest.KindJSON, JSON: v}, nil
}
