package decode

import (
	"fmt"
	"net/url"

	"github.com/guided-traffic/http-ingest/internal/ingest"
)

// Form decodes application/x-www-form-urlencoded bodies into a string map.
// When a key is repeated, the first value wins.
type Form struct{}

// Decode implements ingest.Decoder.
func (Form) Decode(data []byte) (*ingest.Body, error) {
	values, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid url-encoded body: %w", err)
	}

	form := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			form[key] = vals[0]
		}
	}

	return &ingest.Body{Kind: ingest.KindForm, Form: form}, nil
}
