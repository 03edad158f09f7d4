package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/guided-traffic/http-ingest/internal/ingest"
)

// Multipart decodes multipart/form-data bodies into an ordered part list.
// The boundary comes from the resolver's Content-Type parsing.
type Multipart struct {
	Boundary string

	// MaxParts caps the number of parts accepted; 0 means unlimited.
	MaxParts int
}

// Decode implements ingest.Decoder.
func (m Multipart) Decode(data []byte) (*ingest.Body, error) {
	if m.Boundary == "" {
		return nil, errors.New("multipart body without boundary")
	}

	reader := multipart.NewReader(bytes.NewReader(data), m.Boundary)

	var parts []ingest.Part
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed multipart body: %w", err)
		}

		if m.MaxParts > 0 && len(parts) >= m.MaxParts {
			return nil, fmt.Errorf("multipart body exceeds %d parts", m.MaxParts)
		}

		content, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("failed to read multipart part %q: %w", part.FormName(), err)
		}

		parts = append(parts, ingest.Part{
			Name:        part.FormName(),
			FileName:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        content,
		})
	}

	return &ingest.Body{Kind: ingest.KindMultipart, Parts: parts}, nil
}
