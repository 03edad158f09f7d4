package ingest

import "io"

// DefaultReadBufferSize is the chunk buffer size used when none is configured.
const DefaultReadBufferSize = 64 * 1024

// ChunkSource is the transport capability the reader drains. ReadChunk fills
// p with the next available bytes and reports how many were written; a
// zero-length read signals end of body. The call blocks until the transport
// yields a chunk, an error, or EOF.
type ChunkSource interface {
	ReadChunk(p []byte) (int, error)
}

// BodyReader drains a ChunkSource into one contiguous buffer. It is the only
// component that touches the transport.
type BodyReader struct {
	bufSize int
}

// NewBodyReader creates a body reader with the given chunk buffer size.
func NewBodyReader(bufSize int) *BodyReader {
	if bufSize <= 0 {
		bufSize = DefaultReadBufferSize
	}
	return &BodyReader{bufSize: bufSize}
}

// ReadAll reads chunks until the source reports a zero-length read and
// returns everything accumulated. Completion is only ever claimed after
// observing an empty read; the Content-Length header is never consulted.
// A transport error is returned unchanged for the dispatcher to handle.
// No size cap is enforced at this layer; limiting belongs to an external
// guard ahead of the stage (see middleware.BodyLimit).
func (br *BodyReader) ReadAll(src ChunkSource) ([]byte, error) {
	var body []byte
	buf := make([]byte, br.bufSize)

	for {
		n, err := src.ReadChunk(buf)
		if err != nil {
			return body, err
		}
		if n == 0 {
			return body, nil
		}
		body = append(body, buf[:n]...)
	}
}

// ReaderSource adapts an io.Reader to the ChunkSource contract, translating
// io.EOF into the zero-length read the drain loop expects.
type ReaderSource struct {
	r io.Reader
}

// NewReaderSource wraps r; a nil reader behaves as an empty body.
func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

// ReadChunk implements ChunkSource.
func (s *ReaderSource) ReadChunk(p []byte) (int, error) {
	if s.r == nil {
		return 0, nil
	}

	n, err := s.r.Read(p)
	if err == io.EOF {
		// A final non-empty read is delivered as a chunk; the next call
		// yields the zero-length read that ends the drain.
		return n, nil
	}
	return n, err
}
