package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource yields chunks of the scripted sizes, filled with 'a', and
// counts how often it is read.
type scriptedSource struct {
	sizes []int
	calls int
	err   error // returned once the script is exhausted, instead of EOF
}

func (s *scriptedSource) ReadChunk(p []byte) (int, error) {
	s.calls++
	if len(s.sizes) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, nil
	}

	n := s.sizes[0]
	s.sizes = s.sizes[1:]
	for i := 0; i < n; i++ {
		p[i] = 'a'
	}
	return n, nil
}

func TestBodyReader_ReadAll(t *testing.T) {
	t.Run("Drains chunked source until zero-length read", func(t *testing.T) {
		src := &scriptedSource{sizes: []int{500, 500, 500, 500, 0}}
		reader := NewBodyReader(0)

		body, err := reader.ReadAll(src)
		require.NoError(t, err)
		assert.Len(t, body, 2000)
		assert.Equal(t, 5, src.calls, "one read per chunk plus the terminating zero-length read")
	})

	t.Run("Empty body", func(t *testing.T) {
		src := &scriptedSource{sizes: []int{0}}
		reader := NewBodyReader(0)

		body, err := reader.ReadAll(src)
		require.NoError(t, err)
		assert.Empty(t, body)
		assert.Equal(t, 1, src.calls)
	})

	t.Run("Transport error propagates unchanged", func(t *testing.T) {
		transportErr := errors.New("connection reset")
		src := &scriptedSource{sizes: []int{500}, err: transportErr}
		reader := NewBodyReader(0)

		_, err := reader.ReadAll(src)
		assert.ErrorIs(t, err, transportErr)
	})

	t.Run("Accumulates across buffer-sized chunks", func(t *testing.T) {
		payload := strings.Repeat("xyz", 1000)
		reader := NewBodyReader(7) // deliberately tiny buffer

		body, err := reader.ReadAll(NewReaderSource(strings.NewReader(payload)))
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
	})
}

func TestReaderSource(t *testing.T) {
	t.Run("Translates EOF into zero-length read", func(t *testing.T) {
		src := NewReaderSource(bytes.NewReader([]byte("hi")))
		buf := make([]byte, 16)

		n, err := src.ReadChunk(buf)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = src.ReadChunk(buf)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Nil reader behaves as empty body", func(t *testing.T) {
		src := NewReaderSource(nil)
		buf := make([]byte, 16)

		n, err := src.ReadChunk(buf)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
