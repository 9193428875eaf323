package stream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/baysaint/voscribe/internal/audio"
)

// ErrUnreadable means a waveform that conversion claimed to have produced
// cannot be opened or parsed. This is an internal invariant violation,
// not a recoverable user error.
var ErrUnreadable = errors.New("waveform unreadable")

// Streamer reads the raw PCM payload of a WAV file in fixed-size chunks,
// tracking cumulative progress. Single pass; Open again to restart.
type Streamer struct {
	f         *os.File
	chunkSize int
	total     int64
	consumed  int64
	done      bool
}

// Open parses the WAV header of path and positions the reader at the
// start of the sample payload.
func Open(path string, chunkSize int) (*Streamer, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrUnreadable, chunkSize)
	}

	info, err := audio.ReadFileInfo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	if _, err := f.Seek(info.DataOffset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}

	return &Streamer{f: f, chunkSize: chunkSize, total: info.DataSize}, nil
}

// Next returns the next chunk and the cumulative fraction of the payload
// consumed, clamped to [0,1]. The final chunk may be shorter than the
// chunk size; a zero-length payload yields a single empty chunk at 1.0.
// Returns io.EOF after the last chunk.
func (s *Streamer) Next() ([]byte, float64, error) {
	if s.done {
		return nil, 1.0, io.EOF
	}

	if s.total == 0 {
		s.done = true
		return []byte{}, 1.0, nil
	}

	remaining := s.total - s.consumed
	if remaining <= 0 {
		s.done = true
		return nil, 1.0, io.EOF
	}

	size := int64(s.chunkSize)
	if remaining < size {
		size = remaining
	}

	chunk := make([]byte, size)
	n, err := io.ReadFull(s.f, chunk)
	if err != nil && n == 0 {
		return nil, s.fraction(), fmt.Errorf("%w: read: %v", ErrUnreadable, err)
	}
	chunk = chunk[:n]
	s.consumed += int64(n)

	// Short read means the file shrank underneath us; treat what we got
	// as the last chunk.
	if int64(n) < size || s.consumed >= s.total {
		s.done = true
		return chunk, 1.0, nil
	}
	return chunk, s.fraction(), nil
}

func (s *Streamer) fraction() float64 {
	if s.total == 0 {
		return 1.0
	}
	f := float64(s.consumed) / float64(s.total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Total returns the payload size in bytes.
func (s *Streamer) Total() int64 { return s.total }

func (s *Streamer) Close() error {
	return s.f.Close()
}
