package stream

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/baysaint/voscribe/internal/audio"
)

func writeWAV(t *testing.T, pcm []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	if err := os.WriteFile(path, audio.EncodeWAV(pcm, audio.TargetSpec()), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestStreamer_RoundTrip(t *testing.T) {
	pcm := make([]byte, 1000)
	for i := range pcm {
		pcm[i] = byte(i % 251)
	}
	path := writeWAV(t, pcm)

	// Chunk sizes that divide the payload, that don't, that exceed it,
	// and the degenerate size 1.
	for _, chunkSize := range []int{1, 7, 100, 250, 333, 1000, 4096} {
		s, err := Open(path, chunkSize)
		if err != nil {
			t.Fatalf("Open(chunk=%d) error = %v", chunkSize, err)
		}

		var got []byte
		lastFraction := 0.0
		for {
			chunk, fraction, err := s.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("Next(chunk=%d) error = %v", chunkSize, err)
			}
			if len(chunk) > chunkSize {
				t.Errorf("chunk of %d bytes exceeds chunk size %d", len(chunk), chunkSize)
			}
			if fraction < lastFraction {
				t.Errorf("fraction went backwards: %f after %f", fraction, lastFraction)
			}
			if fraction < 0 || fraction > 1 {
				t.Errorf("fraction %f out of [0,1]", fraction)
			}
			lastFraction = fraction
			got = append(got, chunk...)
		}

		if !bytes.Equal(got, pcm) {
			t.Errorf("chunk=%d: reassembled payload differs from original", chunkSize)
		}
		if lastFraction != 1.0 {
			t.Errorf("chunk=%d: final fraction = %f, want exactly 1.0", chunkSize, lastFraction)
		}
		s.Close()
	}
}

func TestStreamer_ZeroPayload(t *testing.T) {
	s, err := Open(writeWAV(t, nil), 4096)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	chunk, fraction, err := s.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if len(chunk) != 0 {
		t.Errorf("chunk = %d bytes, want empty", len(chunk))
	}
	if fraction != 1.0 {
		t.Errorf("fraction = %f, want 1.0", fraction)
	}

	if _, _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("second Next() error = %v, want io.EOF", err)
	}
}

func TestStreamer_EOFIsSticky(t *testing.T) {
	s, err := Open(writeWAV(t, make([]byte, 10)), 4096)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if _, _, err := s.Next(); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, _, err := s.Next(); !errors.Is(err, io.EOF) {
			t.Errorf("Next() after end error = %v, want io.EOF", err)
		}
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Run("invalid chunk size", func(t *testing.T) {
		if _, err := Open(writeWAV(t, nil), 0); !errors.Is(err, ErrUnreadable) {
			t.Errorf("Open() error = %v, want ErrUnreadable", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Open(filepath.Join(t.TempDir(), "gone.wav"), 4096); !errors.Is(err, ErrUnreadable) {
			t.Errorf("Open() error = %v, want ErrUnreadable", err)
		}
	})

	t.Run("not a wav", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.wav")
		if err := os.WriteFile(path, []byte("not audio"), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Open(path, 4096); !errors.Is(err, ErrUnreadable) {
			t.Errorf("Open() error = %v, want ErrUnreadable", err)
		}
	})
}

func TestStreamer_Total(t *testing.T) {
	s, err := Open(writeWAV(t, make([]byte, 480)), 100)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if s.Total() != 480 {
		t.Errorf("Total() = %d, want 480", s.Total())
	}
}
