package audio

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestFileProber_Probe_WAV(t *testing.T) {
	spec := Spec{SampleRate: 44100, Channels: 2, SampleWidth: 2}
	path := writeTempFile(t, "in.wav", EncodeWAV(make([]byte, 64), spec))

	got, err := NewProber().Probe(path)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	if got != spec {
		t.Errorf("Probe() = %v, want %v", got, spec)
	}
}

func TestFileProber_Probe_KnownContainers(t *testing.T) {
	pad := func(b []byte) []byte {
		for len(b) < 16 {
			b = append(b, 0)
		}
		return b
	}

	tests := []struct {
		name   string
		header []byte
	}{
		{"mp3 with id3 tag", pad([]byte("ID3\x04\x00\x00"))},
		{"mp3 frame sync", pad([]byte{0xFF, 0xFB, 0x90, 0x00})},
		{"ogg", pad([]byte("OggS\x00"))},
		{"flac", pad([]byte("fLaC\x00\x00\x00\x22"))},
		{"webm", pad([]byte{0x1A, 0x45, 0xDF, 0xA3})},
		{"aiff", pad([]byte("FORM\x00\x00\x00\x00AIFF"))},
		{"m4a", pad([]byte{0, 0, 0, 0x20, 'f', 't', 'y', 'p', 'M', '4', 'A', ' '})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "in.bin", tt.header)

			spec, err := NewProber().Probe(path)
			if err != nil {
				t.Fatalf("Probe() error = %v", err)
			}
			// Compressed containers report the zero spec: the real layout
			// is only known after conversion.
			if spec != (Spec{}) {
				t.Errorf("Probe() = %v, want zero spec", spec)
			}
			if spec.Conforms(TargetSpec()) {
				t.Errorf("zero spec must not conform to the target")
			}
		})
	}
}

func TestFileProber_Probe_NonPCMWAV(t *testing.T) {
	// Windows and pro-audio encoders emit WAVE_FORMAT_EXTENSIBLE or IEEE
	// float WAVs; those must route to conversion, not be rejected.
	spec := Spec{SampleRate: 16000, Channels: 1, SampleWidth: 2}

	tests := []struct {
		name   string
		format uint16
	}{
		{"extensible", 0xFFFE},
		{"ieee float", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wav := EncodeWAV(make([]byte, 64), spec)
			binary.LittleEndian.PutUint16(wav[20:22], tt.format)
			path := writeTempFile(t, "in.wav", wav)

			got, err := NewProber().Probe(path)
			if err != nil {
				t.Fatalf("Probe() error = %v, want conversion routing", err)
			}
			if got != (Spec{}) {
				t.Errorf("Probe() = %v, want zero spec", got)
			}
			if got.Conforms(TargetSpec()) {
				t.Errorf("non-PCM WAV must not skip conversion")
			}
		})
	}
}

func TestFileProber_Probe_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewProber().Probe(filepath.Join(t.TempDir(), "nope.wav"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Probe() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown magic", func(t *testing.T) {
		path := writeTempFile(t, "in.txt", []byte("just some text, not audio"))
		_, err := NewProber().Probe(path)
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("Probe() error = %v, want ErrUnsupported", err)
		}
	})

	t.Run("corrupt wav headers", func(t *testing.T) {
		path := writeTempFile(t, "in.wav", []byte("RIFF\x24\x00\x00\x00WAVE"))
		_, err := NewProber().Probe(path)
		if !errors.Is(err, ErrUnsupported) {
			t.Errorf("Probe() error = %v, want ErrUnsupported", err)
		}
	})
}
