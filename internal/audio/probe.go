package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Probe failure classification. The pipeline maps these onto its
// terminal error events.
var (
	ErrNotFound    = errors.New("input file not found")
	ErrUnsupported = errors.New("unsupported audio container")
)

// Prober inspects an input file and reports its sample layout.
type Prober interface {
	// Probe returns the file's Spec. For compressed containers the
	// decoder has to run before the PCM layout is known, so Probe
	// returns the zero Spec, which never conforms to a target.
	Probe(path string) (Spec, error)
}

// FileProber probes by container magic: WAV headers are parsed directly,
// other known audio containers are recognized but not decoded.
type FileProber struct{}

func NewProber() *FileProber { return &FileProber{} }

// containerMagics maps leading byte signatures to container names.
// Order matters: longer or offset signatures are checked explicitly.
var containerMagics = []struct {
	magic []byte
	name  string
}{
	{[]byte("ID3"), "mp3"},
	{[]byte("OggS"), "ogg"},
	{[]byte("fLaC"), "flac"},
	{[]byte{0x1A, 0x45, 0xDF, 0xA3}, "webm/mkv"},
	{[]byte("FORM"), "aiff"},
}

func (p *FileProber) Probe(path string) (Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Spec{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Spec{}, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Spec{}, fmt.Errorf("%w: %s: %v", ErrUnsupported, path, err)
	}
	header = header[:n]

	if len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return Spec{}, fmt.Errorf("%w: %s: %v", ErrUnsupported, path, err)
		}
		info, err := ReadInfo(f)
		if errors.Is(err, ErrNotPCM) {
			// Float or extensible WAV: the container is fine, the samples
			// just need decoding like any compressed input.
			log.Printf("Probe: %s is WAV with non-PCM samples, conversion required", filepath.Base(path))
			return Spec{}, nil
		}
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %s: %v", ErrUnsupported, path, err)
		}
		log.Printf("Probe: %s is WAV %s", filepath.Base(path), info.Spec)
		return info.Spec, nil
	}

	if name, ok := sniffContainer(header); ok {
		log.Printf("Probe: %s is %s, conversion required", filepath.Base(path), name)
		return Spec{}, nil
	}

	return Spec{}, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

func sniffContainer(header []byte) (string, bool) {
	for _, m := range containerMagics {
		if bytes.HasPrefix(header, m.magic) {
			return m.name, true
		}
	}
	// MP3 without ID3 tag: frame sync 0xFFEx.
	if len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0 {
		return "mp3", true
	}
	// MP4-family containers carry "ftyp" at offset 4.
	if len(header) >= 8 && bytes.Equal(header[4:8], []byte("ftyp")) {
		return "m4a/mp4", true
	}
	return "", false
}
