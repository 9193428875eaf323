package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Spec describes a PCM waveform layout: sample rate in Hz, channel count,
// and bytes per sample. The recognition engine only ever accepts data
// conforming to one fixed Spec.
type Spec struct {
	SampleRate  int
	Channels    int
	SampleWidth int
}

// TargetSpec is the fixed format the recognition engine requires:
// 16 kHz, mono, 16-bit little-endian PCM.
func TargetSpec() Spec {
	return Spec{SampleRate: 16000, Channels: 1, SampleWidth: 2}
}

func (s Spec) Conforms(target Spec) bool {
	return s.SampleRate == target.SampleRate &&
		s.Channels == target.Channels &&
		s.SampleWidth == target.SampleWidth
}

func (s Spec) String() string {
	return fmt.Sprintf("%dHz/%dch/%d-bit", s.SampleRate, s.Channels, s.SampleWidth*8)
}

// Info describes a parsed WAV file: its sample spec and where the raw
// PCM payload lives inside the container.
type Info struct {
	Spec       Spec
	DataOffset int64
	DataSize   int64
}

var (
	// ErrNotWave means the file is not a RIFF/WAVE container.
	ErrNotWave = errors.New("not a WAV file")
	// ErrMalformed means the container headers are present but unparsable.
	ErrMalformed = errors.New("malformed WAV file")
	// ErrNotPCM means the container is WAV but the samples are not plain
	// PCM (IEEE float, WAVE_FORMAT_EXTENSIBLE). Such files stream only
	// after conversion.
	ErrNotPCM = errors.New("non-PCM WAV encoding")
)

// ReadInfo parses the RIFF chunk list of a WAV file without reading the
// audio payload. It walks chunks until both "fmt " and "data" are found,
// so files with extra chunks (LIST, INFO) parse correctly.
func ReadInfo(r io.ReadSeeker) (Info, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrNotWave, err)
	}
	if !bytes.Equal(riff[0:4], []byte("RIFF")) || !bytes.Equal(riff[8:12], []byte("WAVE")) {
		return Info{}, ErrNotWave
	}

	var info Info
	haveFmt := false
	haveData := false
	offset := int64(12)

	for !(haveFmt && haveData) {
		var header [8]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return Info{}, fmt.Errorf("%w: chunk header at offset %d: %v", ErrMalformed, offset, err)
		}
		chunkID := string(header[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(header[4:8]))
		offset += 8

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Info{}, fmt.Errorf("%w: fmt chunk too short (%d bytes)", ErrMalformed, chunkSize)
			}
			var fmtChunk [16]byte
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return Info{}, fmt.Errorf("%w: fmt chunk: %v", ErrMalformed, err)
			}
			audioFormat := binary.LittleEndian.Uint16(fmtChunk[0:2])
			if audioFormat != 1 {
				return Info{}, fmt.Errorf("%w: audio format %d", ErrNotPCM, audioFormat)
			}
			info.Spec.Channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			info.Spec.SampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			info.Spec.SampleWidth = int(binary.LittleEndian.Uint16(fmtChunk[14:16])) / 8
			haveFmt = true
			// Skip any fmt extension bytes.
			if rest := chunkSize - 16; rest > 0 {
				if _, err := r.Seek(rest+rest%2, io.SeekCurrent); err != nil {
					return Info{}, fmt.Errorf("%w: %v", ErrMalformed, err)
				}
				offset += rest + rest%2
			}
			offset += 16

		case "data":
			info.DataOffset = offset
			info.DataSize = chunkSize
			haveData = true
			if !haveFmt {
				// fmt chunk follows data in rare writers; keep walking.
				if _, err := r.Seek(chunkSize+chunkSize%2, io.SeekCurrent); err != nil {
					return Info{}, fmt.Errorf("%w: %v", ErrMalformed, err)
				}
				offset += chunkSize + chunkSize%2
			}

		default:
			// Chunks are word-aligned; odd sizes carry a pad byte.
			if _, err := r.Seek(chunkSize+chunkSize%2, io.SeekCurrent); err != nil {
				return Info{}, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			offset += chunkSize + chunkSize%2
		}
	}

	if info.Spec.Channels <= 0 || info.Spec.SampleRate <= 0 || info.Spec.SampleWidth <= 0 {
		return Info{}, fmt.Errorf("%w: invalid fmt values %v", ErrMalformed, info.Spec)
	}
	return info, nil
}

// ReadFileInfo opens path and parses its WAV headers.
func ReadFileInfo(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	info, err := ReadInfo(f)
	if err != nil {
		return Info{}, err
	}

	// Some encoders write a data size larger than what actually follows;
	// clamp to the bytes present so progress can reach exactly 1.0.
	stat, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	if avail := stat.Size() - info.DataOffset; avail < info.DataSize {
		if avail < 0 {
			avail = 0
		}
		info.DataSize = avail
	}
	return info, nil
}

// EncodeWAV wraps raw PCM bytes of the given spec in a minimal WAV header.
func EncodeWAV(pcm []byte, spec Spec) []byte {
	var buf bytes.Buffer

	byteRate := spec.SampleRate * spec.Channels * spec.SampleWidth
	blockAlign := spec.Channels * spec.SampleWidth
	dataSize := len(pcm)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(spec.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(spec.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(spec.SampleWidth*8))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes()
}
