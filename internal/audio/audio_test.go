package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSpec_Conforms(t *testing.T) {
	target := TargetSpec()

	tests := []struct {
		name string
		spec Spec
		want bool
	}{
		{
			name: "exact match",
			spec: Spec{SampleRate: 16000, Channels: 1, SampleWidth: 2},
			want: true,
		},
		{
			name: "wrong sample rate",
			spec: Spec{SampleRate: 44100, Channels: 1, SampleWidth: 2},
			want: false,
		},
		{
			name: "stereo",
			spec: Spec{SampleRate: 16000, Channels: 2, SampleWidth: 2},
			want: false,
		},
		{
			name: "wrong sample width",
			spec: Spec{SampleRate: 16000, Channels: 1, SampleWidth: 4},
			want: false,
		},
		{
			name: "zero spec",
			spec: Spec{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Conforms(target); got != tt.want {
				t.Errorf("Conforms() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadInfo_RoundTrip(t *testing.T) {
	pcm := make([]byte, 1000)
	for i := range pcm {
		pcm[i] = byte(i % 256)
	}
	spec := Spec{SampleRate: 16000, Channels: 1, SampleWidth: 2}

	info, err := ReadInfo(bytes.NewReader(EncodeWAV(pcm, spec)))
	if err != nil {
		t.Fatalf("ReadInfo() error = %v", err)
	}

	if info.Spec != spec {
		t.Errorf("Spec = %v, want %v", info.Spec, spec)
	}
	if info.DataSize != int64(len(pcm)) {
		t.Errorf("DataSize = %d, want %d", info.DataSize, len(pcm))
	}
	if info.DataOffset != 44 {
		t.Errorf("DataOffset = %d, want 44", info.DataOffset)
	}
}

func TestReadInfo_ExtraChunks(t *testing.T) {
	// LIST chunk between fmt and data, as written by many encoders.
	spec := Spec{SampleRate: 44100, Channels: 2, SampleWidth: 2}
	wav := EncodeWAV([]byte{1, 2, 3, 4}, spec)

	var buf bytes.Buffer
	buf.Write(wav[:36]) // RIFF + fmt
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(5))
	buf.Write([]byte{'I', 'N', 'F', 'O', 0})
	buf.WriteByte(0) // pad byte for odd chunk size
	buf.Write(wav[36:])

	info, err := ReadInfo(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadInfo() error = %v", err)
	}
	if info.Spec != spec {
		t.Errorf("Spec = %v, want %v", info.Spec, spec)
	}
	if info.DataSize != 4 {
		t.Errorf("DataSize = %d, want 4", info.DataSize)
	}

	// Offset must point at the payload itself.
	payload := buf.Bytes()[info.DataOffset : info.DataOffset+info.DataSize]
	if !bytes.Equal(payload, []byte{1, 2, 3, 4}) {
		t.Errorf("payload at DataOffset = %v, want [1 2 3 4]", payload)
	}
}

func TestReadInfo_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "empty input",
			data:    nil,
			wantErr: ErrNotWave,
		},
		{
			name:    "not riff",
			data:    []byte("this is definitely not a wav file at all"),
			wantErr: ErrNotWave,
		},
		{
			name:    "riff but not wave",
			data:    append([]byte("RIFF\x24\x00\x00\x00AVI "), make([]byte, 32)...),
			wantErr: ErrNotWave,
		},
		{
			name:    "truncated after header",
			data:    []byte("RIFF\x24\x00\x00\x00WAVE"),
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInfo(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadInfo() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadInfo_NonPCMFormats(t *testing.T) {
	spec := Spec{SampleRate: 16000, Channels: 1, SampleWidth: 2}

	tests := []struct {
		name   string
		format uint16
	}{
		{"ieee float", 3},
		{"extensible", 0xFFFE},
		{"alaw", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wav := EncodeWAV([]byte{0, 0}, spec)
			binary.LittleEndian.PutUint16(wav[20:22], tt.format)

			_, err := ReadInfo(bytes.NewReader(wav))
			if !errors.Is(err, ErrNotPCM) {
				t.Errorf("ReadInfo() error = %v, want ErrNotPCM", err)
			}
		})
	}
}

func TestReadFileInfo_ClampsDataSize(t *testing.T) {
	spec := Spec{SampleRate: 16000, Channels: 1, SampleWidth: 2}
	wav := EncodeWAV(make([]byte, 100), spec)
	// Claim a payload much larger than what follows.
	binary.LittleEndian.PutUint32(wav[40:44], 10000)

	path := filepath.Join(t.TempDir(), "short.wav")
	if err := os.WriteFile(path, wav, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := ReadFileInfo(path)
	if err != nil {
		t.Fatalf("ReadFileInfo() error = %v", err)
	}
	if info.DataSize != 100 {
		t.Errorf("DataSize = %d, want clamped 100", info.DataSize)
	}
}

func TestEncodeWAV_Header(t *testing.T) {
	spec := Spec{SampleRate: 16000, Channels: 1, SampleWidth: 2}
	wav := EncodeWAV(make([]byte, 320), spec)

	if len(wav) != 44+320 {
		t.Fatalf("len = %d, want %d", len(wav), 44+320)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 16000 {
		t.Errorf("sample rate field = %d, want 16000", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 32000 {
		t.Errorf("byte rate field = %d, want 32000", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample field = %d, want 16", got)
	}
}
