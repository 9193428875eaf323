package pipeline

import (
	"path/filepath"
	"testing"
)

func TestNewJob_Defaults(t *testing.T) {
	job := NewJob("/audio/talk.mp3", "/models/en", "", 0)

	if job.ID == "" {
		t.Errorf("ID is empty")
	}
	if job.OutputPath != filepath.Join("/audio", "talk_transcription.txt") {
		t.Errorf("OutputPath = %q, want derived path", job.OutputPath)
	}
	if job.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", job.ChunkSize, DefaultChunkSize)
	}

	other := NewJob("/audio/talk.mp3", "/models/en", "", 0)
	if other.ID == job.ID {
		t.Errorf("two jobs share the same ID")
	}
}

func TestNewJob_ExplicitValues(t *testing.T) {
	job := NewJob("/audio/talk.mp3", "/models/en", "/out/result.txt", 16000)

	if job.OutputPath != "/out/result.txt" {
		t.Errorf("OutputPath = %q, want /out/result.txt", job.OutputPath)
	}
	if job.ChunkSize != 16000 {
		t.Errorf("ChunkSize = %d, want 16000", job.ChunkSize)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/audio/talk.mp3", "/audio/talk_transcription.txt"},
		{"/audio/talk.tape.wav", "/audio/talk.tape_transcription.txt"},
		{"talk.wav", "talk_transcription.txt"},
		{"/audio/.wav", "/audio/transcription_transcription.txt"},
	}

	for _, tt := range tests {
		if got := DefaultOutputPath(tt.input); got != tt.want {
			t.Errorf("DefaultOutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
