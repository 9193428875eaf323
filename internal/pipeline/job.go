package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultChunkSize is how many waveform bytes are fed to the engine per
// recognition step. 8000 bytes is 250ms of 16kHz mono 16-bit audio.
const DefaultChunkSize = 8000

// Job describes one transcription run. Immutable once created and owned
// exclusively by the pipeline for the duration of that run.
type Job struct {
	ID         string
	InputPath  string
	ModelDir   string
	OutputPath string
	ChunkSize  int
}

// NewJob builds a job with a fresh ID, deriving the output path from the
// input when none is given and applying the default chunk size.
func NewJob(inputPath, modelDir, outputPath string, chunkSize int) Job {
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return Job{
		ID:         uuid.NewString(),
		InputPath:  inputPath,
		ModelDir:   modelDir,
		OutputPath: outputPath,
		ChunkSize:  chunkSize,
	}
}

// DefaultOutputPath places the transcript next to the input file.
func DefaultOutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		name = "transcription"
	}
	return filepath.Join(filepath.Dir(inputPath), name+"_transcription.txt")
}
