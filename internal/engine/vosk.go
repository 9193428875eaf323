package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	vosk "github.com/alphacep/vosk-api/go"

	"github.com/baysaint/voscribe/internal/audio"
)

// requiredModelFiles is the minimal on-disk layout of a Kaldi/Vosk model.
var requiredModelFiles = []string{
	filepath.Join("am", "final.mdl"),
	filepath.Join("conf", "model.conf"),
}

// Vosk runs offline recognition through the Vosk/Kaldi library.
type Vosk struct {
	sampleRate float64
}

func NewVosk(spec audio.Spec) *Vosk {
	return &Vosk{sampleRate: float64(spec.SampleRate)}
}

func (e *Vosk) Name() string { return "vosk" }

func (e *Vosk) Begin(ctx context.Context, modelDir string) (Session, error) {
	if err := ValidateModelDir(modelDir); err != nil {
		return nil, err
	}

	vosk.SetLogLevel(-1)

	model, err := vosk.NewModel(modelDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoadFailed, modelDir, err)
	}

	rec, err := vosk.NewRecognizer(model, e.sampleRate)
	if err != nil {
		model.Free()
		return nil, fmt.Errorf("%w: recognizer at %gHz: %v", ErrModelLoadFailed, e.sampleRate, err)
	}

	log.Printf("Engine: vosk model loaded from %s", modelDir)
	return &voskSession{model: model, rec: rec}, nil
}

// ValidateModelDir checks the directory for the files a Vosk model needs.
func ValidateModelDir(modelDir string) error {
	stat, err := os.Stat(modelDir)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrModelNotFound, modelDir)
	}
	if !stat.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrModelNotFound, modelDir)
	}

	var missing []string
	for _, rel := range requiredModelFiles {
		if _, err := os.Stat(filepath.Join(modelDir, rel)); err != nil {
			missing = append(missing, rel)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is missing %s", ErrModelNotFound, modelDir, strings.Join(missing, ", "))
	}
	return nil
}

type voskSession struct {
	model  *vosk.VoskModel
	rec    *vosk.VoskRecognizer
	closed bool
}

type voskResult struct {
	Text string `json:"text"`
}

type voskPartial struct {
	Partial string `json:"partial"`
}

func (s *voskSession) Feed(chunk []byte) (PartialResult, error) {
	if s.closed {
		return PartialResult{}, ErrSessionClosed
	}
	if len(chunk) == 0 {
		return PartialResult{}, nil
	}

	if s.rec.AcceptWaveform(chunk) != 0 {
		var res voskResult
		if err := json.Unmarshal([]byte(s.rec.Result()), &res); err != nil {
			return PartialResult{}, fmt.Errorf("parse vosk result: %w", err)
		}
		return PartialResult{Text: res.Text, Final: true}, nil
	}

	var partial voskPartial
	if err := json.Unmarshal([]byte(s.rec.PartialResult()), &partial); err != nil {
		return PartialResult{}, fmt.Errorf("parse vosk partial result: %w", err)
	}
	return PartialResult{Text: partial.Partial}, nil
}

func (s *voskSession) Finish() (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	s.closed = true

	raw := s.rec.FinalResult()
	s.rec.Free()
	s.model.Free()

	var res voskResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", fmt.Errorf("parse vosk final result: %w", err)
	}
	return res.Text, nil
}
