package engine

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/baysaint/voscribe/internal/audio"
)

// WhisperAPI transcribes through the OpenAI Whisper API. Unlike the
// local engine it has no streaming mode: chunks are buffered and a
// single request is made on Finish, so Feed never yields hypotheses.
type WhisperAPI struct {
	client   *openai.Client
	model    string
	language string
	spec     audio.Spec
}

func NewWhisperAPI(apiKey, model, language string, spec audio.Spec) (*WhisperAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperAPI{
		client:   openai.NewClient(apiKey),
		model:    model,
		language: language,
		spec:     spec,
	}, nil
}

func (e *WhisperAPI) Name() string { return "whisper-api" }

// Begin ignores modelDir; the model lives behind the API.
func (e *WhisperAPI) Begin(ctx context.Context, modelDir string) (Session, error) {
	return &whisperSession{engine: e, ctx: ctx}, nil
}

type whisperSession struct {
	engine *WhisperAPI
	ctx    context.Context
	buf    bytes.Buffer
	closed bool
}

func (s *whisperSession) Feed(chunk []byte) (PartialResult, error) {
	if s.closed {
		return PartialResult{}, ErrSessionClosed
	}
	s.buf.Write(chunk)
	return PartialResult{}, nil
}

func (s *whisperSession) Finish() (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	s.closed = true

	if s.buf.Len() == 0 {
		return "", nil
	}

	wavData := audio.EncodeWAV(s.buf.Bytes(), s.engine.spec)
	req := openai.AudioRequest{
		Model:    s.engine.model,
		Reader:   bytes.NewReader(wavData),
		FilePath: "audio.wav",
		Language: s.engine.language,
	}

	start := time.Now()
	resp, err := s.engine.client.CreateTranscription(s.ctx, req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("Engine: whisper-api call failed after %v: %v", duration, err)
		return "", fmt.Errorf("whisper-api transcription: %w", err)
	}

	log.Printf("Engine: whisper-api transcribed %d bytes in %v", s.buf.Len(), duration)
	return resp.Text, nil
}
