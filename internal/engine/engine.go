package engine

import (
	"context"
	"errors"
)

// PartialResult is one unit of recognition output for a fed chunk.
// Non-final text is an in-progress hypothesis that may still be revised;
// final text marks an utterance boundary the engine will not change.
type PartialResult struct {
	Text  string
	Final bool
}

// Session is one recognition run. Feed is called once per chunk, in
// chunk order. Finish flushes residual audio, returns the last segment
// text (possibly empty), and releases all engine resources; the session
// is terminal afterwards.
type Session interface {
	Feed(chunk []byte) (PartialResult, error)
	Finish() (string, error)
}

// Engine loads a model and opens recognition sessions against it.
type Engine interface {
	Name() string
	Begin(ctx context.Context, modelDir string) (Session, error)
}

var (
	// ErrModelNotFound means the model directory does not exist or does
	// not contain a recognizable model layout.
	ErrModelNotFound = errors.New("model not found")
	// ErrModelLoadFailed means the model exists but could not be loaded.
	ErrModelLoadFailed = errors.New("model load failed")
	// ErrSessionClosed means Feed was called after Finish.
	ErrSessionClosed = errors.New("session closed")
)
