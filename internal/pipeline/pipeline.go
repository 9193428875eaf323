package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/baysaint/voscribe/internal/audio"
	"github.com/baysaint/voscribe/internal/convert"
	"github.com/baysaint/voscribe/internal/engine"
	"github.com/baysaint/voscribe/internal/stream"
)

// Pipeline drives one job through probe, conversion, chunked streaming,
// and recognition, reporting ordered events to the caller.
type Pipeline struct {
	prober    audio.Prober
	converter convert.Converter
	engine    engine.Engine
	target    audio.Spec
}

func New(prober audio.Prober, converter convert.Converter, eng engine.Engine, target audio.Spec) *Pipeline {
	return &Pipeline{
		prober:    prober,
		converter: converter,
		engine:    eng,
		target:    target,
	}
}

// Run executes the job on a worker goroutine and returns the event
// channel. The channel delivers events in order and is closed after the
// terminal Done or Error event. Cancelling ctx abandons the run; scoped
// resources (temporary converted file, open session) are still released
// before the channel closes.
func (p *Pipeline) Run(ctx context.Context, job Job) <-chan Event {
	events := make(chan Event)
	go p.run(ctx, job, events)
	return events
}

func (p *Pipeline) run(ctx context.Context, job Job, events chan<- Event) {
	defer close(events)

	emit := func(e Event) bool {
		e.JobID = job.ID
		e.Timestamp = time.Now().UTC()
		select {
		case events <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var tempPath string
	var session engine.Session
	sessionDone := false

	// cleanup releases job-scoped resources. It runs before the terminal
	// event on normal paths and from the defer on abandonment.
	cleanup := func() {
		if session != nil && !sessionDone {
			sessionDone = true
			if _, err := session.Finish(); err != nil {
				log.Printf("Pipeline: job %s: session close: %v", job.ID, err)
			}
		}
		if tempPath != "" {
			if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
				log.Printf("Pipeline: job %s: could not remove temp file %s: %v", job.ID, tempPath, err)
			} else {
				log.Printf("Pipeline: job %s: removed temp file %s", job.ID, tempPath)
			}
			tempPath = ""
		}
	}
	defer cleanup()

	defer func() {
		if r := recover(); r != nil {
			cleanup()
			emit(Event{Type: EventError, Kind: KindUnexpected, Message: fmt.Sprintf("unexpected fault: %v", r)})
		}
	}()

	fail := func(err error) {
		cleanup()
		kind := Classify(err)
		log.Printf("Pipeline: job %s failed (%s): %v", job.ID, kind, err)
		emit(Event{Type: EventError, Kind: kind, Message: err.Error()})
	}

	log.Printf("Pipeline: job %s: %s -> %s (model %s, chunk %d)",
		job.ID, job.InputPath, job.OutputPath, job.ModelDir, job.ChunkSize)

	if !emit(Event{Type: EventStatus, Message: "probing input"}) {
		return
	}
	spec, err := p.prober.Probe(job.InputPath)
	if err != nil {
		fail(err)
		return
	}

	workingPath := job.InputPath
	if !spec.Conforms(p.target) {
		if !emit(Event{Type: EventStatus, Message: "converting audio"}) {
			return
		}
		converted, err := p.converter.Convert(ctx, job.InputPath, p.target)
		if err != nil {
			fail(err)
			return
		}
		tempPath = converted
		workingPath = converted
	}

	if !emit(Event{Type: EventStatus, Message: "loading model"}) {
		return
	}
	session, err = p.engine.Begin(ctx, job.ModelDir)
	if err != nil {
		session = nil
		fail(err)
		return
	}

	st, err := stream.Open(workingPath, job.ChunkSize)
	if err != nil {
		fail(err)
		return
	}
	defer st.Close()

	var transcript Transcript
	for {
		if ctx.Err() != nil {
			return
		}

		chunk, fraction, err := st.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fail(err)
			return
		}

		result, err := session.Feed(chunk)
		if err != nil {
			fail(err)
			return
		}

		if result.Final {
			transcript.Append(result.Text)
			if !emit(Event{Type: EventSegment, Message: result.Text}) {
				return
			}
		} else {
			if !emit(Event{Type: EventPartial, Message: result.Text}) {
				return
			}
		}
		if !emit(Event{Type: EventStatus, Message: "transcribing", Fraction: fraction}) {
			return
		}
	}

	sessionDone = true
	finalText, err := session.Finish()
	if err != nil {
		fail(err)
		return
	}
	transcript.Append(finalText)

	cleanup()

	text := transcript.String()
	if err := writeOutput(job.OutputPath, text); err != nil {
		log.Printf("Pipeline: job %s failed (%s): %v", job.ID, KindUnexpected, err)
		emit(Event{Type: EventError, Kind: KindUnexpected, Message: err.Error()})
		return
	}

	log.Printf("Pipeline: job %s done, %d segments, output %s", job.ID, transcript.Len(), job.OutputPath)
	emit(Event{Type: EventDone, Message: job.OutputPath, Transcript: text})
}

// Classify maps a stage failure onto its error kind.
func Classify(err error) ErrorKind {
	var backendErr *convert.BackendError
	switch {
	case errors.Is(err, audio.ErrNotFound):
		return KindInputNotFound
	case errors.Is(err, audio.ErrUnsupported):
		return KindInputUnsupported
	case errors.Is(err, convert.ErrBackendMissing):
		return KindBackendMissing
	case errors.Is(err, convert.ErrUnsupportedInput):
		return KindUnsupportedInput
	case errors.As(err, &backendErr):
		return KindBackendFailed
	case errors.Is(err, engine.ErrModelNotFound):
		return KindModelNotFound
	case errors.Is(err, engine.ErrModelLoadFailed):
		return KindModelLoadFailed
	case errors.Is(err, engine.ErrSessionClosed):
		return KindSessionClosed
	case errors.Is(err, stream.ErrUnreadable):
		return KindStreamUnreadable
	default:
		return KindUnexpected
	}
}

// writeOutput writes the transcript, creating the parent directory if
// needed. The file is written even when the transcript is empty.
func writeOutput(path, text string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript %s: %w", path, err)
	}
	return nil
}
