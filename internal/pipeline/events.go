package pipeline

import "time"

// EventType classifies messages emitted during a transcription run.
type EventType string

const (
	// EventStatus reports stage transitions and per-chunk progress.
	EventStatus EventType = "status"
	// EventPartial carries an in-progress hypothesis that may be revised.
	EventPartial EventType = "partial"
	// EventSegment confirms a finalized utterance appended to the transcript.
	EventSegment EventType = "segment"
	// EventError terminates a failed run.
	EventError EventType = "error"
	// EventDone terminates a successful run with the full transcript.
	EventDone EventType = "done"
)

// ErrorKind names which stage failed and how.
type ErrorKind string

const (
	KindInputNotFound    ErrorKind = "input_not_found"
	KindInputUnsupported ErrorKind = "input_unsupported"
	KindBackendMissing   ErrorKind = "backend_missing"
	KindBackendFailed    ErrorKind = "backend_failed"
	KindUnsupportedInput ErrorKind = "unsupported_input"
	KindModelNotFound    ErrorKind = "model_not_found"
	KindModelLoadFailed  ErrorKind = "model_load_failed"
	KindSessionClosed    ErrorKind = "session_closed"
	KindStreamUnreadable ErrorKind = "stream_unreadable"
	KindUnexpected       ErrorKind = "unexpected"
)

// Event is one ordered payload delivered to the presentation layer.
// A run emits any number of Status/Partial/Segment events and terminates
// with exactly one Done or one Error.
type Event struct {
	JobID     string    `json:"jobId"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`

	// Message holds status text, hypothesis text, segment text, or the
	// error diagnostic, depending on Type.
	Message string `json:"message,omitempty"`

	// Fraction is the share of the waveform consumed so far, in [0,1].
	// Set on Status events emitted during streaming.
	Fraction float64 `json:"fraction,omitempty"`

	// Kind is set on Error events.
	Kind ErrorKind `json:"kind,omitempty"`

	// Transcript is the full accumulated text, set on Done events.
	Transcript string `json:"transcript,omitempty"`
}

// Terminal reports whether no further events follow this one.
func (e Event) Terminal() bool {
	return e.Type == EventDone || e.Type == EventError
}
