package pipeline

import "strings"

// Transcript accumulates finalized segment texts in arrival order.
// Empty segments are dropped: a final-segment signal with no text is a
// no-op, not an end-of-audio marker.
type Transcript struct {
	segments []string
}

func (t *Transcript) Append(segment string) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return
	}
	t.segments = append(t.segments, segment)
}

// Len returns the number of accumulated segments.
func (t *Transcript) Len() int { return len(t.segments) }

// String joins segments with single spaces.
func (t *Transcript) String() string {
	return strings.Join(t.segments, " ")
}
