package pipeline

import "testing"

func TestTranscript_Append(t *testing.T) {
	var tr Transcript

	tr.Append("hello world")
	tr.Append("")
	tr.Append("   ")
	tr.Append("  second segment  ")

	if tr.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (empty segments dropped)", tr.Len())
	}
	if got := tr.String(); got != "hello world second segment" {
		t.Errorf("String() = %q, want %q", got, "hello world second segment")
	}
}

func TestTranscript_Empty(t *testing.T) {
	var tr Transcript

	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
	if tr.String() != "" {
		t.Errorf("String() = %q, want empty", tr.String())
	}
}
