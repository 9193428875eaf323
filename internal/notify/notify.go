package notify

import (
	"fmt"
	"log"
	"os/exec"
)

type Notifier interface {
	Done(outputPath string)
	Error(msg string)
}

// Desktop delivers notifications through notify-send.
type Desktop struct{}

func (Desktop) Done(outputPath string) {
	cmd := exec.Command("notify-send", "-a", "Voscribe",
		"Transcription complete", fmt.Sprintf("Saved to %s", outputPath))
	if err := cmd.Run(); err != nil {
		log.Printf("Notify: failed to send notification: %v", err)
	}
}

func (Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", "Voscribe", "-u", "critical",
		"Transcription failed", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("Notify: failed to send error notification: %v", err)
	}
}

// Log writes notifications to the process log instead of the desktop.
type Log struct{}

func (Log) Done(outputPath string) {
	log.Printf("Notify: transcription complete, saved to %s", outputPath)
}

func (Log) Error(msg string) {
	log.Printf("Notify: transcription failed: %s", msg)
}

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless runs.
type Nop struct{}

func (Nop) Done(outputPath string) {}
func (Nop) Error(msg string)       {}

// ForType returns the notifier matching the configured type.
func ForType(enabled bool, kind string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch kind {
	case "desktop":
		return Desktop{}
	case "log":
		return Log{}
	default:
		return Nop{}
	}
}
