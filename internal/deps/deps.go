package deps

import (
	"os/exec"
	"strings"

	"github.com/baysaint/voscribe/internal/convert"
	"github.com/baysaint/voscribe/internal/engine"
)

// Status represents the availability of an external dependency.
type Status struct {
	Installed bool
	Path      string
	Version   string
	Detail    string
}

// CheckFFmpeg reports whether a runnable ffmpeg could be located.
func CheckFFmpeg(configuredPath string) Status {
	path, err := convert.Locate(configuredPath)
	if err != nil {
		return Status{Installed: false, Detail: err.Error()}
	}

	status := Status{Installed: true, Path: path}

	// ffmpeg -version prints version info on the first line.
	output, err := exec.Command(path, "-version").Output()
	if err == nil {
		lines := strings.Split(string(output), "\n")
		if len(lines) > 0 {
			status.Version = strings.TrimSpace(lines[0])
		}
	}

	return status
}

// CheckModel reports whether modelDir holds a loadable Vosk model layout.
func CheckModel(modelDir string) Status {
	if modelDir == "" {
		return Status{Installed: false, Detail: "no model directory configured"}
	}
	if err := engine.ValidateModelDir(modelDir); err != nil {
		return Status{Installed: false, Path: modelDir, Detail: err.Error()}
	}
	return Status{Installed: true, Path: modelDir}
}

// CheckNotifySend reports whether desktop notifications can be delivered.
func CheckNotifySend() Status {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return Status{Installed: false, Detail: "notify-send not found"}
	}
	return Status{Installed: true, Path: path}
}
