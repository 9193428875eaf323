package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/baysaint/voscribe/internal/audio"
)

var (
	// ErrBackendMissing means no runnable ffmpeg could be located.
	ErrBackendMissing = errors.New("ffmpeg not found")
	// ErrUnsupportedInput means ffmpeg itself rejected the input codec.
	ErrUnsupportedInput = errors.New("input format not supported by ffmpeg")
)

// BackendError carries the diagnostic output of a failed conversion run.
type BackendError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *BackendError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("ffmpeg failed (exit=%d): %s", e.ExitCode, lastStderrLine(e.Stderr))
}

func (e *BackendError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Converter produces a conformant mono fixed-rate WAV from an arbitrary
// input container. The returned path points at a temporary file owned by
// the caller, who must remove it when the job ends.
type Converter interface {
	Convert(ctx context.Context, inputPath string, target audio.Spec) (string, error)
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (exitCode int, stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (int, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return exitCode, stderr.String(), err
	}
	return 0, stderr.String(), nil
}

// FFmpeg converts audio by shelling out to an ffmpeg binary. The binary
// is located on first use so that a missing backend is reported only
// when a conversion is actually needed.
type FFmpeg struct {
	configuredPath string
	path           string
	runner         commandRunner
	tempDir        string
	createTemp     func(dir, pattern string) (*os.File, error)
}

// NewFFmpeg returns a converter that will use configuredPath if set,
// falling back to PATH and well-known install locations.
func NewFFmpeg(configuredPath string) *FFmpeg {
	return &FFmpeg{
		configuredPath: configuredPath,
		runner:         execRunner{},
		createTemp:     os.CreateTemp,
	}
}

// Locate finds a runnable ffmpeg: the configured path first, then PATH,
// then well-known install locations.
func Locate(configuredPath string) (string, error) {
	var candidates []string
	if configuredPath != "" {
		candidates = append(candidates, configuredPath)
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		candidates = append(candidates, path)
	}
	candidates = append(candidates,
		"/usr/bin/ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/opt/homebrew/bin/ffmpeg",
	)

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := exec.Command(candidate, "-version").Run(); err != nil {
			log.Printf("Convert: found %s but 'ffmpeg -version' failed: %v", candidate, err)
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("%w: install ffmpeg and ensure it is on PATH", ErrBackendMissing)
}

func (c *FFmpeg) Convert(ctx context.Context, inputPath string, target audio.Spec) (string, error) {
	if c.path == "" {
		path, err := Locate(c.configuredPath)
		if err != nil {
			return "", err
		}
		c.path = path
	}

	tmp, err := c.createTemp(c.tempDir, "voscribe-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp output: %w", err)
	}
	outPath := tmp.Name()
	tmp.Close()

	args := buildArgs(inputPath, outPath, target)
	log.Printf("Convert: %s %s", c.path, strings.Join(args, " "))

	exitCode, stderr, runErr := c.runner.Run(ctx, c.path, args...)
	if runErr != nil {
		_ = os.Remove(outPath)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if isUnsupportedInput(stderr) {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedInput, lastStderrLine(stderr))
		}
		return "", &BackendError{ExitCode: exitCode, Stderr: stderr, Err: runErr}
	}

	if stat, err := os.Stat(outPath); err != nil || stat.Size() == 0 {
		// ffmpeg exited zero but produced nothing usable.
		_ = os.Remove(outPath)
		return "", &BackendError{ExitCode: exitCode, Stderr: stderr, Err: fmt.Errorf("output file missing or empty")}
	}

	return outPath, nil
}

// buildArgs builds the conversion command for mono fixed-rate PCM WAV output.
func buildArgs(inputPath, outPath string, target audio.Spec) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", strconv.Itoa(target.Channels),
		"-ar", strconv.Itoa(target.SampleRate),
		"-c:a", pcmCodec(target.SampleWidth),
		outPath,
	}
}

func pcmCodec(sampleWidth int) string {
	switch sampleWidth {
	case 1:
		return "pcm_u8"
	case 3:
		return "pcm_s24le"
	case 4:
		return "pcm_s32le"
	default:
		return "pcm_s16le"
	}
}

// isUnsupportedInput recognizes decode rejections in ffmpeg diagnostics.
func isUnsupportedInput(stderr string) bool {
	markers := []string{
		"Invalid data found when processing input",
		"Decoder not found",
		"could not find codec parameters",
		"Unknown format",
	}
	for _, m := range markers {
		if strings.Contains(stderr, m) {
			return true
		}
	}
	return false
}

func lastStderrLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}

// NewFFmpegForTests constructs a converter with injectable dependencies.
func NewFFmpegForTests(path, tempDir string, runner commandRunner) *FFmpeg {
	return &FFmpeg{
		configuredPath: path,
		path:           path,
		runner:         runner,
		tempDir:        tempDir,
		createTemp:     os.CreateTemp,
	}
}
