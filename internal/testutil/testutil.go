package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/baysaint/voscribe/internal/audio"
	"github.com/baysaint/voscribe/internal/config"
	"github.com/baysaint/voscribe/internal/engine"
)

// TestConfig returns a valid configuration for testing
func TestConfig() *config.Config {
	return &config.Config{
		Transcription: config.TranscriptionConfig{
			Engine:    "vosk",
			ModelDir:  "/tmp/test-model",
			Language:  "",
			ChunkSize: 8000,
		},
		Conversion: config.ConversionConfig{
			FFmpegPath:  "",
			SampleRate:  16000,
			Channels:    1,
			SampleWidth: 2,
		},
		Watch: config.WatchConfig{
			Extensions: []string{".wav", ".mp3"},
			OutputDir:  "",
		},
		Notifications: config.NotificationsConfig{
			Enabled: true,
			Type:    "log",
		},
	}
}

// TestConfigWithInvalidValues returns a config with invalid values for testing validation
func TestConfigWithInvalidValues() *config.Config {
	return &config.Config{
		Transcription: config.TranscriptionConfig{
			Engine:    "", // Invalid
			ChunkSize: 0,  // Invalid
		},
		Conversion: config.ConversionConfig{
			SampleRate:  0, // Invalid
			Channels:    0, // Invalid
			SampleWidth: 0, // Invalid
		},
		Watch: config.WatchConfig{
			Extensions: []string{}, // Invalid (empty)
		},
		Notifications: config.NotificationsConfig{
			Type: "invalid", // Invalid
		},
	}
}

// CreateTempConfigFile creates a temporary config file for testing
func CreateTempConfigFile(t *testing.T, configContent string) string {
	t.Helper()

	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// WriteTestWAV writes a PCM WAV file with the given payload and returns its path.
func WriteTestWAV(t *testing.T, dir string, name string, pcm []byte, spec audio.Spec) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, audio.EncodeWAV(pcm, spec), 0644); err != nil {
		t.Fatalf("Failed to write test WAV file: %v", err)
	}
	return path
}

// TestPCM returns a deterministic PCM payload of the given size.
func TestPCM(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 256)
	}
	return data
}

// MockProber implements audio.Prober for testing
type MockProber struct {
	Spec  audio.Spec
	Error error
}

func (m *MockProber) Probe(path string) (audio.Spec, error) {
	if m.Error != nil {
		return audio.Spec{}, m.Error
	}
	return m.Spec, nil
}

// MockConverter implements convert.Converter for testing
type MockConverter struct {
	OutputPath string
	Error      error

	mu     sync.Mutex
	Called bool
	Input  string
}

func (m *MockConverter) Convert(ctx context.Context, inputPath string, target audio.Spec) (string, error) {
	m.mu.Lock()
	m.Called = true
	m.Input = inputPath
	m.mu.Unlock()

	if m.Error != nil {
		return "", m.Error
	}
	return m.OutputPath, nil
}

// MockEngine implements engine.Engine for testing
type MockEngine struct {
	Session    *MockSession
	BeginError error

	mu         sync.Mutex
	BeginCalls int
}

func NewMockEngine(session *MockSession) *MockEngine {
	return &MockEngine{Session: session}
}

func (m *MockEngine) Name() string { return "mock" }

func (m *MockEngine) Begin(ctx context.Context, modelDir string) (engine.Session, error) {
	m.mu.Lock()
	m.BeginCalls++
	m.mu.Unlock()

	if m.BeginError != nil {
		return nil, m.BeginError
	}
	return m.Session, nil
}

// MockSession implements engine.Session for testing. Results are returned
// in order, one per Feed call; extra Feed calls return an empty result.
type MockSession struct {
	Results     []engine.PartialResult
	Final       string
	FeedError   error
	FinishError error

	mu       sync.Mutex
	fed      int
	Chunks   [][]byte
	Finished bool
}

func NewMockSession(final string, results ...engine.PartialResult) *MockSession {
	return &MockSession{Results: results, Final: final}
}

func (m *MockSession) Feed(chunk []byte) (engine.PartialResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Finished {
		return engine.PartialResult{}, engine.ErrSessionClosed
	}
	if m.FeedError != nil {
		return engine.PartialResult{}, m.FeedError
	}

	copied := make([]byte, len(chunk))
	copy(copied, chunk)
	m.Chunks = append(m.Chunks, copied)

	if m.fed < len(m.Results) {
		result := m.Results[m.fed]
		m.fed++
		return result, nil
	}
	m.fed++
	return engine.PartialResult{}, nil
}

func (m *MockSession) Finish() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Finished {
		return "", engine.ErrSessionClosed
	}
	m.Finished = true

	if m.FinishError != nil {
		return "", m.FinishError
	}
	return m.Final, nil
}

// TestContext returns a context with timeout for testing
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Condition not met within %v", timeout)
		default:
			if condition() {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}
