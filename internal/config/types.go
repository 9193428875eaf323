package config

import (
	"os"

	"github.com/baysaint/voscribe/internal/audio"
)

type Config struct {
	Transcription TranscriptionConfig `toml:"transcription"`
	Conversion    ConversionConfig    `toml:"conversion"`
	Watch         WatchConfig         `toml:"watch"`
	Notifications NotificationsConfig `toml:"notifications"`
}

type TranscriptionConfig struct {
	Engine    string `toml:"engine"`     // "vosk" or "whisper-api"
	ModelDir  string `toml:"model_dir"`  // vosk model directory
	Language  string `toml:"language"`   // ISO-639-1 code, whisper-api only
	ChunkSize int    `toml:"chunk_size"` // bytes fed per recognition step
	APIKey    string `toml:"api_key"`    // whisper-api only
	Model     string `toml:"model"`      // whisper-api model name
}

type ConversionConfig struct {
	FFmpegPath  string `toml:"ffmpeg_path"` // empty: PATH and common locations
	SampleRate  int    `toml:"sample_rate"`
	Channels    int    `toml:"channels"`
	SampleWidth int    `toml:"sample_width"`
}

type WatchConfig struct {
	Extensions []string `toml:"extensions"` // audio extensions picked up in watch mode
	OutputDir  string   `toml:"output_dir"` // empty: next to each input file
}

type NotificationsConfig struct {
	Enabled bool   `toml:"enabled"`
	Type    string `toml:"type"` // "desktop", "log", "none"
}

// TargetSpec returns the waveform layout the engine is fed.
func (c *Config) TargetSpec() audio.Spec {
	return audio.Spec{
		SampleRate:  c.Conversion.SampleRate,
		Channels:    c.Conversion.Channels,
		SampleWidth: c.Conversion.SampleWidth,
	}
}

// ResolveAPIKey returns the whisper-api key from config or environment.
func (c *Config) ResolveAPIKey() string {
	if c.Transcription.APIKey != "" {
		return c.Transcription.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}
