package config

import "fmt"

func (c *Config) Validate() error {
	switch c.Transcription.Engine {
	case "vosk":
		if c.Transcription.ModelDir == "" {
			return fmt.Errorf("transcription.model_dir required for the vosk engine")
		}
	case "whisper-api":
		if c.ResolveAPIKey() == "" {
			return fmt.Errorf("OpenAI API key required: not found in config (transcription.api_key) or environment variable (OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported transcription.engine: %s (must be vosk or whisper-api)", c.Transcription.Engine)
	}

	if c.Transcription.ChunkSize <= 0 {
		return fmt.Errorf("invalid transcription.chunk_size: %d", c.Transcription.ChunkSize)
	}

	if c.Conversion.SampleRate <= 0 {
		return fmt.Errorf("invalid conversion.sample_rate: %d", c.Conversion.SampleRate)
	}
	if c.Conversion.Channels <= 0 {
		return fmt.Errorf("invalid conversion.channels: %d", c.Conversion.Channels)
	}
	switch c.Conversion.SampleWidth {
	case 1, 2, 3, 4:
	default:
		return fmt.Errorf("invalid conversion.sample_width: %d (must be 1-4 bytes)", c.Conversion.SampleWidth)
	}

	if len(c.Watch.Extensions) == 0 {
		return fmt.Errorf("invalid watch.extensions: empty (must list at least one extension)")
	}
	for _, ext := range c.Watch.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("invalid watch.extensions: %q (must start with a dot)", ext)
		}
	}

	validTypes := map[string]bool{"desktop": true, "log": true, "none": true}
	if !validTypes[c.Notifications.Type] {
		return fmt.Errorf("invalid notifications.type: %s (must be desktop, log, or none)", c.Notifications.Type)
	}

	return nil
}
