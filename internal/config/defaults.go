package config

// DefaultConfig returns the initial configuration written by the
// configure wizard and used when no config file exists yet.
func DefaultConfig() *Config {
	return &Config{
		Transcription: TranscriptionConfig{
			Engine:    "vosk",
			ModelDir:  "",
			Language:  "",
			ChunkSize: 8000,
		},
		Conversion: ConversionConfig{
			FFmpegPath:  "",
			SampleRate:  16000,
			Channels:    1,
			SampleWidth: 2,
		},
		Watch: WatchConfig{
			Extensions: []string{".wav", ".mp3", ".ogg", ".flac", ".m4a", ".aac", ".opus", ".wma", ".aiff"},
			OutputDir:  "",
		},
		Notifications: NotificationsConfig{
			Enabled: false,
			Type:    "none",
		},
	}
}
