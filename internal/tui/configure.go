package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/baysaint/voscribe/internal/config"
)

// ConfigureResult holds the configuration result from the TUI
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents a configuration section
type ConfigSection string

const (
	SectionTranscription ConfigSection = "transcription"
	SectionConversion    ConfigSection = "conversion"
	SectionWatch         ConfigSection = "watch"
	SectionNotifications ConfigSection = "notifications"
	SectionSaveExit      ConfigSection = "save_exit"
	SectionDiscardExit   ConfigSection = "discard_exit"
)

// Run starts the TUI configuration wizard
func Run(existingConfig *config.Config) (*ConfigureResult, error) {
	cfg := existingConfig
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	for {
		clearScreen()
		fmt.Println(Logo())
		fmt.Println()

		section, err := selectSection(cfg)
		if err != nil {
			return &ConfigureResult{Cancelled: true}, nil
		}

		switch section {
		case SectionSaveExit:
			confirmed, err := showSummary(cfg)
			if err != nil {
				return &ConfigureResult{Cancelled: true}, nil
			}
			if confirmed {
				return &ConfigureResult{Config: cfg, Cancelled: false}, nil
			}

		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil

		case SectionTranscription:
			if err := editTranscription(cfg); err != nil {
				continue
			}

		case SectionConversion:
			if err := editConversion(cfg); err != nil {
				continue
			}

		case SectionWatch:
			if err := editWatch(cfg); err != nil {
				continue
			}

		case SectionNotifications:
			if err := editNotifications(cfg); err != nil {
				continue
			}
		}
	}
}

func selectSection(cfg *config.Config) (ConfigSection, error) {
	options := []huh.Option[ConfigSection]{
		huh.NewOption(formatTranscriptionLabel(cfg), SectionTranscription),
		huh.NewOption(formatConversionLabel(cfg), SectionConversion),
		huh.NewOption(formatWatchLabel(cfg), SectionWatch),
		huh.NewOption(formatNotificationsLabel(cfg), SectionNotifications),
		huh.NewOption("Save & Exit", SectionSaveExit),
		huh.NewOption("Discard & Exit", SectionDiscardExit),
	}

	var selected ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration Menu").
				Description("↑/↓ navigate • enter select • esc cancel").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	return selected, nil
}

// editTranscription handles the engine section: which recognizer to use
// and the settings it needs.
func editTranscription(cfg *config.Config) error {
	engine := cfg.Transcription.Engine

	engineForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Engine").
				Description(fmt.Sprintf("Currently: %s", cfg.Transcription.Engine)).
				Options(
					huh.NewOption("Vosk (offline, local model)", "vosk"),
					huh.NewOption("OpenAI Whisper API", "whisper-api"),
				).
				Value(&engine),
		),
	).WithTheme(getTheme())

	if err := engineForm.Run(); err != nil {
		return err
	}
	cfg.Transcription.Engine = engine

	language := cfg.Transcription.Language
	langDesc := "ISO-639-1 code (e.g., 'en', 'es', 'fr') or empty for auto-detect"

	switch engine {
	case "vosk":
		modelDir := cfg.Transcription.ModelDir
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Model Directory").
					Description("Path to an unpacked Vosk model (contains am/ and conf/)").
					Placeholder("~/models/vosk-model-small-en-us-0.15").
					Value(&modelDir),
				huh.NewInput().
					Title("Language").
					Description(langDesc).
					Placeholder("auto-detect").
					Value(&language),
			),
		).WithTheme(getTheme())
		if err := form.Run(); err != nil {
			return err
		}
		cfg.Transcription.ModelDir = modelDir

	case "whisper-api":
		apiKey := cfg.Transcription.APIKey
		keyDesc := "Leave empty to use the OPENAI_API_KEY environment variable"
		if cfg.Transcription.APIKey != "" {
			keyDesc = fmt.Sprintf("Currently: %s", maskAPIKey(cfg.Transcription.APIKey))
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("OpenAI API Key").
					Description(keyDesc).
					EchoMode(huh.EchoModePassword).
					Value(&apiKey),
				huh.NewInput().
					Title("Language").
					Description(langDesc).
					Placeholder("auto-detect").
					Value(&language),
			),
		).WithTheme(getTheme())
		if err := form.Run(); err != nil {
			return err
		}
		if apiKey != "" {
			cfg.Transcription.APIKey = apiKey
		}
	}

	cfg.Transcription.Language = language

	chunkSize := strconv.Itoa(cfg.Transcription.ChunkSize)
	chunkForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Chunk Size").
				Description("Waveform bytes fed per recognition step (8000 = 250ms at 16kHz)").
				Value(&chunkSize).
				Validate(validateChunkSize),
		),
	).WithTheme(getTheme())
	if err := chunkForm.Run(); err != nil {
		return err
	}
	cfg.Transcription.ChunkSize, _ = strconv.Atoi(strings.TrimSpace(chunkSize))

	return nil
}

func validateChunkSize(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number of bytes")
	}
	return nil
}

func editConversion(cfg *config.Config) error {
	ffmpegPath := cfg.Conversion.FFmpegPath
	pathDesc := "Leave empty to search PATH and common install locations"
	if cfg.Conversion.FFmpegPath != "" {
		pathDesc = fmt.Sprintf("Currently: %s", cfg.Conversion.FFmpegPath)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("FFmpeg Path").
				Description(pathDesc).
				Placeholder("auto-detect").
				Value(&ffmpegPath),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Conversion.FFmpegPath = ffmpegPath
	return nil
}

func editWatch(cfg *config.Config) error {
	extensions := strings.Join(cfg.Watch.Extensions, ", ")
	outputDir := cfg.Watch.OutputDir

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Watched Extensions").
				Description("Comma-separated audio extensions to pick up in watch mode").
				Placeholder(".wav, .mp3, .ogg").
				Value(&extensions).
				Validate(validateExtensions),
			huh.NewInput().
				Title("Output Directory").
				Description("Where watch mode writes transcripts (empty: next to the input)").
				Placeholder("same as input").
				Value(&outputDir),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Watch.Extensions = splitExtensions(extensions)
	cfg.Watch.OutputDir = outputDir
	return nil
}

func editNotifications(cfg *config.Config) error {
	enabled := cfg.Notifications.Enabled
	kind := cfg.Notifications.Type

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable Notifications").
				Description("Notify when a transcription finishes or fails").
				Value(&enabled),
			huh.NewSelect[string]().
				Title("Notification Type").
				Options(
					huh.NewOption("Desktop (notify-send)", "desktop"),
					huh.NewOption("Log output", "log"),
					huh.NewOption("None", "none"),
				).
				Value(&kind),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Notifications.Enabled = enabled
	cfg.Notifications.Type = kind
	return nil
}

func showSummary(cfg *config.Config) (bool, error) {
	var summary strings.Builder
	summary.WriteString(formatTranscriptionLabel(cfg) + "\n")
	summary.WriteString(formatConversionLabel(cfg) + "\n")
	summary.WriteString(formatWatchLabel(cfg) + "\n")
	summary.WriteString(formatNotificationsLabel(cfg))

	confirmed := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Description(summary.String()).
				Affirmative("Save").
				Negative("Back").
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

func formatTranscriptionLabel(cfg *config.Config) string {
	detail := cfg.Transcription.Engine
	if cfg.Transcription.Engine == "vosk" && cfg.Transcription.ModelDir != "" {
		detail = fmt.Sprintf("vosk, %s", cfg.Transcription.ModelDir)
	}
	return fmt.Sprintf("Transcription (%s)", detail)
}

func formatConversionLabel(cfg *config.Config) string {
	path := cfg.Conversion.FFmpegPath
	if path == "" {
		path = "ffmpeg auto-detect"
	}
	return fmt.Sprintf("Conversion (%s, %d Hz)", path, cfg.Conversion.SampleRate)
}

func formatWatchLabel(cfg *config.Config) string {
	return fmt.Sprintf("Watch Mode (%s)", strings.Join(cfg.Watch.Extensions, " "))
}

func formatNotificationsLabel(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "Notifications (disabled)"
	}
	return fmt.Sprintf("Notifications (%s)", cfg.Notifications.Type)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

func splitExtensions(raw string) []string {
	var exts []string
	for _, part := range strings.Split(raw, ",") {
		ext := strings.ToLower(strings.TrimSpace(part))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

func validateExtensions(raw string) error {
	if len(splitExtensions(raw)) == 0 {
		return fmt.Errorf("list at least one extension")
	}
	return nil
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
