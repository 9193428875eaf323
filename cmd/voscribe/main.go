package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/baysaint/voscribe/internal/audio"
	"github.com/baysaint/voscribe/internal/config"
	"github.com/baysaint/voscribe/internal/convert"
	"github.com/baysaint/voscribe/internal/deps"
	"github.com/baysaint/voscribe/internal/engine"
	"github.com/baysaint/voscribe/internal/notify"
	"github.com/baysaint/voscribe/internal/pipeline"
	"github.com/baysaint/voscribe/internal/tui"
	"github.com/baysaint/voscribe/internal/watcher"
)

const version = "0.3.0"

func main() {
	_ = rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "voscribe",
	Short: "Offline audio file transcription",
}

func init() {
	rootCmd.AddCommand(
		transcribeCmd(),
		watchCmd(),
		configureCmd(),
		doctorCmd(),
		versionCmd(),
	)
}

func transcribeCmd() *cobra.Command {
	var outputPath string
	var modelDir string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file to text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd.Context(), args[0], outputPath, modelDir, quiet)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "transcript file path (default: next to the input)")
	cmd.Flags().StringVarP(&modelDir, "model", "m", "", "vosk model directory (overrides config)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and partial hypotheses")

	return cmd
}

func runTranscribe(ctx context.Context, inputPath, outputPath, modelDir string, quiet bool) error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if modelDir != "" {
		cfg.Transcription.ModelDir = modelDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	notifier := notify.ForType(cfg.Notifications.Enabled, cfg.Notifications.Type)
	job := pipeline.NewJob(inputPath, cfg.Transcription.ModelDir, outputPath, cfg.Transcription.ChunkSize)

	return consumeEvents(p.Run(ctx, job), notifier, quiet)
}

// consumeEvents renders events to the terminal and returns an error when
// the run terminates with one.
func consumeEvents(events <-chan pipeline.Event, notifier notify.Notifier, quiet bool) error {
	lastStatus := ""
	for event := range events {
		switch event.Type {
		case pipeline.EventStatus:
			if quiet {
				continue
			}
			if event.Fraction > 0 {
				fmt.Printf("\r%s %3.0f%%", event.Message, event.Fraction*100)
				if event.Fraction >= 1 {
					fmt.Println()
				}
			} else if event.Message != lastStatus {
				fmt.Println(event.Message)
			}
			lastStatus = event.Message

		case pipeline.EventPartial:
			// Partial hypotheses are revised constantly; only show them
			// in verbose runs and keep them on one line.
			if !quiet && event.Message != "" {
				fmt.Printf("\r... %s", event.Message)
			}

		case pipeline.EventSegment:
			if !quiet && event.Message != "" {
				fmt.Printf("\r%s\n", event.Message)
			}

		case pipeline.EventError:
			notifier.Error(event.Message)
			return fmt.Errorf("%s: %s", event.Kind, event.Message)

		case pipeline.EventDone:
			notifier.Done(event.Message)
			fmt.Printf("Transcript saved to %s\n", event.Message)
			return nil
		}
	}
	return nil
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and transcribe new audio files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0])
		},
	}
}

func runWatch(ctx context.Context, dir string) error {
	manager, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := manager.GetConfig().Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := manager.StartWatching(ctx); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}
	defer manager.Stop()

	handler := func(path string) {
		cfg := manager.GetConfig()
		p, err := buildPipeline(cfg)
		if err != nil {
			log.Printf("Watch: skipping %s: %v", path, err)
			return
		}

		outputPath := ""
		if cfg.Watch.OutputDir != "" {
			outputPath = filepath.Join(cfg.Watch.OutputDir, filepath.Base(pipeline.DefaultOutputPath(path)))
		}

		notifier := notify.ForType(cfg.Notifications.Enabled, cfg.Notifications.Type)
		job := pipeline.NewJob(path, cfg.Transcription.ModelDir, outputPath, cfg.Transcription.ChunkSize)
		if err := consumeEvents(p.Run(ctx, job), notifier, true); err != nil {
			log.Printf("Watch: %s: %v", path, err)
		}
	}

	w, err := watcher.New(dir, manager.GetConfig().Watch.Extensions, handler)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Printf("Watching %s (ctrl+c to stop)\n", dir)
	<-ctx.Done()
	return nil
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard for voscribe.
This will guide you through setting up:
- Transcription engine (Vosk model or OpenAI Whisper API)
- FFmpeg conversion settings
- Watch mode and notification preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Configuration saved successfully!")

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
	return nil
}

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor()
		},
	}
}

func runDoctor() error {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	printStatus("ffmpeg", deps.CheckFFmpeg(cfg.Conversion.FFmpegPath))
	printStatus("vosk model", deps.CheckModel(cfg.Transcription.ModelDir))
	printStatus("notify-send", deps.CheckNotifySend())
	return nil
}

func printStatus(name string, status deps.Status) {
	mark := tui.StyleError.Render("✗")
	if status.Installed {
		mark = tui.StyleSuccess.Render("✓")
	}

	var detail []string
	if status.Path != "" {
		detail = append(detail, status.Path)
	}
	if status.Version != "" {
		detail = append(detail, status.Version)
	}
	if status.Detail != "" {
		detail = append(detail, status.Detail)
	}

	line := fmt.Sprintf("%s %s", mark, name)
	if len(detail) > 0 {
		line += " " + tui.StyleMuted.Render(fmt.Sprintf("(%s)", strings.Join(detail, ", ")))
	}
	fmt.Println(line)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the voscribe version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("voscribe %s\n", version)
		},
	}
}

// buildPipeline assembles the transcription pipeline from configuration.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	target := cfg.TargetSpec()

	eng, err := buildEngine(cfg, target)
	if err != nil {
		return nil, err
	}

	return pipeline.New(
		audio.NewProber(),
		convert.NewFFmpeg(cfg.Conversion.FFmpegPath),
		eng,
		target,
	), nil
}

func buildEngine(cfg *config.Config, target audio.Spec) (engine.Engine, error) {
	switch cfg.Transcription.Engine {
	case "whisper-api":
		return engine.NewWhisperAPI(cfg.ResolveAPIKey(), cfg.Transcription.Model, cfg.Transcription.Language, target)
	default:
		return engine.NewVosk(target), nil
	}
}
