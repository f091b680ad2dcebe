package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RasPiBuilder/AI-News-Roundup/internal/config"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/deck"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/ffmpeg"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/images"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/llm"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/logging"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/pipeline"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/search"
	"github.com/RasPiBuilder/AI-News-Roundup/internal/tts"
	"github.com/RasPiBuilder/AI-News-Roundup/pkg/util"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newsroundup",
	Short: "newsroundup - daily AI news video generator",
	Long:  "Searches the news, summarizes it, narrates it, and assembles a slide-based roundup video with a matching audio track.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; real env vars win either way
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full roundup pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := util.EnsureDir(cfg.Output.Root); err != nil {
			return err
		}
		closer, err := logging.Init(verbose, cfg.LogFile())
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		runID := uuid.New().String()[:8]
		logger := log.With().Str("run_id", runID).Logger()
		logger.Info().Str("output", cfg.Output.Root).Msg("starting roundup run")

		exec, err := ffmpeg.New(logger, 0)
		if err != nil {
			return err
		}

		searcher := search.NewClient(logger)

		var text pipeline.TextGenerator
		if key := os.Getenv(cfg.LLM.APIKeyEnv); key != "" {
			text = llm.NewGroqClient(logger, key, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Temperature)
		} else {
			logger.Warn().Str("env", cfg.LLM.APIKeyEnv).Msg("API key not set, using extractive summarizer")
			text = llm.NewExtractive()
		}

		fetcher := images.NewFetcher(logger, searcher, cfg.Images.MinSize, cfg.Images.MaxCandidates,
			time.Duration(cfg.Images.TimeoutSec)*time.Second)

		engine, err := tts.NewEngine(logger, tts.Options{
			Voice:  cfg.TTS.Voice,
			Rate:   cfg.TTS.Rate,
			Volume: cfg.TTS.Volume,
		})
		if err != nil {
			return err
		}
		logger.Info().Str("engine", engine.Name()).Msg("speech engine selected")

		exporter, err := deck.NewExporter(logger, ffmpeg.DefaultWidth, ffmpeg.DefaultHeight)
		if err != nil {
			return err
		}

		pipe := pipeline.New(logger, cfg, pipeline.Deps{
			Search: searcher,
			Text:   text,
			Images: fetcher,
			TTS:    engine,
			Slides: exporter,
			Media:  exec,
		})

		res, err := pipe.Run(cmd.Context())
		if err != nil {
			return err
		}

		logger.Info().
			Int("topics", len(res.Segments)).
			Int("warnings", len(res.Warnings)).
			Str("video", res.FinalVideo).
			Str("audio", res.FinalAudio).
			Msg("run finished")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if util.FileExists(path) {
			log.Warn().Str("path", path).Msg("refusing to overwrite existing config")
			return nil
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote default config")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}
