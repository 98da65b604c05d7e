package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/nhle/mail-digest/internal/app"
	"github.com/nhle/mail-digest/internal/credential"
	"github.com/nhle/mail-digest/internal/digest"
	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/nlp"
	"github.com/nhle/mail-digest/internal/store"
)

func main() {
	configPath := flag.String(
		"config", model.DefaultConfigPath(), "path to the config file",
	)
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log, logFile, err := openLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey, _ = credential.Get(credential.KeyOpenAIAPIKey)
	}
	if apiKey == "" {
		fmt.Fprintln(os.Stderr,
			"no OpenAI API key: set OPENAI_API_KEY or store one with the keyring")
		os.Exit(1)
	}
	aiClient := openai.NewClient(apiKey)

	password := os.Getenv("MAILDIGEST_IMAP_PASSWORD")
	if password == "" {
		password, _ = credential.Get(credential.KeyIMAPPassword)
	}

	pipeline, cache, err := buildPipeline(cfg, aiClient, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing digest pipeline: %v\n", err)
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
	}

	log.Info().Str("config", *configPath).Msg("starting mail digest")

	p := tea.NewProgram(
		app.New(cfg, password, pipeline, log),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger opens the log file and returns a zerolog logger writing to
// it. Stdout is owned by the terminal UI, so logs never go there.
func openLogger(cfg model.LogConfig) (zerolog.Logger, *os.File, error) {
	path := cfg.Path
	if path == "" {
		path = model.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Logger{}, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return log, f, nil
}

// buildPipeline wires the cleaner, the OpenAI capabilities, and the
// extractors into a digest pipeline backed by the SQLite cache.
func buildPipeline(
	cfg *model.AppConfig,
	aiClient *openai.Client,
	log zerolog.Logger,
) (*digest.Pipeline, *store.SQLiteStore, error) {
	cleaner, err := digest.NewCleaner(cfg.Digest.ExtraCleanRules)
	if err != nil {
		return nil, nil, fmt.Errorf("compiling clean rules: %w", err)
	}

	summarizer := nlp.NewOpenAISummarizer(
		aiClient,
		cfg.OpenAI.Model,
		cfg.OpenAI.SummaryMinWords,
		cfg.OpenAI.SummaryMaxWords,
		log,
	)
	annotator := nlp.NewOpenAIAnnotator(aiClient, cfg.OpenAI.Model, log)

	deadlines := digest.NewDeadlineExtractor(
		cfg.Digest.DeadlineKeywords, cfg.Digest.HorizonDays,
	)
	keyPoints := digest.NewKeyPointExtractor(cfg.Digest.ActionIndicators)
	attachments := digest.NewAttachmentDetector(cfg.Digest.AttachmentExtensions)

	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath = ":memory:"
	}
	cache, err := store.NewSQLiteStore(cachePath)
	if err != nil {
		// The cache is an optimization; run without it.
		log.Warn().Err(err).Msg("opening digest cache failed")
		cache = nil
	}

	var pipelineCache digest.Cache
	if cache != nil {
		pipelineCache = cache
	}

	pipeline := digest.NewPipeline(
		cleaner,
		summarizer,
		annotator,
		deadlines,
		keyPoints,
		attachments,
		pipelineCache,
		nil,
		log,
	)
	return pipeline, cache, nil
}
