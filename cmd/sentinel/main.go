package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"

	"NewsSentinel/internal/collector"
	"NewsSentinel/internal/config"
	"NewsSentinel/internal/logging"
	"NewsSentinel/internal/model"
	"NewsSentinel/internal/notifier"
	"NewsSentinel/internal/pipeline"
	"NewsSentinel/internal/recorder"
	"NewsSentinel/internal/scheduler"
	"NewsSentinel/internal/sentiment"
	"NewsSentinel/internal/timestamp"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}
	logger.Info().Str("config", cfgPath).Msg("NewsSentinel starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init pipeline")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Init notifiers
	var reporters []notifier.Reporter
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		tn.Logger = logger
		reporters = append(reporters, tn)
	}
	if cfg.EmailEnabled() {
		reporters = append(reporters, notifier.NewEmailSender(notifier.EmailConfig{
			SMTPServer: cfg.Email.SMTPServer,
			SMTPPort:   cfg.Email.SMTPPort,
			SMTPUser:   cfg.Email.SMTPUser,
			SMTPPass:   cfg.Email.SMTPPass,
			FromEmail:  cfg.Email.From,
			ToEmail:    cfg.Email.To,
			Enabled:    true,
		}, logger))
	}

	tickers := make([]model.Ticker, len(cfg.Tickers))
	for i, t := range cfg.Tickers {
		tickers[i] = model.Ticker(t)
	}
	sched := scheduler.NewScheduler(ctx, p, tickers, rec, os.Stdout, logger, reporters...)

	// Without a schedule this is a one-shot run.
	if cfg.Schedule.Cron == "" {
		if _, err := sched.RunNow(); err != nil {
			rec.Close()
			os.Exit(1)
		}
		return
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		logger.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		logger.Info().Msg("telegram polling started")
	}

	if cfg.Schedule.RunOnStart {
		logger.Info().Msg("run_on_start enabled, executing pipeline now")
		go sched.RunNow()
	}

	logger.Info().Str("cron", cfg.Schedule.Cron).Msg("NewsSentinel is running, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Info().Msg("shutdown signal received, stopping")
}

func buildPipeline(ctx context.Context, cfg *config.Config, logger *log.Logger) (*pipeline.Pipeline, error) {
	loc, err := time.LoadLocation(cfg.Source.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	normalizer := timestamp.NewNormalizer(loc)
	if len(cfg.Source.DateLayouts) > 0 {
		normalizer.DateLayouts = cfg.Source.DateLayouts
	}

	fetcher, err := collector.NewHTTPFetcher(cfg.Source.BaseURL, cfg.Proxy)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("fetcher", fetcher.Name()).Str("base_url", cfg.Source.BaseURL).Msg("data source")

	col := collector.NewCollector(fetcher, collector.NewTableExtractor(cfg.Source.ContainerID), normalizer, cfg.Source.UserAgent)
	col.Logger = logger

	var scorer sentiment.Scorer
	switch cfg.Sentiment.Backend {
	case "gemini":
		gs, err := sentiment.NewGeminiScorer(ctx, cfg.Sentiment.Gemini.APIKey, cfg.Sentiment.Gemini.Model)
		if err != nil {
			return nil, err
		}
		scorer = sentiment.NewCached(gs)
	default:
		var overlay sentiment.Lexicon
		if cfg.Sentiment.LexiconPath != "" {
			if overlay, err = sentiment.LoadLexicon(cfg.Sentiment.LexiconPath); err != nil {
				return nil, err
			}
		}
		scorer = sentiment.NewLexiconScorer(overlay)
	}
	logger.Info().Str("backend", cfg.Sentiment.Backend).Msg("sentiment scorer")

	policy, err := pipeline.ParsePolicy(cfg.Pipeline.FailurePolicy)
	if err != nil {
		return nil, err
	}
	ann := sentiment.NewAnnotator(scorer, cfg.Pipeline.AnnotateWorkers)
	return pipeline.New(col, ann, policy, cfg.Pipeline.Concurrency, logger), nil
}
