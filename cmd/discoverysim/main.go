package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/discoverysim/internal/api"
	"github.com/MikeSquared-Agency/discoverysim/internal/config"
	"github.com/MikeSquared-Agency/discoverysim/internal/hermes"
	"github.com/MikeSquared-Agency/discoverysim/internal/interview"
	"github.com/MikeSquared-Agency/discoverysim/internal/llm"
	"github.com/MikeSquared-Agency/discoverysim/internal/processor"
	"github.com/MikeSquared-Agency/discoverysim/internal/session"
	"github.com/MikeSquared-Agency/discoverysim/internal/slack"
	"github.com/MikeSquared-Agency/discoverysim/internal/store"
	"github.com/MikeSquared-Agency/discoverysim/web"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("discoverysim starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Model providers. Keys come from each browser session.
	catalog := llm.Catalog{
		OpenAIModel:   cfg.OpenAIModel,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		GeminiModel:   cfg.GeminiModel,
		GeminiBaseURL: cfg.GeminiBaseURL,
		GeminiTestKey: cfg.GeminiTestAPIKey,
		Temperature:   cfg.LLMTemperature,
	}
	svc := interview.NewService(catalog, llm.NewDialer(cfg.LLMTimeout), slog.Default())
	slog.Info("model catalog ready",
		"openai_model", cfg.OpenAIModel,
		"gemini_model", cfg.GeminiModel,
		"gemini_test_key", cfg.GeminiTestAPIKey != "",
		"temperature", cfg.LLMTemperature,
	)

	// Archive (optional)
	var (
		archive processor.Archiver
		reader  api.ArchiveReader
	)
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare archive schema", "error", err)
			os.Exit(1)
		}
		archive, reader = db, db
		slog.Info("archive connected")
	} else {
		slog.Warn("DATABASE_URL not set, graded interviews will not be archived")
	}

	// NATS/Hermes (optional)
	var events processor.Events
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		events = hermes.NewEvents(hermesClient)
		slog.Info("NATS connected", "url", cfg.NatsURL)

		if err := hermesClient.Publish(hermes.SubjectServiceRegistered, map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"port":      cfg.Port,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	// Slack poster (optional)
	var poster processor.FeedbackPoster
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		poster = slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, slog.Default())
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	} else {
		slog.Warn("slack not configured, instructor summaries disabled")
	}

	proc := processor.New(archive, events, poster, slog.Default())

	// Sessions
	sessions := session.NewManager(slog.Default())
	sessions.StartJanitor(ctx, janitorInterval(cfg.SessionTTL), cfg.SessionTTL)

	// HTTP API
	srv := api.NewServer(cfg.Port, api.Deps{
		Sessions:         sessions,
		Interview:        svc,
		Processor:        proc,
		Archive:          reader,
		APIToken:         cfg.APIToken,
		CookieSecure:     cfg.CookieSecure,
		TestKeyAvailable: cfg.GeminiTestAPIKey != "",
		UI:               web.Handler(),
		Logger:           slog.Default(),
	})
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	slog.Info("discoverysim ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	cancel()
	slog.Info("discoverysim stopped")
}

func janitorInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
