// Command scribe runs the transcription HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillsenselab/scribe/config"
	"github.com/skillsenselab/scribe/credential"
	"github.com/skillsenselab/scribe/fetch"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/observability"
	"github.com/skillsenselab/scribe/server"
	"github.com/skillsenselab/scribe/service"
	"github.com/skillsenselab/scribe/transcription"
	"github.com/skillsenselab/scribe/transcription/groq"
	"github.com/skillsenselab/scribe/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scribe:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.Enabled {
		tracerProvider, err := observability.InitTracer(ctx, cfg.Observability)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

		meterProvider, err := observability.InitMeter(ctx, cfg.Observability)
		if err != nil {
			return fmt.Errorf("init meter: %w", err)
		}
		defer func() { _ = meterProvider.Shutdown(context.Background()) }()
	}

	registry := transcription.NewRegistry()
	registry.RegisterFactory(groq.ProviderName, groq.Factory())
	provider, err := registry.Create(cfg.Transcription.Provider, map[string]any{
		"base_url": cfg.Transcription.BaseURL,
		"model":    cfg.Transcription.Model,
		"language": cfg.Transcription.Language,
		"timeout":  cfg.Transcription.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create provider %q: %w", cfg.Transcription.Provider, err)
	}

	resolver := credential.NewResolver()
	resolver.EnvVar = cfg.Transcription.CredentialEnvVar

	fetcher := fetch.NewFetcher(cfg.Fetch)

	opts := []service.Option{}
	if cfg.Observability.Enabled {
		metrics, err := observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		opts = append(opts, service.WithMetrics(metrics))
	}
	transcriber := service.NewTranscriber(provider, fetcher, resolver, opts...)

	appVersion := cfg.Version
	if appVersion == "" {
		appVersion = version.Get().Version
	}

	srv := server.New(cfg.Server)
	srv.ApplyMiddleware()
	server.NewHandlers(transcriber, provider, appVersion).Register(srv.Engine())

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("scribe ready", logger.Fields(
		"addr", srv.Addr(),
		logger.FieldProvider, provider.Name(),
		"environment", cfg.Environment,
	))

	<-ctx.Done()
	log.Info("shutdown signal received")
	return srv.Stop(context.Background())
}
