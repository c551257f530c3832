package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/cardperks-backend/internal/api"
	"github.com/eshaffer321/cardperks-backend/internal/application/service"
	"github.com/eshaffer321/cardperks-backend/internal/domain/matcher"
	"github.com/eshaffer321/cardperks-backend/internal/domain/optimizer"
	"github.com/eshaffer321/cardperks-backend/internal/domain/resolver"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/config"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/cardperks-backend/internal/infrastructure/storage"
	"github.com/eshaffer321/cardperks-backend/internal/observability"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "", "Configuration file path")
	flag.Parse()

	cfg := config.LoadOrEnv(configFile)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Storage.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	shutdownTracing, err := observability.InitTracing(cfg.Observability.Tracing)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	o := optimizer.New(newResolver(cfg))
	m := newMatcher(cfg)
	benefits := service.NewBenefitService(store, logger)
	importer := service.NewImportService(store, m, logger)

	server := api.NewServer(api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TracingEnabled: cfg.Observability.Tracing.Enabled,
	}, store, o, benefits, importer, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracing shutdown failed", "error", err)
	}
}

// newResolver builds the category resolver, using alias overrides from
// config when present.
func newResolver(cfg *config.Config) *resolver.Resolver {
	if len(cfg.Matching.Aliases) == 0 {
		return resolver.NewDefault()
	}
	aliases := make([]resolver.Alias, 0, len(cfg.Matching.Aliases))
	for _, a := range cfg.Matching.Aliases {
		aliases = append(aliases, resolver.Alias{Merchant: a.Merchant, Category: a.Category})
	}
	return resolver.New(aliases)
}

// newMatcher builds the transaction matcher, using benefit pattern
// overrides from config when present.
func newMatcher(cfg *config.Config) *matcher.Matcher {
	if len(cfg.Matching.BenefitPatterns) == 0 {
		return matcher.NewDefault()
	}
	patterns := make([]matcher.BenefitPattern, 0, len(cfg.Matching.BenefitPatterns))
	for _, p := range cfg.Matching.BenefitPatterns {
		patterns = append(patterns, matcher.BenefitPattern{Benefit: p.Benefit, Patterns: p.Patterns})
	}
	return matcher.New(patterns, matcher.DefaultCreditRules())
}
