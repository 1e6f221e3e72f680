package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/medmatch/matching-core/internal/api"
	"github.com/medmatch/matching-core/internal/config"
	"github.com/medmatch/matching-core/internal/orchestrator"
	"github.com/medmatch/matching-core/internal/reasoning"
	"github.com/medmatch/matching-core/internal/search"
	"github.com/medmatch/matching-core/internal/telemetry"
	"github.com/medmatch/matching-core/pkg/llmclient"
	"github.com/medmatch/matching-core/pkg/registry"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := telemetry.New(telemetry.Config{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		HIPAASafeLogging: cfg.Logging.HIPAASafeLogging,
	})

	registryClient := registry.New(registry.Config{
		BaseURL:    cfg.ClinicalTrials.BaseURL,
		RateLimit:  cfg.ClinicalTrials.RateLimitPerMinute,
		Timeout:    cfg.ClinicalTrials.Timeout,
		MaxRetries: cfg.ClinicalTrials.MaxRetries,
	}, logger)

	llmClient := llmclient.New(llmclient.Config{
		APIKey:             cfg.Cerebras.APIKey,
		BaseURL:            cfg.Cerebras.BaseURL,
		Model:              cfg.Cerebras.Model,
		MaxTokens:          cfg.Cerebras.MaxTokens,
		Timeout:            cfg.Cerebras.Timeout,
		RateLimitPerMinute: cfg.Cerebras.RateLimitPerMinute,
		MaxRetries:         cfg.Cerebras.MaxRetries,
	}, logger)

	cache := reasoning.NewCache(cfg.Cache.Enabled, cfg.Cache.MemorySize, cfg.Cache.TTL, cfg.Cache.RedisURL, logger)
	reasoningSvc := reasoning.New(llmClient, reasoning.Config{ModelVersion: cfg.Cerebras.Model}, cache, logger)

	searchIndex := search.NewIndex()
	searchEngine := search.NewEngine(searchIndex)

	orch := orchestrator.New(searchEngine, registryClient, reasoningSvc, logger, orchestrator.Config{
		ModelVersion: cfg.Cerebras.Model,
	})

	server := api.NewServer(cfg.ServerAddr, orch, logger)

	logger.Infof("starting matching-core server on %s", cfg.ServerAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received, draining in-flight requests")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatalf("server stopped with error: %v", err)
	}
	logger.Info("server stopped")
}
