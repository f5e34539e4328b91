package commands

import (
	"context"
	"fmt"

	"github.com/EyalShechtman/AWSHackDay/internal/agents"
	"github.com/EyalShechtman/AWSHackDay/internal/agents/finnhub"
	"github.com/EyalShechtman/AWSHackDay/internal/agents/gemini"
	"github.com/EyalShechtman/AWSHackDay/internal/agents/grok"
	"github.com/EyalShechtman/AWSHackDay/internal/pipeline"
	"github.com/EyalShechtman/AWSHackDay/internal/session"
	"github.com/EyalShechtman/AWSHackDay/pkg/config"
	"github.com/EyalShechtman/AWSHackDay/pkg/httputil"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// app bundles the wired components a command needs.
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	store        *session.Store
	orchestrator *pipeline.Orchestrator
}

// wire builds the full provider chain and orchestrator from config.
// Construction order mirrors the pipeline: clients, stage adapters,
// session store, orchestrator.
func wire(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}

	log := logger.New(cfg)

	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	grokClient := grok.NewClient(cfg.XAI, httputil.NewWithTimeout(log, cfg.XAI.Timeout), log)
	finnhubClient := finnhub.NewClient(cfg.Finnhub, httputil.New(log), log)

	trendDetector := agents.NewTrendDetector(grokClient, geminiClient, log)
	summaryAgent := agents.NewSummaryAgent(geminiClient, finnhubClient, log)

	store := session.New(agents.DefaultStrategy)
	orchestrator := pipeline.NewOrchestrator(
		trendDetector,
		summaryAgent,
		geminiClient,
		geminiClient,
		store,
		log,
	)

	return &app{
		cfg:          cfg,
		log:          log,
		store:        store,
		orchestrator: orchestrator,
	}, nil
}
