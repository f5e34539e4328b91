package agents

import (
	"context"

	"github.com/EyalShechtman/AWSHackDay/internal/agents/finnhub"
	"github.com/EyalShechtman/AWSHackDay/internal/agents/gemini"
	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// SummaryAgent produces the financial summary stage output. When a
// Finnhub key is configured it fetches live market data first and mixes
// it into the summary prompt; enrichment failures degrade to a plain
// search-grounded summary.
type SummaryAgent struct {
	gemini  *gemini.Client
	finnhub *finnhub.Client
	logger  *logger.Logger
}

// NewSummaryAgent creates a summary agent. finnhubClient may be nil.
func NewSummaryAgent(geminiClient *gemini.Client, finnhubClient *finnhub.Client, log *logger.Logger) *SummaryAgent {
	return &SummaryAgent{
		gemini:  geminiClient,
		finnhub: finnhubClient,
		logger:  log.WithField("module", "summary_agent"),
	}
}

// FinancialSummary implements contracts.SummaryProvider.
func (a *SummaryAgent) FinancialSummary(ctx context.Context, tickers []string) (*contracts.SummaryResult, error) {
	var marketData string
	if a.finnhub != nil && a.finnhub.Enabled() {
		marketData = a.finnhub.MarketContext(ctx, tickers)
		a.logger.WithFields(map[string]interface{}{
			"tickers":     len(tickers),
			"data_length": len(marketData),
		}).Debug("Finnhub enrichment gathered")
	}

	return a.gemini.FinancialSummaryWithData(ctx, tickers, marketData)
}

// DefaultStrategy is the strategy text a fresh session starts with.
const DefaultStrategy = `My investment goal is to find lesser-known stocks with strong fundamentals that are gaining attention on social media, particularly Twitter/X. Focus on small to mid-cap companies (under $20B market cap) with recent catalysts but avoid mega-cap stocks like NVIDIA, Apple, or Tesla. I have a medium-to-high risk tolerance and am looking for hidden gems that could yield significant returns over the next 6-12 months. Prioritize companies with genuine community discussion, recent positive developments, and insider buying signals.`
