// Package pipeline drives the five-stage investment cycle.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/internal/schema"
	"github.com/EyalShechtman/AWSHackDay/internal/session"
	"github.com/EyalShechtman/AWSHackDay/internal/sources"
	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// summaryDisplayLimit caps the summary text shown on the dashboard.
// The full summary, not the truncated display text, flows into the
// candidate selection stage.
const summaryDisplayLimit = 300

// Orchestrator coordinates the five-stage investment cycle
// SSOT: pipeline sequencing happens here and nowhere else
type Orchestrator struct {
	trend    contracts.TrendDetector
	summary  contracts.SummaryProvider
	selector contracts.CandidateSelector
	advisor  contracts.TradeAdvisor

	store  *session.Store
	logger *logger.Logger
	rng    *rand.Rand
}

// NewOrchestrator creates a new orchestrator writing into the given
// session store.
func NewOrchestrator(
	trend contracts.TrendDetector,
	summary contracts.SummaryProvider,
	selector contracts.CandidateSelector,
	advisor contracts.TradeAdvisor,
	store *session.Store,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		trend:    trend,
		summary:  summary,
		selector: selector,
		advisor:  advisor,
		store:    store,
		logger:   log.WithField("module", "orchestrator"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// RunCycle executes the complete pipeline:
// S1 → S2 → S3 → S4 → S5, each stage blocking on the previous.
//
// Stage transitions are written to the session store before the next
// stage starts, so observers see progress as it happens. A failure at
// S1-S4 halts the run and surfaces the failure's message verbatim;
// outputs of stages that already completed stay visible. S5 is local
// arithmetic and never fails.
//
// RunCycle assumes single-flight; the store's BeginRun rejects a second
// concurrent invocation.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	if err := o.store.BeginRun(); err != nil {
		return err
	}

	startTime := time.Now()
	strategy := o.store.Strategy()

	o.logger.Info("Starting investment cycle")

	trades, err := o.runStages(ctx, strategy)
	if err != nil {
		o.store.FailRun(err.Error())
		o.logger.WithError(err).Error("Investment cycle failed")
		return err
	}

	o.store.CompleteRun(trades)

	o.logger.WithFields(map[string]interface{}{
		"trades":   len(trades),
		"duration": time.Since(startTime).Seconds(),
	}).Info("Investment cycle completed")

	return nil
}

// runStages executes S1-S5 in order and returns the validated trades.
func (o *Orchestrator) runStages(ctx context.Context, strategy string) ([]contracts.Trade, error) {
	// S1: Trend Detection
	tickers, err := o.runTrendDetection(ctx)
	if err != nil {
		return nil, err
	}

	// S2: Financial Summary
	summary, err := o.runFinancialSummary(ctx, tickers)
	if err != nil {
		return nil, err
	}

	// S3: Candidate Selection
	candidates, err := o.runCandidateSelection(ctx, summary)
	if err != nil {
		return nil, err
	}

	// S4: Trade Recommendation
	trades, err := o.runTradeRecommendation(ctx, candidates, strategy)
	if err != nil {
		return nil, err
	}

	// S5: Valuation Update (local, never fails)
	o.runValuationUpdate()

	return trades, nil
}

// runTrendDetection executes S1 and returns the candidate tickers.
func (o *Orchestrator) runTrendDetection(ctx context.Context) ([]string, error) {
	o.store.SetStage(contracts.StageTrendDetection)
	o.logger.Info("Running S1: Trend Detection")

	mentions, err := o.trend.TrendingStocks(ctx)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(mentions))
	var sb strings.Builder
	fmt.Fprintf(&sb, "Identified %d trending stocks: ", len(mentions))
	for i, m := range mentions {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(m.Ticker)
		tickers = append(tickers, m.Ticker)
	}
	for _, m := range mentions {
		if m.Reason != "" {
			fmt.Fprintf(&sb, "\n%s: %s", m.Ticker, m.Reason)
		}
	}

	o.store.SetStageOutput(contracts.StageTrendDetection, contracts.StageOutput{Text: sb.String()})

	o.logger.WithField("tickers", len(tickers)).Info("S1 completed")
	return tickers, nil
}

// runFinancialSummary executes S2 and returns the full summary text.
func (o *Orchestrator) runFinancialSummary(ctx context.Context, tickers []string) (string, error) {
	o.store.SetStage(contracts.StageFinancialSummary)
	o.logger.Info("Running S2: Financial Summary")

	result, err := o.summary.FinancialSummary(ctx, tickers)
	if err != nil {
		return "", err
	}

	citations := sources.Dedupe(result.Sources)

	o.store.SetStageOutput(contracts.StageFinancialSummary, contracts.StageOutput{
		Text:    "Gathered financial data:\n" + truncate(result.Summary, summaryDisplayLimit),
		Sources: citations,
	})

	o.logger.WithFields(map[string]interface{}{
		"summary_length": len(result.Summary),
		"sources":        len(citations),
	}).Info("S2 completed")

	return result.Summary, nil
}

// runCandidateSelection executes S3 and returns the comma-separated
// candidate string.
func (o *Orchestrator) runCandidateSelection(ctx context.Context, summary string) (string, error) {
	o.store.SetStage(contracts.StageCandidateSelection)
	o.logger.Info("Running S3: Candidate Selection")

	candidates, err := o.selector.InvestmentCandidates(ctx, summary)
	if err != nil {
		return "", err
	}

	o.store.SetStageOutput(contracts.StageCandidateSelection, contracts.StageOutput{
		Text: "Selected candidates: " + candidates,
	})

	o.logger.WithField("candidates", candidates).Info("S3 completed")
	return candidates, nil
}

// runTradeRecommendation executes S4. The raw advisor payload passes
// through the response schema validator; a validation failure carries
// the validator's message unmodified.
func (o *Orchestrator) runTradeRecommendation(ctx context.Context, candidates, strategy string) ([]contracts.Trade, error) {
	o.store.SetStage(contracts.StageTradeRecommendation)
	o.logger.Info("Running S4: Trade Recommendation")

	raw, err := o.advisor.FinalTrades(ctx, candidates, strategy)
	if err != nil {
		return nil, err
	}

	trades, err := schema.Validate(raw)
	if err != nil {
		return nil, err
	}

	o.store.SetStageOutput(contracts.StageTradeRecommendation, contracts.StageOutput{
		Text: fmt.Sprintf("Generated %d final trade recommendations.", len(trades)),
	})

	o.logger.WithField("trades", len(trades)).Info("S4 completed")
	return trades, nil
}

// runValuationUpdate executes S5: appends the next simulated portfolio
// sample. Purely local, no external call.
func (o *Orchestrator) runValuationUpdate() {
	o.store.SetStage(contracts.StageValuationUpdate)
	o.logger.Info("Running S5: Valuation Update")

	point := NextValuation(o.store.LastValuation(), o.rng)
	o.store.AppendValuation(point)

	o.store.SetStageOutput(contracts.StageValuationUpdate, contracts.StageOutput{
		Text: fmt.Sprintf("Simulated trades executed. New portfolio value: $%d", point.Value),
	})

	o.logger.WithFields(map[string]interface{}{
		"day":   point.Day,
		"value": point.Value,
	}).Info("S5 completed")
}

// truncate cuts s to at most limit runes, appending an ellipsis when
// something was cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
