package contracts

import "context"

// TrendDetector finds trending tickers from social chatter (S1)
// SSOT: S1 provider interface
type TrendDetector interface {
	TrendingStocks(ctx context.Context) ([]TickerMention, error)
}

// SummaryProvider gathers a financial summary with citations (S2)
// SSOT: S2 provider interface
type SummaryProvider interface {
	FinancialSummary(ctx context.Context, tickers []string) (*SummaryResult, error)
}

// CandidateSelector narrows tickers to the top candidates (S3)
// Returns a comma-separated ticker string, nominally the top 5.
// SSOT: S3 provider interface
type CandidateSelector interface {
	InvestmentCandidates(ctx context.Context, summary string) (string, error)
}

// TradeAdvisor generates the final trade recommendations (S4)
// Returns the raw structured payload; the orchestrator runs it through
// the response schema validator before anything is exposed.
// SSOT: S4 provider interface
type TradeAdvisor interface {
	FinalTrades(ctx context.Context, candidates string, strategy string) (string, error)
}
