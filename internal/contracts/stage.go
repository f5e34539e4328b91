package contracts

// Pipeline stage definitions (SSOT)
// Every log line, state snapshot, and API payload uses these constants.
//
// Pipeline flow:
//   S1 → S2 → S3 → S4 → S5
//   Trend  Summary  Candidates  Advisor  Valuation

// Stage represents a pipeline stage
type Stage string

const (
	// StageTrendDetection S1: trending tickers from social chatter
	// Primary: Grok real-time X data, fallback: Gemini simulation
	StageTrendDetection Stage = "S1_TREND_DETECTION"

	// StageFinancialSummary S2: search-grounded financial summary + citations
	StageFinancialSummary Stage = "S2_FINANCIAL_SUMMARY"

	// StageCandidateSelection S3: narrow to the top 5 candidates
	StageCandidateSelection Stage = "S3_CANDIDATE_SELECTION"

	// StageTradeRecommendation S4: schema-constrained trade recommendations
	StageTradeRecommendation Stage = "S4_TRADE_RECOMMENDATION"

	// StageValuationUpdate S5: local portfolio valuation step, no external call
	StageValuationUpdate Stage = "S5_VALUATION_UPDATE"

	// StageIdle means no stage is executing
	StageIdle Stage = "IDLE"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S1", "S2")
func (s Stage) ShortName() string {
	switch s {
	case StageTrendDetection:
		return "S1"
	case StageFinancialSummary:
		return "S2"
	case StageCandidateSelection:
		return "S3"
	case StageTradeRecommendation:
		return "S4"
	case StageValuationUpdate:
		return "S5"
	default:
		return "IDLE"
	}
}

// DisplayName returns the dashboard label for the stage
func (s Stage) DisplayName() string {
	switch s {
	case StageTrendDetection:
		return "Social Trend Agent"
	case StageFinancialSummary:
		return "Finance Data Agent"
	case StageCandidateSelection:
		return "Decision Agent"
	case StageTradeRecommendation:
		return "Advisor Agent"
	case StageValuationUpdate:
		return "Trade Execution"
	default:
		return "Idle"
	}
}

// AllStages returns all pipeline stages in execution order
func AllStages() []Stage {
	return []Stage{
		StageTrendDetection,
		StageFinancialSummary,
		StageCandidateSelection,
		StageTradeRecommendation,
		StageValuationUpdate,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return s == string(StageIdle)
}
