package contracts

// Status represents the lifecycle state of a pipeline run
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Trade is a single recommended options trade
type Trade struct {
	Ticker   string  `json:"ticker"`
	Strategy string  `json:"strategy"`
	Legs     string  `json:"legs"`
	Thesis   string  `json:"thesis"`
	POP      float64 `json:"pop"` // probability of profit
}

// Citation is a source reference attached to a stage output
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// StageOutput is the observable result of one pipeline stage
type StageOutput struct {
	Text    string     `json:"text"`
	Sources []Citation `json:"sources,omitempty"`
}

// PortfolioPoint is one sample of the simulated portfolio valuation.
// Day is strictly increasing by 1 per appended sample.
type PortfolioPoint struct {
	Day   int   `json:"day"`
	Value int64 `json:"value"`
}

// TickerMention is a trending ticker with the reason it is trending
type TickerMention struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// SummaryResult is the output of the financial summary stage
type SummaryResult struct {
	Summary string     `json:"summary"`
	Sources []Citation `json:"sources"`
}
