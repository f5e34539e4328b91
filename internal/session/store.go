// Package session holds the in-memory dashboard state for one advisor
// session. The orchestrator is the only writer while a run is active;
// observers read immutable snapshots.
package session

import (
	"sync"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
)

// InitialPortfolioHistory seeds the simulated portfolio chart. History
// persists and grows across runs within a session; it is never reset.
var InitialPortfolioHistory = []contracts.PortfolioPoint{
	{Day: 1, Value: 100000},
	{Day: 2, Value: 100500},
	{Day: 3, Value: 100200},
	{Day: 4, Value: 101100},
	{Day: 5, Value: 101500},
	{Day: 6, Value: 101300},
	{Day: 7, Value: 102000},
}

// Snapshot is a read-only copy of the session state, safe to hand to
// any observer.
type Snapshot struct {
	Status           contracts.Status                          `json:"status"`
	CurrentStage     contracts.Stage                           `json:"currentStage"`
	StageOutputs     map[contracts.Stage]contracts.StageOutput `json:"stageOutputs"`
	Trades           []contracts.Trade                         `json:"trades"`
	ErrorMessage     string                                    `json:"errorMessage,omitempty"`
	PortfolioHistory []contracts.PortfolioPoint                `json:"portfolioHistory"`
	Strategy         string                                    `json:"strategy"`
}

// Store is the session state store
// SSOT: PipelineRun fields are mutated here and nowhere else
type Store struct {
	mu sync.RWMutex

	status       contracts.Status
	currentStage contracts.Stage
	stageOutputs map[contracts.Stage]contracts.StageOutput
	trades       []contracts.Trade
	errorMessage string
	history      []contracts.PortfolioPoint
	strategy     string

	subscribers map[chan Snapshot]struct{}
}

// New creates a session store seeded with the initial portfolio history
// and the given default strategy text.
func New(strategy string) *Store {
	history := make([]contracts.PortfolioPoint, len(InitialPortfolioHistory))
	copy(history, InitialPortfolioHistory)

	return &Store{
		status:       contracts.StatusIdle,
		currentStage: contracts.StageIdle,
		stageOutputs: make(map[contracts.Stage]contracts.StageOutput),
		history:      history,
		strategy:     strategy,
		subscribers:  make(map[chan Snapshot]struct{}),
	}
}

// BeginRun transitions the session into a running state and clears the
// previous run's outputs. Returns ErrRunInFlight when a run is already
// active; callers must not start a second pipeline for the session.
func (s *Store) BeginRun() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == contracts.StatusRunning {
		return contracts.ErrRunInFlight
	}

	s.status = contracts.StatusRunning
	s.currentStage = contracts.StageIdle
	s.stageOutputs = make(map[contracts.Stage]contracts.StageOutput)
	s.trades = nil
	s.errorMessage = ""

	s.notifyLocked()
	return nil
}

// SetStage marks a stage as the one currently executing. The update is
// visible to observers before the stage's provider call starts.
func (s *Store) SetStage(stage contracts.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentStage = stage
	s.notifyLocked()
}

// SetStageOutput records the observable result of a completed stage.
func (s *Store) SetStageOutput(stage contracts.Stage, out contracts.StageOutput) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stageOutputs[stage] = out
	s.notifyLocked()
}

// CompleteRun transitions to the completed terminal state with the
// validated trade list.
func (s *Store) CompleteRun(trades []contracts.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = contracts.StatusCompleted
	s.currentStage = contracts.StageIdle
	s.trades = trades
	s.notifyLocked()
}

// FailRun transitions to the error terminal state. Outputs of stages
// that already completed stay visible; the trade list is cleared.
func (s *Store) FailRun(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = contracts.StatusError
	s.currentStage = contracts.StageIdle
	s.errorMessage = message
	s.trades = nil
	s.notifyLocked()
}

// AppendValuation appends a new portfolio sample. History is
// append-only and never truncated during a session.
func (s *Store) AppendValuation(p contracts.PortfolioPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, p)
	s.notifyLocked()
}

// LastValuation returns the most recent portfolio sample.
func (s *Store) LastValuation() contracts.PortfolioPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.history[len(s.history)-1]
}

// SetStrategy updates the free-text strategy. Rejected while a run is
// active so the advisor stage always sees the text the run started with.
func (s *Store) SetStrategy(strategy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == contracts.StatusRunning {
		return contracts.ErrRunInFlight
	}

	s.strategy = strategy
	s.notifyLocked()
	return nil
}

// Strategy returns the current strategy text.
func (s *Store) Strategy() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.strategy
}

// Snapshot returns a deep copy of the session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	outputs := make(map[contracts.Stage]contracts.StageOutput, len(s.stageOutputs))
	for stage, out := range s.stageOutputs {
		cp := out
		if out.Sources != nil {
			cp.Sources = append([]contracts.Citation(nil), out.Sources...)
		}
		outputs[stage] = cp
	}

	trades := append([]contracts.Trade(nil), s.trades...)
	history := append([]contracts.PortfolioPoint(nil), s.history...)

	return Snapshot{
		Status:           s.status,
		CurrentStage:     s.currentStage,
		StageOutputs:     outputs,
		Trades:           trades,
		ErrorMessage:     s.errorMessage,
		PortfolioHistory: history,
		Strategy:         s.strategy,
	}
}

// Subscribe registers an observer channel that receives a snapshot on
// every state change. The channel is buffered; a slow observer drops
// intermediate snapshots rather than blocking the pipeline.
func (s *Store) Subscribe() chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 16)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes an observer channel and closes it.
func (s *Store) Unsubscribe(ch chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}

// notifyLocked pushes the current snapshot to all subscribers without
// blocking. Callers must hold s.mu.
func (s *Store) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}

	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// observer is behind, skip this update
		}
	}
}
