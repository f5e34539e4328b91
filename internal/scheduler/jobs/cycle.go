// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"errors"

	"github.com/EyalShechtman/AWSHackDay/internal/contracts"
	"github.com/EyalShechtman/AWSHackDay/internal/pipeline"
)

// CycleJob runs a full investment cycle on a schedule. If a manually
// triggered cycle is already in flight the scheduled run is skipped,
// not queued.
type CycleJob struct {
	orchestrator *pipeline.Orchestrator
	schedule     string
}

// NewCycleJob creates a cycle job with the given cron expression.
func NewCycleJob(orch *pipeline.Orchestrator, schedule string) *CycleJob {
	return &CycleJob{
		orchestrator: orch,
		schedule:     schedule,
	}
}

// Name returns the job name
func (j *CycleJob) Name() string {
	return "investment_cycle"
}

// Schedule returns the cron schedule expression
func (j *CycleJob) Schedule() string {
	return j.schedule
}

// Run executes one investment cycle
func (j *CycleJob) Run(ctx context.Context) error {
	err := j.orchestrator.RunCycle(ctx)
	if errors.Is(err, contracts.ErrRunInFlight) {
		// a manual run won the race, nothing to do
		return nil
	}
	return err
}
