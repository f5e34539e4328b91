// Package scheduler runs unattended investment cycles on a cron
// schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

// Scheduler manages scheduled jobs
// SSOT: schedule management happens here only
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	history map[string]*JobHistory
	mu      sync.RWMutex
}

// New creates a new scheduler
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		logger:  log.WithField("module", "scheduler"),
		jobs:    make(map[string]Job),
		history: make(map[string]*JobHistory),
	}
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobName := job.Name()

	if _, exists := s.jobs[jobName]; exists {
		return fmt.Errorf("job %s already exists", jobName)
	}

	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", jobName, err)
	}

	s.jobs[jobName] = job
	s.history[jobName] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

// History returns a copy of the execution history for a job
func (s *Scheduler) History(jobName string) []JobResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.history[jobName]
	if !ok {
		return nil
	}
	return append([]JobResult(nil), h.Results...)
}

// runJob executes a job and records its result
func (s *Scheduler) runJob(job Job) {
	result := JobResult{
		JobName:   job.Name(),
		StartTime: time.Now(),
	}

	s.logger.WithField("job", job.Name()).Info("Running scheduled job")

	err := job.Run(context.Background())

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Success = err == nil
	if err != nil {
		result.Error = err.Error()
		s.logger.WithError(err).WithField("job", job.Name()).Error("Scheduled job failed")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"job":      job.Name(),
			"duration": result.Duration,
		}).Info("Scheduled job completed")
	}

	s.mu.Lock()
	if h, ok := s.history[job.Name()]; ok {
		h.AddResult(result)
	}
	s.mu.Unlock()
}
