package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EyalShechtman/AWSHackDay/pkg/logger"
)

type countingJob struct {
	name     string
	schedule string
	err      error
	runs     atomic.Int32
}

func (j *countingJob) Name() string     { return j.name }
func (j *countingJob) Schedule() string { return j.schedule }
func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := New(logger.NewNop())

	require.NoError(t, s.AddJob(&countingJob{name: "cycle", schedule: "@every 1h"}))
	err := s.AddJob(&countingJob{name: "cycle", schedule: "@every 1h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(logger.NewNop())

	err := s.AddJob(&countingJob{name: "cycle", schedule: "not a cron expression"})
	require.Error(t, err)
}

func TestScheduledJobRunsAndRecordsHistory(t *testing.T) {
	s := New(logger.NewNop())

	job := &countingJob{name: "cycle", schedule: "@every 1s"}
	require.NoError(t, s.AddJob(job))

	s.Start()
	defer s.Stop()

	require.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(s.History("cycle")) >= 1
	}, time.Second, 10*time.Millisecond)

	results := s.History("cycle")
	assert.True(t, results[0].Success)
	assert.Equal(t, "cycle", results[0].JobName)
}

func TestJobFailureRecorded(t *testing.T) {
	s := New(logger.NewNop())

	job := &countingJob{name: "cycle", schedule: "@every 1s", err: errors.New("provider down")}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	results := s.History("cycle")
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "provider down", results[0].Error)
}

func TestHistoryUnknownJob(t *testing.T) {
	s := New(logger.NewNop())
	assert.Nil(t, s.History("nope"))
}
