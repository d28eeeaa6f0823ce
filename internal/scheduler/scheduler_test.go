package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func noop(ctx context.Context) error { return nil }

func TestScheduleAnalysisInvalidExpression(t *testing.T) {
	s := NewScheduler(testLogger(), time.Second)

	_, err := s.ScheduleAnalysis("not a cron", "analysis", noop)
	assert.Error(t, err)
}

func TestStartRequiresJobs(t *testing.T) {
	s := NewScheduler(testLogger(), time.Second)
	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(testLogger(), time.Second)

	_, err := s.ScheduleAnalysis("@every 1h", "analysis", noop)
	require.NoError(t, err)
	require.Len(t, s.Entries(), 1)

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())

	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, 5*time.Second)

	_, err = s.ScheduleAnalysis("@every 1h", "late", noop)
	assert.Error(t, err)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
	assert.NoError(t, s.Stop())
}

func TestScheduledJobRuns(t *testing.T) {
	s := NewScheduler(testLogger(), time.Second)

	var runs atomic.Int32
	_, err := s.ScheduleAnalysis("@every 1s", "analysis", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestRunNowAppliesTimeout(t *testing.T) {
	s := NewScheduler(testLogger(), 20*time.Millisecond)

	var deadline atomic.Bool
	s.RunNow("analysis", func(ctx context.Context) error {
		<-ctx.Done()
		deadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	})
	assert.True(t, deadline.Load())
}

func TestRemoveJob(t *testing.T) {
	s := NewScheduler(testLogger(), time.Second)

	id, err := s.ScheduleAnalysis("@every 1h", "analysis", noop)
	require.NoError(t, err)
	require.NoError(t, s.RemoveJob(id))
	assert.Empty(t, s.Entries())
	assert.Error(t, s.Start())
}
