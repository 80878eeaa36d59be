package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() Config {
	return Config{Workers: 2, QueueSize: 8, JobTimeout: time.Second, RetryAttempts: 2, RetryDelay: time.Millisecond}
}

func TestScheduler_RunsRegisteredJob(t *testing.T) {
	s := NewScheduler(testConfig(), nil, zap.NewNop())
	var runs atomic.Int32
	s.Register("invoice_overdue", JobFunc(func(ctx context.Context, job *Job) error {
		runs.Add(1)
		return nil
	}))

	require.NoError(t, s.Start(context.Background()))
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	job, err := s.Submit("invoice_overdue")
	require.NoError(t, err)
	assert.Equal(t, "invoice_overdue", job.Name)

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	s := NewScheduler(testConfig(), nil, zap.NewNop())
	var runs atomic.Int32
	s.Register("flaky", JobFunc(func(ctx context.Context, job *Job) error {
		if runs.Add(1) < 3 {
			return errors.New("db unavailable")
		}
		return nil
	}))

	require.NoError(t, s.Start(context.Background()))
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	_, err := s.Submit("flaky")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return runs.Load() == 3 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_GivesUpAfterRetries(t *testing.T) {
	s := NewScheduler(testConfig(), nil, zap.NewNop())
	var runs atomic.Int32
	s.Register("broken", JobFunc(func(ctx context.Context, job *Job) error {
		runs.Add(1)
		return errors.New("always")
	}))

	require.NoError(t, s.Start(context.Background()))
	_, err := s.Submit("broken")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return runs.Load() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(3), runs.Load())
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_SubmitErrors(t *testing.T) {
	s := NewScheduler(testConfig(), nil, zap.NewNop())
	_, err := s.Submit("anything")
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	_, err = s.Submit("unknown")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestScheduler_JobTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.JobTimeout = 10 * time.Millisecond
	cfg.RetryAttempts = 0
	s := NewScheduler(cfg, nil, zap.NewNop())

	done := make(chan error, 1)
	s.Register("slow", JobFunc(func(ctx context.Context, job *Job) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}))
	require.NoError(t, s.Start(context.Background()))
	defer func() { require.NoError(t, s.Stop(context.Background())) }()

	_, err := s.Submit("slow")
	require.NoError(t, err)
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("job was not cancelled")
	}
}

func TestIntervalTrigger(t *testing.T) {
	s := NewScheduler(testConfig(), nil, zap.NewNop())
	var runs atomic.Int32
	s.Register("tick", JobFunc(func(ctx context.Context, job *Job) error {
		runs.Add(1)
		return nil
	}))
	require.NoError(t, s.Start(context.Background()))

	trigger := NewIntervalTrigger(s, "tick", 10*time.Millisecond, true, zap.NewNop())
	trigger.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	trigger.Stop()
	trigger.Stop()
	require.NoError(t, s.Stop(context.Background()))
}

func TestJobLifecycle(t *testing.T) {
	job := NewJob("x", 1)
	job.start()
	job.finish(errors.New("boom"))
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.True(t, job.ShouldRetry())

	job.scheduleRetry(time.Second)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)

	job.start()
	job.finish(errors.New("boom"))
	assert.False(t, job.ShouldRetry())
}
