package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/extremegraphics/lead-pipeline-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCloser struct {
	calls   atomic.Int32
	maxIdle time.Duration
	err     error
}

func (f *fakeCloser) CloseStale(_ context.Context, maxIdle time.Duration) (int64, error) {
	f.calls.Add(1)
	f.maxIdle = maxIdle
	return 3, f.err
}

func TestChatCleanupJob_Run(t *testing.T) {
	closer := &fakeCloser{}
	job := jobs.NewChatCleanupJob(closer, 48*time.Hour, zap.NewNop())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, int32(1), closer.calls.Load())
	assert.Equal(t, 48*time.Hour, closer.maxIdle)
	assert.Equal(t, jobs.ChatCleanupJobName, job.Name())

	closer.err = errors.New("db down")
	assert.ErrorIs(t, job.Run(context.Background()), closer.err)
}

func TestScheduler_Schedule(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())
	job := jobs.NewChatCleanupJob(&fakeCloser{}, time.Hour, zap.NewNop())

	require.NoError(t, s.Schedule("0 0 * * * *", time.Minute, job))
	assert.Equal(t, []string{jobs.ChatCleanupJobName}, s.JobNames())

	assert.Error(t, s.Schedule("0 0 * * * *", time.Minute, job), "duplicate names are rejected")

	require.NoError(t, s.Remove(jobs.ChatCleanupJobName))
	assert.Empty(t, s.JobNames())
	assert.Error(t, s.Remove(jobs.ChatCleanupJobName))

	assert.Error(t, s.Schedule("not a cron expression", time.Minute, job))
}

func TestScheduler_RunsJobs(t *testing.T) {
	closer := &fakeCloser{}
	s := jobs.NewScheduler(zap.NewNop())
	require.NoError(t, s.Schedule("@every 1s", time.Second, jobs.NewChatCleanupJob(closer, time.Hour, zap.NewNop())))

	s.Start()
	assert.Eventually(t, func() bool { return closer.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
