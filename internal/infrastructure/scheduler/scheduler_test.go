package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
	err  error
	runs int
}

func (j *stubJob) Name() string        { return j.name }
func (j *stubJob) Description() string { return "stub job" }

func (j *stubJob) Run(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestIntervalSchedule(t *testing.T) {
	s := NewIntervalSchedule(5 * time.Minute)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, base.Add(5*time.Minute), s.Next(base))
	assert.Equal(t, "@every 5m0s", s.String())
}

func TestParseCronSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"*/5 * * * *", false},
		{"0 3 * * *", false},
		{"0 0 * * 0", false},
		{"15,45 9-17 * * *", false},
		{"* * * *", true},
		{"61 * * * *", true},
		{"* 25 * * *", true},
		{"bad * * * *", true},
	}

	for _, tt := range tests {
		_, err := ParseCronSchedule(tt.expr)
		if tt.wantErr {
			assert.Error(t, err, tt.expr)
		} else {
			assert.NoError(t, err, tt.expr)
		}
	}
}

func TestCronScheduleNext(t *testing.T) {
	cs, err := ParseCronSchedule("0 3 * * *")
	require.NoError(t, err)

	after := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	next := cs.Next(after)
	assert.Equal(t, time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC), next)

	// Already past midnight but before 03:00 runs the same day.
	after = time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 3, 0, 0, 0, time.UTC), cs.Next(after))
}

func TestCronScheduleNextEveryFiveMinutes(t *testing.T) {
	cs, err := ParseCronSchedule("*/5 * * * *")
	require.NoError(t, err)

	after := time.Date(2025, 6, 1, 12, 3, 20, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC), cs.Next(after))
}

func TestSchedulerRegister(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	job := &stubJob{name: "job-a"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	err := s.Register(&stubJob{name: "job-a"}, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Hour)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&stubJob{name: "job-b"}, nil), ErrNilSchedule)

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	assert.Equal(t, "job-a", infos[0].Name)
	assert.True(t, infos[0].Enabled)
	assert.False(t, infos[0].NextRun.IsZero())
}

func TestSchedulerEnableDisable(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	require.NoError(t, s.Register(&stubJob{name: "job-a"}, NewIntervalSchedule(time.Hour)))

	require.NoError(t, s.DisableJob("job-a"))
	info, err := s.GetJobInfo("job-a")
	require.NoError(t, err)
	assert.False(t, info.Enabled)

	require.NoError(t, s.EnableJob("job-a"))
	info, err = s.GetJobInfo("job-a")
	require.NoError(t, err)
	assert.True(t, info.Enabled)

	assert.ErrorIs(t, s.EnableJob("nope"), ErrJobNotFound)
	assert.ErrorIs(t, s.DisableJob("nope"), ErrJobNotFound)
}

func TestSchedulerRunNow(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	job := &stubJob{name: "job-a"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "job-a")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, job.runs)

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestSchedulerRunNowFailureRecorded(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())
	boom := errors.New("boom")
	require.NoError(t, s.Register(&stubJob{name: "job-a", err: boom}, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "job-a")
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, result)
	assert.False(t, result.Success)

	snap := s.GetMetrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalExecutions)
	assert.Equal(t, int64(1), snap.TotalFailures)

	history := s.GetHistory(10)
	require.Len(t, history, 1)
	assert.Equal(t, "job-a", history[0].JobName)
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler(DefaultSchedulerConfig())

	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}
