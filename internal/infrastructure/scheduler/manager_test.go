package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figures-analytics/figures/internal/shared/biztime"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

type fakeRunner struct {
	dates chan time.Time
}

func (r *fakeRunner) RunAllSites(_ context.Context, date time.Time) error {
	r.dates <- date
	return nil
}

func TestRegisterPipelineJob_RejectsInvalidHour(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	_, err = m.RegisterPipelineJob(&fakeRunner{}, 24)
	assert.Error(t, err)
	_, err = m.RegisterPipelineJob(&fakeRunner{}, -1)
	assert.Error(t, err)
	assert.Empty(t, m.Jobs())
}

func TestRegisterPipelineJob_NextRunAtConfiguredHour(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	job, err := m.RegisterPipelineJob(&fakeRunner{dates: make(chan time.Time, 1)}, 2)
	require.NoError(t, err)
	assert.Equal(t, pipelineJobName, job.Name())

	m.Start()
	defer func() { assert.NoError(t, m.Stop()) }()

	next, err := job.NextRun()
	require.NoError(t, err)
	local := next.In(biztime.Location())
	assert.Equal(t, 2, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestRegisterPipelineJob_RunNowUsesYesterday(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	runner := &fakeRunner{dates: make(chan time.Time, 1)}
	job, err := m.RegisterPipelineJob(runner, 3)
	require.NoError(t, err)

	m.Start()
	defer m.Stop()
	require.NoError(t, job.RunNow())

	select {
	case date := <-runner.dates:
		assert.Equal(t, biztime.Yesterday(), date)
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline job did not run")
	}
}

func TestSchedulerManager_StartStopIdempotent(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNop())
	require.NoError(t, err)

	assert.NoError(t, m.Stop())
	m.Start()
	m.Start()
	assert.True(t, m.IsStarted())
	assert.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}
