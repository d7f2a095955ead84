// Package scheduler runs the periodic metrics jobs using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/figures-analytics/figures/internal/shared/biztime"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// PipelineRunner computes the metrics of one calendar date for every site.
type PipelineRunner interface {
	RunAllSites(ctx context.Context, date time.Time) error
}

// pipelineTimeout bounds a single scheduled run.
const pipelineTimeout = 2 * time.Hour

const pipelineJobName = "daily-metrics-pipeline"

// SchedulerManager owns the gocron scheduler. Cron times are evaluated in
// the business timezone.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterPipelineJob runs the pipeline for yesterday's date once a day at
// hour (0-23, business timezone). An overlapping run is rescheduled rather
// than started twice.
func (m *SchedulerManager) RegisterPipelineJob(runner PipelineRunner, hour int) (gocron.Job, error) {
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("pipeline hour must be within 0-23, got %d", hour)
	}

	job, err := m.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
			defer cancel()
			m.executePipeline(ctx, runner, biztime.Yesterday())
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("metrics", "pipeline"),
		gocron.WithName(pipelineJobName),
	)
	if err != nil {
		return nil, err
	}

	m.logger.Infow("registered pipeline job", "hour", hour, "timezone", biztime.Location().String())
	return job, nil
}

func (m *SchedulerManager) executePipeline(ctx context.Context, runner PipelineRunner, date time.Time) {
	m.logger.Infow("executing daily metrics pipeline", "date_for", biztime.FormatDate(date))

	startTime := time.Now()
	if err := runner.RunAllSites(ctx, date); err != nil {
		m.logger.Errorw("daily metrics pipeline failed",
			"date_for", biztime.FormatDate(date),
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("daily metrics pipeline completed",
		"date_for", biztime.FormatDate(date),
		"duration", time.Since(startTime),
	)
}

// Start starts the scheduler. Calling it again is a no-op.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to finish and shuts the scheduler down.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
