// Package jobs defines the scheduled jobs. Both jobs mutate the same series,
// so they share a mutex: the daily pipeline and gap repair never overlap.
package jobs

import (
	"context"
	"sync"

	"github.com/wonny/fundwatch/internal/pipeline"
	"github.com/wonny/fundwatch/pkg/logger"
)

// DailyPipelineJob runs the daily NAV cycle.
type DailyPipelineJob struct {
	pipeline *pipeline.Pipeline
	storeMu  *sync.Mutex
	logger   *logger.Logger
}

// NewDailyPipelineJob creates the daily job. storeMu is shared with the gap
// repair job.
func NewDailyPipelineJob(p *pipeline.Pipeline, storeMu *sync.Mutex, log *logger.Logger) *DailyPipelineJob {
	return &DailyPipelineJob{
		pipeline: p,
		storeMu:  storeMu,
		logger:   log,
	}
}

// Name returns the job name.
func (j *DailyPipelineJob) Name() string {
	return "daily_pipeline"
}

// Schedule runs weekday evenings at 21:30 IST, after AMFI publishes.
func (j *DailyPipelineJob) Schedule() string {
	return "0 30 21 * * MON-FRI"
}

// Run executes one daily cycle.
func (j *DailyPipelineJob) Run(ctx context.Context) error {
	j.storeMu.Lock()
	defer j.storeMu.Unlock()

	j.logger.Info("Starting scheduled daily pipeline")
	return j.pipeline.Run(ctx)
}
