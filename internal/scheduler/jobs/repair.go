package jobs

import (
	"context"
	"sync"

	"github.com/wonny/fundwatch/internal/repair"
	"github.com/wonny/fundwatch/pkg/logger"
)

// GapRepairJob runs the series-wide gap repair pass.
type GapRepairJob struct {
	repairer *repair.Repairer
	storeMu  *sync.Mutex
	logger   *logger.Logger
}

// NewGapRepairJob creates the repair job. storeMu is shared with the daily
// pipeline job.
func NewGapRepairJob(r *repair.Repairer, storeMu *sync.Mutex, log *logger.Logger) *GapRepairJob {
	return &GapRepairJob{
		repairer: r,
		storeMu:  storeMu,
		logger:   log,
	}
}

// Name returns the job name.
func (j *GapRepairJob) Name() string {
	return "gap_repair"
}

// Schedule runs Sunday mornings, well clear of the daily pipeline.
func (j *GapRepairJob) Schedule() string {
	return "0 0 8 * * SUN"
}

// Run executes one repair pass.
func (j *GapRepairJob) Run(ctx context.Context) error {
	j.storeMu.Lock()
	defer j.storeMu.Unlock()

	j.logger.Info("Starting scheduled gap repair")

	report, err := j.repairer.RepairMissing(ctx)
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"repaired": report.Total,
		"unhealed": report.Unhealed,
	}).Info("Scheduled gap repair finished")
	return nil
}
