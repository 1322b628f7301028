package commands

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/fundwatch/internal/scheduler"
	"github.com/wonny/fundwatch/internal/scheduler/jobs"
)

// schedulerCmd runs the cron scheduler in the foreground.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the daily pipeline and gap repair on their schedules",
	Long: `Starts the cron scheduler with two jobs:
  daily_pipeline  weekday evenings after the NAV report is published
  gap_repair      Sunday mornings

The jobs share a lock, so they never mutate the series concurrently.

Example:
  go run ./cmd/fundwatch scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var storeMu sync.Mutex

	sched := scheduler.New(a.log)
	if err := sched.AddJob(jobs.NewDailyPipelineJob(a.pipeline, &storeMu, a.log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewGapRepairJob(a.repairer, &storeMu, a.log)); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutdown signal received")
	return nil
}
